package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-orchestrator/internal/database/mock"
	"github.com/kozaktomas/face-orchestrator/internal/profiles"
)

func newTestProfilesHandler() (*ProfilesHandler, *mock.MockProfileStore) {
	store := mock.NewMockProfileStore()
	return NewProfilesHandler(profiles.NewCommandHandler(store)), store
}

func TestProfilesHandler_Create(t *testing.T) {
	h, store := newTestProfilesHandler()

	body := `{"firstName":"Jana","lastName":"Nováková","email":"jana@example.test","dateOfBirth":"1990-04-12"}`
	req := httptest.NewRequest("POST", "/api/userprofile", strings.NewReader(body))
	req.Header.Set(ApplicationUserHeader, "user-1")
	recorder := httptest.NewRecorder()

	h.Create(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var created profiles.UserProfile
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ApplicationUserID != "user-1" || created.LastName != "Nováková" {
		t.Errorf("unexpected profile %+v", created)
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 stored profile, got %d", store.Count())
	}
}

func TestProfilesHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		header string
		status int
	}{
		{"invalid json", `{"firstName":`, "user-1", http.StatusBadRequest},
		{"missing owner", `{"firstName":"Jana"}`, "", http.StatusBadRequest},
		{"bad date", `{"dateOfBirth":"yesterday"}`, "user-1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newTestProfilesHandler()
			req := httptest.NewRequest("POST", "/api/userprofile", strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set(ApplicationUserHeader, tt.header)
			}
			recorder := httptest.NewRecorder()

			h.Create(recorder, req)

			if recorder.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, recorder.Code)
			}
			if store.Count() != 0 {
				t.Error("expected nothing stored")
			}
		})
	}
}

func TestProfilesHandler_Get(t *testing.T) {
	h, store := newTestProfilesHandler()
	id := uuid.New().String()
	store.AddProfile(profiles.UserProfile{ID: id, ApplicationUserID: "user-1"})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"found", id, http.StatusOK},
		{"missing", uuid.New().String(), http.StatusNotFound},
		{"malformed id", "abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithChiParams(httptest.NewRequest("GET", "/api/userprofile/"+tt.id, nil), map[string]string{"id": tt.id})
			recorder := httptest.NewRecorder()

			h.Get(recorder, req)

			if recorder.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestProfilesHandler_NotConfigured(t *testing.T) {
	h := NewProfilesHandler(nil)

	recorder := httptest.NewRecorder()
	h.Create(recorder, httptest.NewRequest("POST", "/api/userprofile", strings.NewReader("{}")))
	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", recorder.Code)
	}
}

func TestProfilesHandler_StoreFailureHidesDetails(t *testing.T) {
	h, store := newTestProfilesHandler()
	store.CreateError = errStoreDown

	req := httptest.NewRequest("POST", "/api/userprofile", strings.NewReader(`{"firstName":"Jana"}`))
	req.Header.Set(ApplicationUserHeader, "user-1")
	recorder := httptest.NewRecorder()

	h.Create(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", recorder.Code)
	}
	if strings.Contains(recorder.Body.String(), "10.0.0.5") {
		t.Error("expected store error details to stay out of the response")
	}
}

var errStoreDown = &storeError{"dial tcp 10.0.0.5:5432: connection refused"}

type storeError struct{ msg string }

func (e *storeError) Error() string { return e.msg }

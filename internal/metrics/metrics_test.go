package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, "success"},
		{"canceled", context.Canceled, "canceled"},
		{"wrapped deadline", fmt.Errorf("list: %w", context.DeadlineExceeded), "canceled"},
		{"other", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outcome(tt.err); got != tt.expected {
				t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestObserveRemoteCall(t *testing.T) {
	before := testutil.ToFloat64(remoteCallsTotal.WithLabelValues("rekognition", "IndexFaces", "error"))

	ObserveRemoteCall("rekognition", "IndexFaces", errors.New("throttled"))

	after := testutil.ToFloat64(remoteCallsTotal.WithLabelValues("rekognition", "IndexFaces", "error"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, went from %v to %v", before, after)
	}
}

func TestHandler_ExposesCollectors(t *testing.T) {
	ObserveBatchItem(nil)
	ObserveBatch(time.Now(), nil)

	recorder := httptest.NewRecorder()
	Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	for _, name := range []string{"face_orchestrator_batch_items_total", "face_orchestrator_batch_duration_seconds"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}

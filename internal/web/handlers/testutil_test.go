package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-orchestrator/internal/config"
	"github.com/kozaktomas/face-orchestrator/internal/faces"
	"github.com/kozaktomas/face-orchestrator/internal/objectstore"
	"github.com/kozaktomas/face-orchestrator/internal/orchestrator"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		AWS: config.AWSConfig{Region: "us-west-2", AccessKeyID: "AKIAEXAMPLE1234", SecretAccessKey: "secret"},
		Faces: config.FacesConfig{
			SimilarityThreshold: 70,
			SearchMaxFaces:      2,
			ListPageSize:        2,
		},
		Storage: config.StorageConfig{
			DefaultBucket: "test-collection-bucket",
			PresignTTL:    5 * time.Hour,
		},
	}
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeResult decodes an OperationResult envelope, keeping data raw
func decodeResult(t *testing.T, recorder *httptest.ResponseRecorder) (string, string, json.RawMessage) {
	t.Helper()
	var envelope struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope %q: %v", recorder.Body.String(), err)
	}
	return envelope.Status, envelope.Message, envelope.Data
}

// fakeOrchestrator records the last arguments and returns canned results
type fakeOrchestrator struct {
	args []string
	err  error

	compare   *faces.CompareResult
	created   *faces.CreatedCollection
	info      *faces.CollectionInfo
	indexed   *faces.IndexResult
	batch     *orchestrator.BatchResult
	matches   []faces.SearchMatch
	faceIDs   []string
	presigned *objectstore.PresignedURL
	keys      []string
}

func (f *fakeOrchestrator) record(args ...string) { f.args = args }

func (f *fakeOrchestrator) CompareFaces(ctx context.Context, sourceRef, targetRef string) (*faces.CompareResult, error) {
	f.record(sourceRef, targetRef)
	return f.compare, f.err
}

func (f *fakeOrchestrator) CreateCollection(ctx context.Context, collectionID string) (*faces.CreatedCollection, error) {
	f.record(collectionID)
	return f.created, f.err
}

func (f *fakeOrchestrator) DescribeCollection(ctx context.Context, collectionID string) (*faces.CollectionInfo, error) {
	f.record(collectionID)
	return f.info, f.err
}

func (f *fakeOrchestrator) CreateBucket(ctx context.Context, bucket string) (string, error) {
	f.record(bucket)
	if bucket == "" {
		bucket = "test-collection-bucket"
	}
	return bucket, f.err
}

func (f *fakeOrchestrator) IndexImage(ctx context.Context, bucket, collectionID, key string) (*faces.IndexResult, error) {
	f.record(bucket, collectionID, key)
	return f.indexed, f.err
}

func (f *fakeOrchestrator) LoadBucket(ctx context.Context, bucket, collectionID string, progress orchestrator.ProgressFunc) (*orchestrator.BatchResult, error) {
	f.record(bucket, collectionID)
	return f.batch, f.err
}

func (f *fakeOrchestrator) SearchCollection(ctx context.Context, collectionID, bucket, key string) ([]faces.SearchMatch, error) {
	f.record(collectionID, bucket, key)
	return f.matches, f.err
}

func (f *fakeOrchestrator) ListFaces(ctx context.Context, collectionID string) ([]string, error) {
	f.record(collectionID)
	return f.faceIDs, f.err
}

func (f *fakeOrchestrator) PresignURL(ctx context.Context, bucket, key string) (*objectstore.PresignedURL, error) {
	f.record(bucket, key)
	return f.presigned, f.err
}

func (f *fakeOrchestrator) ListObjects(ctx context.Context, bucket string) ([]string, error) {
	f.record(bucket)
	return f.keys, f.err
}

package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kozaktomas/face-orchestrator/internal/faces"
	"github.com/kozaktomas/face-orchestrator/internal/objectstore"
	"github.com/kozaktomas/face-orchestrator/internal/orchestrator"
)

// FaceOrchestrator is implemented by *orchestrator.Orchestrator.
type FaceOrchestrator interface {
	CompareFaces(ctx context.Context, sourceRef, targetRef string) (*faces.CompareResult, error)
	CreateCollection(ctx context.Context, collectionID string) (*faces.CreatedCollection, error)
	DescribeCollection(ctx context.Context, collectionID string) (*faces.CollectionInfo, error)
	CreateBucket(ctx context.Context, bucket string) (string, error)
	IndexImage(ctx context.Context, bucket, collectionID, key string) (*faces.IndexResult, error)
	LoadBucket(ctx context.Context, bucket, collectionID string, progress orchestrator.ProgressFunc) (*orchestrator.BatchResult, error)
	SearchCollection(ctx context.Context, collectionID, bucket, key string) ([]faces.SearchMatch, error)
	ListFaces(ctx context.Context, collectionID string) ([]string, error)
	PresignURL(ctx context.Context, bucket, key string) (*objectstore.PresignedURL, error)
	ListObjects(ctx context.Context, bucket string) ([]string, error)
}

// FaceRecognitionHandler serves /api/facerecognition. Every response is an
// orchestrator.OperationResult.
type FaceRecognitionHandler struct {
	orchestrator FaceOrchestrator
}

func NewFaceRecognitionHandler(o FaceOrchestrator) *FaceRecognitionHandler {
	return &FaceRecognitionHandler{orchestrator: o}
}

// CompareTwoFaces handles GET /compare-two-faces?sourceImageUrl=&targetImageUrl=
func (h *FaceRecognitionHandler) CompareTwoFaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.orchestrator.CompareFaces(r.Context(), q.Get("sourceImageUrl"), q.Get("targetImageUrl"))
	if err != nil {
		respondFailure(w, r, "compare-two-faces", err, nil)
		return
	}
	respondSuccess(w, fmt.Sprintf("%d matching face(s)", len(result.Matches)), result)
}

// CreateCollection handles POST /create-collection?collectionId=
func (h *FaceRecognitionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("collectionId")
	created, err := h.orchestrator.CreateCollection(r.Context(), id)
	if err != nil {
		respondFailure(w, r, "create-collection", err, nil)
		return
	}
	respondSuccess(w, "collection "+id+" created", created)
}

// DescribeCollection handles GET /decsribe-collection?collectionId=
func (h *FaceRecognitionHandler) DescribeCollection(w http.ResponseWriter, r *http.Request) {
	info, err := h.orchestrator.DescribeCollection(r.Context(), r.URL.Query().Get("collectionId"))
	if err != nil {
		respondFailure(w, r, "describe-collection", err, nil)
		return
	}
	respondSuccess(w, fmt.Sprintf("collection holds %d face(s)", info.FaceCount), info)
}

// CreateS3Bucket handles POST /create-s3bucket; bucketName defaults to the configured bucket.
func (h *FaceRecognitionHandler) CreateS3Bucket(w http.ResponseWriter, r *http.Request) {
	bucket, err := h.orchestrator.CreateBucket(r.Context(), r.URL.Query().Get("bucketName"))
	if err != nil {
		respondFailure(w, r, "create-s3bucket", err, nil)
		return
	}
	respondSuccess(w, "bucket "+bucket+" created", map[string]string{"bucket": bucket})
}

// AddSingleFace handles POST /add-single-face-to-collection?bucketName=&collectionId=&imageName=
func (h *FaceRecognitionHandler) AddSingleFace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.orchestrator.IndexImage(r.Context(), q.Get("bucketName"), q.Get("collectionId"), q.Get("imageName"))
	if err != nil {
		respondFailure(w, r, "add-single-face-to-collection", err, nil)
		return
	}
	message := "no face detected"
	if result.FaceID != "" {
		message = "face " + result.FaceID + " indexed"
	}
	respondSuccess(w, message, result)
}

// AddAllFaces handles POST /add-all-faces-to-collection?bucketName=&collectionId=
func (h *FaceRecognitionHandler) AddAllFaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.orchestrator.LoadBucket(r.Context(), q.Get("bucketName"), q.Get("collectionId"), nil)
	if err != nil {
		respondFailure(w, r, "add-all-faces-to-collection", err, result)
		return
	}
	respondSuccess(w, fmt.Sprintf("%d image(s) indexed", result.Processed), result)
}

// SearchFace handles GET /search-a-face?collectionId=&bucketName=&imageName=
func (h *FaceRecognitionHandler) SearchFace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matches, err := h.orchestrator.SearchCollection(r.Context(), q.Get("collectionId"), q.Get("bucketName"), q.Get("imageName"))
	if err != nil {
		respondFailure(w, r, "search-a-face", err, nil)
		return
	}
	respondSuccess(w, fmt.Sprintf("%d match(es)", len(matches)), matches)
}

// ListFaces handles GET /list-faces-in-a-collection?collectionId=
func (h *FaceRecognitionHandler) ListFaces(w http.ResponseWriter, r *http.Request) {
	ids, err := h.orchestrator.ListFaces(r.Context(), r.URL.Query().Get("collectionId"))
	if err != nil {
		respondFailure(w, r, "list-faces-in-a-collection", err, nil)
		return
	}
	respondSuccess(w, fmt.Sprintf("%d face(s)", len(ids)), ids)
}

// PresignURL handles GET /presign-url?bucketName=&imageName=
func (h *FaceRecognitionHandler) PresignURL(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	presigned, err := h.orchestrator.PresignURL(r.Context(), q.Get("bucketName"), q.Get("imageName"))
	if err != nil {
		respondFailure(w, r, "presign-url", err, nil)
		return
	}
	respondSuccess(w, "url expires at "+presigned.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"), presigned)
}

// ListObjects handles GET /list-objects?bucketName=
func (h *FaceRecognitionHandler) ListObjects(w http.ResponseWriter, r *http.Request) {
	keys, err := h.orchestrator.ListObjects(r.Context(), r.URL.Query().Get("bucketName"))
	if err != nil {
		respondFailure(w, r, "list-objects", err, nil)
		return
	}
	respondSuccess(w, fmt.Sprintf("%d object(s)", len(keys)), keys)
}

// Package orchestrator combines the object store and the face service into
// the operations exposed over HTTP and the CLI: comparing faces, managing
// collections and loading whole buckets into a collection.
package orchestrator

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kozaktomas/face-orchestrator/internal/config"
	"github.com/kozaktomas/face-orchestrator/internal/constants"
	"github.com/kozaktomas/face-orchestrator/internal/faces"
	"github.com/kozaktomas/face-orchestrator/internal/metrics"
	"github.com/kozaktomas/face-orchestrator/internal/objectstore"
)

// ObjectStore is implemented by *objectstore.Store.
type ObjectStore interface {
	ListKeys(ctx context.Context, bucket string) ([]string, error)
	PresignGet(ctx context.Context, bucket, key string) (*objectstore.PresignedURL, error)
	CreateBucket(ctx context.Context, bucket string) error
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

// FaceService is implemented by *faces.Client.
type FaceService interface {
	Compare(ctx context.Context, source, target faces.Image, threshold float32) (*faces.CompareResult, error)
	CreateCollection(ctx context.Context, collectionID string) (*faces.CreatedCollection, error)
	DescribeCollection(ctx context.Context, collectionID string) (*faces.CollectionInfo, error)
	IndexFace(ctx context.Context, collectionID string, ref faces.S3Ref) (*faces.IndexResult, error)
	SearchByImage(ctx context.Context, collectionID string, img faces.Image, threshold float32, maxFaces int32) ([]faces.SearchMatch, error)
	ListFaces(ctx context.Context, collectionID string, pageSize int32) ([]string, error)
}

// Settings are the tunables read from configuration at start-up.
type Settings struct {
	SimilarityThreshold float32
	SearchMaxFaces      int32
	ListPageSize        int32
	DefaultBucket       string
	MaxImageBytes       int
}

// SettingsFromConfig copies the relevant configuration values.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		SimilarityThreshold: cfg.Faces.SimilarityThreshold,
		SearchMaxFaces:      cfg.Faces.SearchMaxFaces,
		ListPageSize:        cfg.Faces.ListPageSize,
		DefaultBucket:       cfg.Storage.DefaultBucket,
		MaxImageBytes:       cfg.Storage.MaxImageBytes,
	}
}

func (s Settings) withDefaults() Settings {
	if s.SimilarityThreshold <= 0 {
		s.SimilarityThreshold = constants.DefaultSimilarityThreshold
	}
	if s.SearchMaxFaces <= 0 {
		s.SearchMaxFaces = constants.DefaultSearchMaxFaces
	}
	if s.ListPageSize <= 0 {
		s.ListPageSize = constants.DefaultListPageSize
	}
	if s.MaxImageBytes <= 0 {
		s.MaxImageBytes = constants.MaxImageBytes
	}
	return s
}

// Orchestrator holds only shared, long-lived clients; it is safe for
// concurrent use and keeps no per-request state.
type Orchestrator struct {
	store    ObjectStore
	faces    FaceService
	http     *http.Client
	settings Settings
}

func New(store ObjectStore, faceService FaceService, httpClient *http.Client, settings Settings) *Orchestrator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Orchestrator{
		store:    store,
		faces:    faceService,
		http:     httpClient,
		settings: settings.withDefaults(),
	}
}

// Settings returns the effective settings, defaults applied.
func (o *Orchestrator) Settings() Settings {
	return o.settings
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return validationError("%s is required", name)
	}
	return nil
}

// CompareFaces fetches both images and reports target faces at or above the
// similarity threshold. No face on either side is a successful empty result.
func (o *Orchestrator) CompareFaces(ctx context.Context, sourceRef, targetRef string) (*faces.CompareResult, error) {
	if err := required("sourceImageUrl", sourceRef); err != nil {
		return nil, err
	}
	if err := required("targetImageUrl", targetRef); err != nil {
		return nil, err
	}

	source, err := o.fetchImage(ctx, sourceRef)
	if err != nil {
		return nil, err
	}
	target, err := o.fetchImage(ctx, targetRef)
	if err != nil {
		return nil, err
	}

	result, err := o.faces.Compare(ctx, faces.Image{Bytes: source}, faces.Image{Bytes: target}, o.settings.SimilarityThreshold)
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

func (o *Orchestrator) CreateCollection(ctx context.Context, collectionID string) (*faces.CreatedCollection, error) {
	if err := required("collectionId", collectionID); err != nil {
		return nil, err
	}
	created, err := o.faces.CreateCollection(ctx, collectionID)
	if err != nil {
		return nil, classify(err)
	}
	log.Printf("[orchestrator] collection %s created (%s)", collectionID, created.ARN)
	return created, nil
}

func (o *Orchestrator) DescribeCollection(ctx context.Context, collectionID string) (*faces.CollectionInfo, error) {
	if err := required("collectionId", collectionID); err != nil {
		return nil, err
	}
	info, err := o.faces.DescribeCollection(ctx, collectionID)
	if err != nil {
		return nil, classify(err)
	}
	return info, nil
}

// CreateBucket creates bucket, or the configured default bucket when empty.
// It returns the name of the bucket that was created.
func (o *Orchestrator) CreateBucket(ctx context.Context, bucket string) (string, error) {
	if bucket == "" {
		bucket = o.settings.DefaultBucket
	}
	if err := required("bucketName", bucket); err != nil {
		return "", err
	}
	if err := o.store.CreateBucket(ctx, bucket); err != nil {
		return "", classify(err)
	}
	return bucket, nil
}

// IndexImage adds the faces in bucket/key to the collection. The face id of
// the first detected face is returned; an image without faces is not an error.
func (o *Orchestrator) IndexImage(ctx context.Context, bucket, collectionID, key string) (*faces.IndexResult, error) {
	for _, p := range [][2]string{{"bucketName", bucket}, {"collectionId", collectionID}, {"imageName", key}} {
		if err := required(p[0], p[1]); err != nil {
			return nil, err
		}
	}

	result, err := o.faces.IndexFace(ctx, collectionID, faces.S3Ref{Bucket: bucket, Key: key})
	if err != nil {
		return nil, classify(err)
	}
	log.Printf("[orchestrator] indexed %s/%s into %s: %d face(s), %d unindexed",
		bucket, key, collectionID, len(result.FaceIDs), result.Unindexed)
	return result, nil
}

// BatchItem is the outcome of indexing one key during a batch load.
type BatchItem struct {
	Key    string `json:"key"`
	FaceID string `json:"face_id"`
}

// BatchResult carries the progress of a batch load. On failure it holds the
// items processed before the failing one.
type BatchResult struct {
	Bucket       string      `json:"bucket"`
	CollectionID string      `json:"collection_id"`
	Total        int         `json:"total"`
	Processed    int         `json:"processed"`
	Items        []BatchItem `json:"items"`
}

// ProgressFunc is called after each indexed item.
type ProgressFunc func(processed, total int, key string)

// LoadBucket indexes every object in bucket into the collection, one at a
// time in listing order. The first failure stops the load: the returned
// error is a *BatchError and the result holds everything processed before it.
func (o *Orchestrator) LoadBucket(ctx context.Context, bucket, collectionID string, progress ProgressFunc) (result *BatchResult, err error) {
	if err := required("bucketName", bucket); err != nil {
		return nil, err
	}
	if err := required("collectionId", collectionID); err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() { metrics.ObserveBatch(started, err) }()

	keys, err := o.store.ListKeys(ctx, bucket)
	if err != nil {
		return nil, classify(err)
	}

	result = &BatchResult{
		Bucket:       bucket,
		CollectionID: collectionID,
		Total:        len(keys),
		Items:        make([]BatchItem, 0, len(keys)),
	}

	for i, key := range keys {
		if cerr := ctx.Err(); cerr != nil {
			return result, &BatchError{Bucket: bucket, Key: key, Index: i, Processed: result.Processed, Err: cerr}
		}

		indexed, ierr := o.IndexImage(ctx, bucket, collectionID, key)
		metrics.ObserveBatchItem(ierr)
		if ierr != nil {
			log.Printf("[orchestrator] batch load of %s stopped at %s: %v", bucket, key, ierr)
			return result, &BatchError{Bucket: bucket, Key: key, Index: i, Processed: result.Processed, Err: ierr}
		}

		result.Items = append(result.Items, BatchItem{Key: key, FaceID: indexed.FaceID})
		result.Processed++
		if progress != nil {
			progress(result.Processed, result.Total, key)
		}
	}

	log.Printf("[orchestrator] batch load of %s into %s finished: %d item(s) in %s",
		bucket, collectionID, result.Processed, time.Since(started).Round(time.Millisecond))
	return result, nil
}

// SearchCollection finds collection faces similar to the face in bucket/key.
func (o *Orchestrator) SearchCollection(ctx context.Context, collectionID, bucket, key string) ([]faces.SearchMatch, error) {
	for _, p := range [][2]string{{"collectionId", collectionID}, {"bucketName", bucket}, {"imageName", key}} {
		if err := required(p[0], p[1]); err != nil {
			return nil, err
		}
	}

	matches, err := o.faces.SearchByImage(ctx, collectionID,
		faces.Image{S3: &faces.S3Ref{Bucket: bucket, Key: key}},
		o.settings.SimilarityThreshold, o.settings.SearchMaxFaces)
	if err != nil {
		return nil, classify(err)
	}
	return matches, nil
}

// ListFaces returns every face id in the collection.
func (o *Orchestrator) ListFaces(ctx context.Context, collectionID string) ([]string, error) {
	if err := required("collectionId", collectionID); err != nil {
		return nil, err
	}
	ids, err := o.faces.ListFaces(ctx, collectionID, o.settings.ListPageSize)
	if err != nil {
		return nil, classify(err)
	}
	return ids, nil
}

func (o *Orchestrator) PresignURL(ctx context.Context, bucket, key string) (*objectstore.PresignedURL, error) {
	if err := required("bucketName", bucket); err != nil {
		return nil, err
	}
	if err := required("imageName", key); err != nil {
		return nil, err
	}
	presigned, err := o.store.PresignGet(ctx, bucket, key)
	if err != nil {
		return nil, classify(err)
	}
	return presigned, nil
}

func (o *Orchestrator) ListObjects(ctx context.Context, bucket string) ([]string, error) {
	if err := required("bucketName", bucket); err != nil {
		return nil, err
	}
	keys, err := o.store.ListKeys(ctx, bucket)
	if err != nil {
		return nil, classify(err)
	}
	return keys, nil
}

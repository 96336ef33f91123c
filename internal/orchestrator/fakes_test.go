package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-orchestrator/internal/faces"
	"github.com/kozaktomas/face-orchestrator/internal/objectstore"
)

type fakeStore struct {
	buckets map[string][]string
	objects map[string][]byte

	listErr     error
	createErr   error
	presignErr  error
	created     []string
	listCalls   int
	downloadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{buckets: map[string][]string{}, objects: map[string][]byte{}}
}

func (f *fakeStore) ListKeys(ctx context.Context, bucket string) ([]string, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	keys, ok := f.buckets[bucket]
	if !ok {
		return nil, errors.New("NoSuchBucket")
	}
	return append([]string{}, keys...), nil
}

func (f *fakeStore) PresignGet(ctx context.Context, bucket, key string) (*objectstore.PresignedURL, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return &objectstore.PresignedURL{URL: "https://example.test/" + bucket + "/" + key, Method: "GET"}, nil
}

func (f *fakeStore) CreateBucket(ctx context.Context, bucket string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, bucket)
	f.buckets[bucket] = []string{}
	return nil
}

func (f *fakeStore) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("object %s/%s missing", bucket, key)
	}
	return data, nil
}

// fakeFaces is an in-memory face service. Every compared pair scores
// similarity; matches below the requested threshold are dropped the way the
// real service does.
type fakeFaces struct {
	collections map[string][]string
	facesPerKey map[string]int
	failOn      map[string]error
	nextFace    int

	similarity   float32
	noFaceImages bool

	indexed      []string
	lastThresh   float32
	lastMaxFaces int32
	lastPageSize int32
	lastSource   faces.Image
	searchErr    error
	compareErr   error
	createErr    error
}

func newFakeFaces() *fakeFaces {
	return &fakeFaces{
		collections: map[string][]string{},
		facesPerKey: map[string]int{},
		failOn:      map[string]error{},
	}
}

func (f *fakeFaces) Compare(ctx context.Context, source, target faces.Image, threshold float32) (*faces.CompareResult, error) {
	f.lastThresh = threshold
	f.lastSource = source
	if f.compareErr != nil {
		return nil, f.compareErr
	}
	result := &faces.CompareResult{Matches: []faces.FaceMatch{}}
	if f.noFaceImages {
		return result, nil
	}
	if f.similarity >= threshold {
		result.Matches = append(result.Matches, faces.FaceMatch{Left: 0.1, Top: 0.2, Similarity: f.similarity})
	} else {
		result.UnmatchedCount = 1
	}
	return result, nil
}

func (f *fakeFaces) CreateCollection(ctx context.Context, collectionID string) (*faces.CreatedCollection, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.collections[collectionID] = []string{}
	return &faces.CreatedCollection{ARN: "arn:" + collectionID, StatusCode: 200}, nil
}

func (f *fakeFaces) DescribeCollection(ctx context.Context, collectionID string) (*faces.CollectionInfo, error) {
	ids, ok := f.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}
	return &faces.CollectionInfo{ARN: "arn:" + collectionID, FaceCount: int64(len(ids))}, nil
}

func (f *fakeFaces) IndexFace(ctx context.Context, collectionID string, ref faces.S3Ref) (*faces.IndexResult, error) {
	f.indexed = append(f.indexed, ref.Key)
	if err := f.failOn[ref.Key]; err != nil {
		return nil, err
	}
	if _, ok := f.collections[collectionID]; !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}

	result := &faces.IndexResult{FaceIDs: []string{}, ExternalImageID: faces.ExternalImageID(ref.Key)}
	for range f.facesPerKey[ref.Key] {
		f.nextFace++
		id := fmt.Sprintf("F%d", f.nextFace)
		f.collections[collectionID] = append(f.collections[collectionID], id)
		result.FaceIDs = append(result.FaceIDs, id)
	}
	if len(result.FaceIDs) > 0 {
		result.FaceID = result.FaceIDs[0]
	}
	return result, nil
}

func (f *fakeFaces) SearchByImage(ctx context.Context, collectionID string, img faces.Image, threshold float32, maxFaces int32) ([]faces.SearchMatch, error) {
	f.lastThresh = threshold
	f.lastMaxFaces = maxFaces
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	matches := []faces.SearchMatch{}
	for _, id := range f.collections[collectionID] {
		if int32(len(matches)) == maxFaces {
			break
		}
		if f.similarity >= threshold {
			matches = append(matches, faces.SearchMatch{FaceID: id, Similarity: f.similarity})
		}
	}
	return matches, nil
}

func (f *fakeFaces) ListFaces(ctx context.Context, collectionID string, pageSize int32) ([]string, error) {
	f.lastPageSize = pageSize
	ids, ok := f.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collectionID)
	}
	return append([]string{}, ids...), nil
}

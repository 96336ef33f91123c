package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		status int
	}{
		{"collection not found", &rektypes.ResourceNotFoundException{Message: aws.String("x")}, ErrNotFound, http.StatusNotFound},
		{"no such bucket", fmt.Errorf("listing: %w", &s3types.NoSuchBucket{}), ErrNotFound, http.StatusNotFound},
		{"no such key", &s3types.NoSuchKey{}, ErrNotFound, http.StatusNotFound},
		{"generic not found code", &smithy.GenericAPIError{Code: "NotFound"}, ErrNotFound, http.StatusNotFound},
		{"invalid parameter", &rektypes.InvalidParameterException{}, ErrValidation, http.StatusBadRequest},
		{"collection exists", &rektypes.ResourceAlreadyExistsException{}, ErrValidation, http.StatusBadRequest},
		{"image too large", &rektypes.ImageTooLargeException{}, ErrValidation, http.StatusBadRequest},
		{"throttled", &smithy.GenericAPIError{Code: "ThrottlingException"}, ErrTransport, http.StatusInternalServerError},
		{"plain error", errors.New("connection reset"), ErrTransport, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err)
			if !errors.Is(err, tt.target) {
				t.Errorf("classify() = %v, want kind %v", err, tt.target)
			}
			if got := HTTPStatus(err); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestClassify_KeepsKnownErrors(t *testing.T) {
	if classify(nil) != nil {
		t.Error("expected nil for nil")
	}

	already := fmt.Errorf("%w: bad input", ErrValidation)
	if classify(already) != already {
		t.Error("expected already-classified error to be returned unchanged")
	}

	canceled := fmt.Errorf("calling: %w", context.Canceled)
	if classify(canceled) != canceled {
		t.Error("expected context errors to be returned unchanged")
	}
	if HTTPStatus(context.DeadlineExceeded) != http.StatusGatewayTimeout {
		t.Error("expected deadline to map to 504")
	}
}

func TestBatchError(t *testing.T) {
	inner := fmt.Errorf("%w: collection people", ErrNotFound)
	err := &BatchError{Bucket: "b", Key: "c.jpg", Index: 2, Processed: 2, Err: inner}

	if !errors.Is(err, ErrNotFound) {
		t.Error("expected BatchError to unwrap to the item error")
	}
	if HTTPStatus(err) != http.StatusInternalServerError {
		t.Errorf("expected 500 for a batch failure, got %d", HTTPStatus(err))
	}
	want := "batch load of bucket b stopped at item 2 (c.jpg) after 2 processed: not found: collection people"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestOperationResult_JSON(t *testing.T) {
	partial := &BatchResult{Bucket: "b", CollectionID: "people", Total: 3, Processed: 1, Items: []BatchItem{{Key: "a.jpg", FaceID: "F1"}}}

	tests := []struct {
		name     string
		result   OperationResult
		expected string
	}{
		{
			"success",
			Success("done", map[string]int{"processed": 1}),
			`{"status":"success","message":"done","data":{"processed":1}}`,
		},
		{
			"failure without data",
			Failure(fmt.Errorf("%w: collectionId is required", ErrValidation), partial),
			`{"status":"failure","message":"validation failed: collectionId is required","data":null}`,
		},
		{
			"batch failure keeps progress",
			Failure(&BatchError{Bucket: "b", Key: "b.jpg", Index: 1, Processed: 1, Err: errors.New("boom")}, partial),
			`{"status":"failure","message":"batch load of bucket b stopped at item 1 (b.jpg) after 1 processed: boom","data":{"bucket":"b","collection_id":"people","total":3,"processed":1,"items":[{"key":"a.jpg","face_id":"F1"}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.expected {
				t.Errorf("got  %s\nwant %s", data, tt.expected)
			}
		})
	}
}

func TestParseS3Ref(t *testing.T) {
	tests := []struct {
		ref     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://photos/a.jpg", "photos", "a.jpg", false},
		{"s3://photos/people/a.jpg", "photos", "people/a.jpg", false},
		{"s3://photos", "", "", true},
		{"s3:///a.jpg", "", "", true},
		{"s3://photos/", "", "", true},
		{"https://photos/a.jpg", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref, err := ParseS3Ref(tt.ref)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ref.Bucket != tt.bucket || ref.Key != tt.key {
				t.Errorf("got %+v", ref)
			}
		})
	}
}

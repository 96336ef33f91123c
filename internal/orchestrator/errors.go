package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Error kinds. Every error returned by Orchestrator wraps exactly one of them
// (or is a *BatchError, which unwraps to the kind of the failed item).
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrTransport  = errors.New("remote call failed")
)

// BatchError reports the item that stopped a batch load. Processed counts
// items indexed before it.
type BatchError struct {
	Bucket    string
	Key       string
	Index     int
	Processed int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch load of bucket %s stopped at item %d (%s) after %d processed: %v",
		e.Bucket, e.Index, e.Key, e.Processed, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFoundCodes are service error codes that mean the addressed resource does not exist.
var notFoundCodes = map[string]bool{
	"NoSuchBucket":              true,
	"NoSuchKey":                 true,
	"NotFound":                  true,
	"ResourceNotFoundException": true,
}

// classify wraps err with the kind matching the remote failure.
// Already-classified errors and context errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrTransport) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var (
		rnf       *rektypes.ResourceNotFoundException
		noBucket  *s3types.NoSuchBucket
		noKey     *s3types.NoSuchKey
		notFound  *s3types.NotFound
		invalid   *rektypes.InvalidParameterException
		badImage  *rektypes.InvalidImageFormatException
		tooLarge  *rektypes.ImageTooLargeException
		exists    *rektypes.ResourceAlreadyExistsException
		badObject *rektypes.InvalidS3ObjectException
	)
	switch {
	case errors.As(err, &rnf), errors.As(err, &noBucket), errors.As(err, &noKey), errors.As(err, &notFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.As(err, &invalid), errors.As(err, &badImage), errors.As(err, &tooLarge),
		errors.As(err, &exists), errors.As(err, &badObject):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && notFoundCodes[apiErr.ErrorCode()] {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// HTTPStatus maps an error onto the response status used by the web API.
// A batch failure is always a server error, whatever stopped it.
func HTTPStatus(err error) int {
	var batchErr *BatchError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &batchErr):
		return http.StatusInternalServerError
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

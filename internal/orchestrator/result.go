package orchestrator

import (
	"errors"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// OperationResult is the envelope returned to every API caller.
// Data is nil on failure except for batch loads, where it carries the
// progress made before the failing item.
type OperationResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func Success(message string, data any) OperationResult {
	return OperationResult{Status: StatusSuccess, Message: message, Data: data}
}

// Failure builds a failure envelope from err. Partial batch progress is kept
// as data when err is a *BatchError and partial is non-nil.
func Failure(err error, partial *BatchResult) OperationResult {
	result := OperationResult{Status: StatusFailure, Message: err.Error()}
	var batchErr *BatchError
	if errors.As(err, &batchErr) && partial != nil {
		result.Data = partial
	}
	return result
}

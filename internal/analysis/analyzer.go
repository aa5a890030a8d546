package analysis

import (
	"context"
)

// ErrorKind classifies analysis failures so callers can tell a missing
// credential apart from a flaky API call.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindAPI           ErrorKind = "api"
	KindResponse      ErrorKind = "response"
)

// APIError is a tagged failure from the vision API boundary.
type APIError struct {
	Kind    ErrorKind
	Message string
}

func (e *APIError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Result is the outcome of one analysis attempt. Err is nil on success.
type Result struct {
	Description string
	Err         *APIError
}

// Failed reports whether the attempt produced no usable description.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Analyzer describes an image with a vision-language model. One attempt per
// call; no retry or backoff. A failure is carried in the Result, never
// panicked or wrapped in an opaque error, so a batch loop can keep going.
type Analyzer interface {
	Describe(ctx context.Context, imageData []byte, mimeType, prompt string) Result
}

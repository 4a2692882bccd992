package genai

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable marks connect/timeout failures reaching the model
// backend. ErrUnparsableOutput marks raw text with no decodable JSON
// object. Both are recoverable at the retry-controller level.
var (
	ErrModelUnavailable = errors.New("model backend unavailable")
	ErrUnparsableOutput = errors.New("unparsable model output")
)

// ModelError is a non-2xx response from the model backend.
type ModelError struct {
	StatusCode int
	Body       string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model http %d: %s", e.StatusCode, e.Body)
}

// ValidationError rejects a structurally or qualitatively deficient
// candidate. Reason is one of the validator's fixed check names.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

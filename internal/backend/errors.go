package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound reports a missing resource. A *NetworkError with status 404 matches it.
var ErrNotFound = errors.New("backend: not found")

// NetworkError covers transport failures (Status 0) and non-2xx responses.
type NetworkError struct {
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Status > 0 {
		if e.Message != "" {
			return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
		}
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	if e.Err != nil {
		return "backend: " + e.Err.Error()
	}
	return "backend: " + e.Message
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// DecodeError means the response body did not have the expected shape.
type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("backend: decode %s: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

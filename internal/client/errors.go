package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by APIError for 404 responses
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the server
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

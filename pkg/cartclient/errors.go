package cartclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport  = errors.New("cart api: transport failure")
	ErrNotFound   = errors.New("cart api: not found")
	ErrValidation = errors.New("cart api: validation failed")
)

// APIError is a non-2xx answer. Message is the server's error field, if any.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cart api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("cart api: status %d", e.Status)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// Message returns the user-facing text carried by err, or "" when the server sent none.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

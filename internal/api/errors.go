package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized    = errors.New("api: unauthorized")
	ErrNotFound        = errors.New("api: not found")
	ErrTransport       = errors.New("api: backend unreachable")
	ErrInvalidResponse = errors.New("api: invalid response")
)

// GenericMessage is shown for transport and unexpected failures.
const GenericMessage = "Something went wrong. Please try again."

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s %s: %d", e.Method, e.Path, e.Status)
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// UserMessage picks what to show a shopper: the backend's own message for
// domain failures, fallback otherwise.
func UserMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = GenericMessage
	}
	var e *Error
	if errors.As(err, &e) && e.Status < 500 && e.Message != "" {
		return e.Message
	}
	return fallback
}

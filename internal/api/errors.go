package api

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindBackend
	KindNetwork
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBackend:
		return "backend"
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

const NetworkErrorMessage = "Network error. Please check your internet connection."

// Error is returned by every Client call that fails.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error [%d]: %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// UserMessage returns the text worth showing to the buyer: the backend's message
// for API errors, the error text otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// Messages the backend uses when a token predates the user id claim.
var tokenRefreshMarkers = []string{
	"User ID not found in token",
	"Please log out and log in again",
}

func needsTokenRefresh(message string) bool {
	for _, marker := range tokenRefreshMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

package podman

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the structured failure every client call returns. Message is
// the short text, Reason the backend's cause.
type APIError struct {
	Message string `json:"message"`
	Reason  string `json:"cause"`
	Status  int    `json:"response"`
}

// Error implements error.
func (e *APIError) Error() string {
	return e.Detail()
}

// Detail formats the failure as "<message>: <reason>".
func (e *APIError) Detail() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Reason)
}

// AsAPIError converts any error into an *APIError. Errors that are not API
// errors (transport failures, decoding problems) keep their text as Reason.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Message: "connection failed", Reason: err.Error()}
}

// IsConflict reports whether err is a 409 from the backend, e.g. deleting a
// volume that is still in use.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// IsNotFound reports whether err is a 404 from the backend, e.g. inspecting a
// container that was removed after it was listed.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// ErrServiceUnavailable is returned by Connections.For when the requested
// owner scope has no reachable service.
var ErrServiceUnavailable = errors.New("podman service not available")

// Package errs defines the error type handlers return for client-facing
// failures. Anything that is not an *HTTPError is reported as a 500.
package errs

import (
	"net/http"
	"strings"
)

// HTTPError carries the status and the message written as {"error": message}.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// WithMessage copies e with a more specific message.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{Code: e.Code, Message: message, Status: e.Status}
}

func newError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

func NewBadRequestError(message string) *HTTPError {
	return newError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message string) *HTTPError {
	return newError(http.StatusUnauthorized, message)
}

func NewNotFoundError(message string) *HTTPError {
	return newError(http.StatusNotFound, message)
}

func NewServiceUnavailableError(message string) *HTTPError {
	return newError(http.StatusServiceUnavailable, message)
}

// MissingField is the 400 returned when a required body key is absent or empty.
func MissingField(field string) *HTTPError {
	return NewBadRequestError("Missing '" + field + "' in request body")
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

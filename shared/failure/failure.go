package failure

import (
	"context"
	"errors"
	"net/http"
)

// Failure is an error that already knows its HTTP status. Message is what
// the client sees; the cause, when present, stays server side.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.cause
}

// BadRequest turns a validation error into a 400. A nil error stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: http.StatusBadRequest, Message: err.Error(), cause: err}
}

func BadRequestFromString(msg string) error {
	return &Failure{Code: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) error {
	return &Failure{Code: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &Failure{Code: http.StatusForbidden, Message: msg}
}

// NotFound takes the full client message, e.g. "reservation not found".
func NotFound(msg string) error {
	return &Failure{Code: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &Failure{Code: http.StatusConflict, Message: msg}
}

// BadGateway reports an upstream provider (Google, SMTP) that refused or
// failed the call.
func BadGateway(msg string, cause error) error {
	return &Failure{Code: http.StatusBadGateway, Message: msg, cause: cause}
}

// GetCode resolves the status for any error; unknown errors are 500.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// IsClientError reports whether err carries a 4xx status.
func IsClientError(err error) bool {
	code := GetCode(err)

	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured, user-facing error carrying an HTTP status and a
// stable machine-readable code. Extra holds fields echoed in the error body
// (allowed content types, received bytes, measured duration, ...).
type AppError struct {
	Status int
	Code   string
	Detail string
	Extra  map[string]interface{}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func New(status int, code string, detail string) *AppError {
	return &AppError{
		Status: status,
		Code:   code,
		Detail: detail,
	}
}

func (e *AppError) WithExtra(extra map[string]interface{}) *AppError {
	e.Extra = extra
	return e
}

func BadRequest(code string, detail string) *AppError {
	return New(http.StatusBadRequest, code, detail)
}

func Unauthorized(detail string) *AppError {
	return New(http.StatusUnauthorized, "unauthorized", detail)
}

func NotFound(code string, detail string) *AppError {
	return New(http.StatusNotFound, code, detail)
}

// AsAppError unwraps err into an *AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

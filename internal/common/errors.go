package common

import (
	"errors"
	"net/http"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// InvalidRequest builds the canonical 400 error for malformed client input.
func InvalidRequest(message string, err error) *AppError {
	return NewAppError("INVALID_REQUEST", message, http.StatusBadRequest, err)
}

// UpstreamError builds the canonical 500 error for payment-provider failures.
// The upstream message is preserved so callers can surface it.
func UpstreamError(err error) *AppError {
	message := "payment provider request failed"
	if err != nil {
		message = err.Error()
	}
	return NewAppError("UPSTREAM_ERROR", message, http.StatusInternalServerError, err)
}

// WriteError renders err as the canonical JSON error payload, mapping
// AppError metadata onto status and code when present.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		message := appErr.Message
		if message == "" {
			message = "internal error"
		}
		JSONError(w, status, code, message, appErr.Details)
		return
	}
	JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

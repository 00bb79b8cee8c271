// Package common provides shared utilities used across all features
package common

import (
	"fmt"
	"net/http"
)

// HttpError represents an HTTP error with status code and machine-readable code
type HttpError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s %s", e.StatusCode, e.Code, e.Message)
}

func messageOrDefault(msg string, defaultMsg string) string {
	if msg != "" {
		return msg
	}
	return defaultMsg
}

// HTTP Error constructors

func HTTPErrorBadRequest(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    messageOrDefault(msg, "Bad request"),
	}
}

func HTTPErrorNotFound(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    messageOrDefault(msg, "Not found"),
	}
}

func HTTPErrorConflict(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusConflict,
		Code:       "RESOURCE_CONFLICT",
		Message:    messageOrDefault(msg, "Resource conflict"),
	}
}

func HTTPErrorUnprocessable(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       "UNPROCESSABLE",
		Message:    messageOrDefault(msg, "Unprocessable request"),
	}
}

func HTTPErrorBadGateway(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusBadGateway,
		Code:       "BAD_GATEWAY",
		Message:    messageOrDefault(msg, "Upstream failure"),
	}
}

func HTTPErrorInternalError(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    messageOrDefault(msg, "Internal server error"),
	}
}

// WithCode overrides the machine-readable code, keeping status and message.
func (e *HttpError) WithCode(code string) *HttpError {
	e.Code = code
	return e
}

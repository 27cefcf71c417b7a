package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrEmptyInput     ErrorCode = "EMPTY_INPUT"
	ErrSchema         ErrorCode = "SCHEMA_ERROR"
	ErrUnprocessable  ErrorCode = "UNPROCESSABLE"
	ErrTooLarge       ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrUnavailable    ErrorCode = "UNAVAILABLE"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if code == ErrInternalServer {
		logrus.WithField("details", details).Debug(message)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch apiErr.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidInput, ErrEmptyInput:
		return http.StatusBadRequest
	case ErrSchema, ErrUnprocessable:
		return http.StatusUnprocessableEntity
	case ErrTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

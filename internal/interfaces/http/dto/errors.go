package dto

import (
	"net/http"

	"github.com/erp/bills/internal/domain/shared"
)

// Error codes returned in ErrorInfo.Code. Domain codes pass through unchanged.
const (
	ErrCodeValidation    = shared.CodeValidation
	ErrCodeNotFound      = shared.CodeNotFound
	ErrCodeAlreadyExists = shared.CodeAlreadyExists
	ErrCodeInternal      = shared.CodeInternal
	ErrCodePublishFailed = shared.CodePublishFailed

	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// Messages for responses that must not leak internals
const (
	MsgValidationFailed = "Validation failed"
	MsgInternal         = "An unexpected error occurred."
	MsgBrokerFailure    = "Message broker error."
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodePublishFailed:    http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for code, or 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

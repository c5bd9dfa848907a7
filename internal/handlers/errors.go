package handlers

import (
	"errors"
	"net/http"

	"apigw-agent-bridge/internal/models"
	"apigw-agent-bridge/internal/runtime"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// dispatchStatus maps a dispatch failure to an HTTP status. Refused payloads
// are the caller's fault; anything else failed behind the dispatcher.
func dispatchStatus(err error) (int, string) {
	switch {
	case errors.Is(err, runtime.ErrUnsupportedShape):
		return http.StatusUnprocessableEntity, "Unsupported invocation shape"
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadGateway, "Invalid handler response"
	default:
		return http.StatusBadGateway, "Handler failed"
	}
}

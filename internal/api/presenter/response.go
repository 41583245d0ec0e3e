package presenter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/tokenkeep/internal/api/middleware"
	"github.com/darmiel/tokenkeep/internal/service"
)

// SuccessResponse is the envelope for successful token operations.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Error         string `json:"error,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

// Success writes data (which may be nil) inside the success envelope.
func Success(w http.ResponseWriter, r *http.Request, message string, data any, status int) {
	JSON(w, r, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	}, status)
}

// Error writes the error envelope with a short message and a detail.
func Error(w http.ResponseWriter, r *http.Request, message, detail string, status int) {
	JSON(w, r, ErrorResponse{
		Message:       message,
		Error:         detail,
		CorrelationID: middleware.CorrelationCtx(r.Context()),
	}, status)
}

// Err maps err to an error response. Service errors carry their own status and message,
// anything else is reported as an internal server error without detail.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *service.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Msg("internal error")
		status := http.StatusInternalServerError
		message := "Internal server error"
		if httpErr != nil {
			status = httpErr.StatusCode
			if httpErr.Message != "" {
				message = httpErr.Message
			}
		}
		Error(w, r, message, "", status)
		return
	}

	message := httpErr.Message
	if message == "" {
		message = http.StatusText(httpErr.StatusCode)
	}
	Error(w, r, message, httpErr.Wrapped.Error(), httpErr.StatusCode)
}

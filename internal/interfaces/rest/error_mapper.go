package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
	Data    any         `json:"data,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteError maps application errors to HTTP responses. Server-side failures
// are logged with the full chain and answered with a generic message.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	statusCode := application.ToHTTPStatus(err)
	errorCode := application.ToErrorCode(err)

	message := err.Error()
	if svcErr, ok := application.IsServiceError(err); ok {
		message = svcErr.Message
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request failed", "code", errorCode, "status", statusCode, "error", err)
		if statusCode == http.StatusInternalServerError {
			message = "internal server error"
		}
	}

	writeJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    errorCode,
			Message: message,
		},
	})
}

// WriteValidationError reports request fields that failed validation.
func WriteValidationError(w http.ResponseWriter, message string, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    application.ErrCodeInvalidInput,
			Message: message,
			Details: details,
		},
	})
}

// WriteFailure reports an expected business outcome, such as a declined
// checkout, with whatever state the client needs to continue.
func WriteFailure(w http.ResponseWriter, status int, code, message string, data any) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Code: code, Message: message},
		Data:    data,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

package wave

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Waver/internal/core/attachments"
	"Waver/internal/core/users"
	"Waver/internal/core/waves"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "UserNotFound", "User not found")

	case errors.Is(err, attachments.ErrNotFound):
		writeError(w, http.StatusNotFound, "AttachmentNotFound", "Attachment not found")

	case errors.Is(err, attachments.ErrAlreadyLinked):
		writeError(w, http.StatusConflict, "AttachmentInUse",
			"Attachment is already linked to another wave")

	case errors.Is(err, waves.ErrNotAllowed):
		writeError(w, http.StatusForbidden, "NotAllowed",
			"You are not allowed to delete this wave")

	case waves.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in wave handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}

// writeJSON encodes a success response
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

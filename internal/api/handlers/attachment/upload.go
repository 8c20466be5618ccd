package attachment

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"Waver/internal/api/middleware"
	"Waver/internal/core/attachments"
)

// maxUploadSize caps attachment uploads at 6MB
const maxUploadSize = 6 * 1024 * 1024

// UploadHandler handles attachment uploads. Attachments are uploaded first
// and referenced later in the wave creation payload.
type UploadHandler struct {
	service attachments.Service
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service attachments.Service) *UploadHandler {
	return &UploadHandler{service: service}
}

// HandleUpload handles POST /api/1.0/waves/upload with a multipart "file"
// field. Returns the unlinked attachment record, including the media type
// detected from the content bytes.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if middleware.GetUserID(r) == 0 {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
				"Attachment too large (max 6MB)")
			return
		}
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Failed to read file")
		return
	}

	attachment, err := h.service.Upload(r.Context(), data)
	if err != nil {
		log.Printf("Unexpected error in upload handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(attachment); err != nil {
		log.Printf("Failed to encode upload response: %v", err)
	}
}

package wave

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"Waver/internal/api/middleware"
	"Waver/internal/core/waves"
)

// Content length bounds, enforced at the boundary before the core is called
const (
	minContentLength = 10
	maxContentLength = 5000
)

// CreateHandler handles wave creation requests
type CreateHandler struct {
	service waves.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service waves.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// createWaveInput is the request body for wave creation. The attachment, if
// any, references a previously uploaded, still-unlinked record.
type createWaveInput struct {
	Content    string `json:"content"`
	Attachment *struct {
		ID int64 `json:"id"`
	} `json:"attachment,omitempty"`
}

// HandleCreate handles POST /api/1.0/waves
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	// Limit request body size; content caps at 5000 chars
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)

	var input createWaveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	callerID := middleware.GetUserID(r)
	if callerID == 0 {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if n := utf8.RuneCountInString(input.Content); n < minContentLength || n > maxContentLength {
		writeError(w, http.StatusBadRequest, "InvalidRequest",
			"content must be between 10 and 5000 characters")
		return
	}

	req := waves.CreateRequest{
		Content:  input.Content,
		AuthorID: callerID,
	}
	if input.Attachment != nil {
		id := input.Attachment.ID
		req.AttachmentID = &id
	}

	view, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

package wave

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Waver/internal/api/middleware"
	"Waver/internal/core/waves"
)

// DeleteHandler handles wave deletion requests
type DeleteHandler struct {
	service waves.Service
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler(service waves.Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// genericResponse is the body returned for acknowledged mutations
type genericResponse struct {
	Message string `json:"message"`
}

// HandleDelete handles DELETE /api/1.0/waves/{id}
//
// Denials are 403 regardless of whether the wave exists, so callers cannot
// probe for deleted or foreign waves.
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	waveID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid wave id")
		return
	}

	callerID := middleware.GetUserID(r)
	if callerID == 0 {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), waveID, callerID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, genericResponse{Message: "Wave is removed"})
}

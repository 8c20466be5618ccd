package wave

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"Waver/internal/core/waves"
)

// RelativeHandler handles id-anchored feed reads: pages of older waves,
// flat lists of newer waves, and new-since counts
type RelativeHandler struct {
	service waves.Service
}

// NewRelativeHandler creates a new relative feed handler
func NewRelativeHandler(service waves.Service) *RelativeHandler {
	return &RelativeHandler{service: service}
}

// countResponse carries the bare new-since count
type countResponse struct {
	Count int64 `json:"count"`
}

// HandleRelative dispatches on direction and count:
// GET /api/1.0/waves/{id}?direction=after|before&count=false&page&size&sort
// GET /api/1.0/users/{username}/waves/{id}?...
//
// before        -> counted page of waves with id < anchor
// after         -> flat list of waves with id > anchor (no count metadata)
// after + count -> {"count": n}, no rows materialized
// The anchor need not reference an existing wave.
func (h *RelativeHandler) HandleRelative(w http.ResponseWriter, r *http.Request) {
	anchorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid wave id")
		return
	}

	req := waves.RelativeRequest{
		AnchorID: anchorID,
		Author:   authorParam(r),
	}
	req.Page, req.Size, req.Sort = parsePaging(r)

	direction := r.URL.Query().Get("direction")
	if direction == "" {
		direction = "after"
	}

	if !strings.EqualFold(direction, "after") {
		page, err := h.service.GetOlder(r.Context(), req)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
		return
	}

	if r.URL.Query().Get("count") == "true" {
		count, err := h.service.CountNewer(r.Context(), req)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, countResponse{Count: count})
		return
	}

	views, err := h.service.GetNewer(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

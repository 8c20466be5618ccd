package wave

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Waver/internal/core/waves"
)

// FeedHandler handles anchorless feed reads, global and author-scoped
type FeedHandler struct {
	service waves.Service
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(service waves.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// HandleFeed returns a counted page of waves ordered by recency.
// GET /api/1.0/waves?page=0&size=10&sort=desc
// GET /api/1.0/users/{username}/waves?page=0&size=10&sort=desc
func (h *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	req := waves.FeedRequest{Author: authorParam(r)}
	req.Page, req.Size, req.Sort = parsePaging(r)

	page, err := h.service.GetFeed(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// authorParam extracts the optional username path parameter
func authorParam(r *http.Request) *string {
	if username := chi.URLParam(r, "username"); username != "" {
		return &username
	}
	return nil
}

// parsePaging reads the shared page/size/sort query parameters; the service
// applies defaults and bounds
func parsePaging(r *http.Request) (page, size int, sort string) {
	query := r.URL.Query()
	if v, err := strconv.Atoi(query.Get("page")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(query.Get("size")); err == nil {
		size = v
	}
	sort = query.Get("sort")
	return page, size, sort
}

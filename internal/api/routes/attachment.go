package routes

import (
	"github.com/go-chi/chi/v5"

	attachmentHandlers "Waver/internal/api/handlers/attachment"
	"Waver/internal/api/middleware"
	"Waver/internal/core/attachments"
)

// RegisterAttachmentRoutes registers the attachment upload endpoint
func RegisterAttachmentRoutes(
	r chi.Router,
	attachmentService attachments.Service,
	authMiddleware *middleware.BasicAuthMiddleware,
) {
	uploadHandler := attachmentHandlers.NewUploadHandler(attachmentService)

	// Uploads happen before the owning wave exists; unlinked uploads are
	// collected by the reaper after the retention window
	r.With(authMiddleware.RequireAuth).Post("/waves/upload", uploadHandler.HandleUpload)
}

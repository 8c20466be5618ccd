package routes

import (
	"github.com/go-chi/chi/v5"

	waveHandlers "Waver/internal/api/handlers/wave"
	"Waver/internal/api/middleware"
	"Waver/internal/core/waves"
)

// RegisterWaveRoutes registers the feed and wave mutation endpoints
func RegisterWaveRoutes(
	r chi.Router,
	waveService waves.Service,
	authMiddleware *middleware.BasicAuthMiddleware,
) {
	feedHandler := waveHandlers.NewFeedHandler(waveService)
	relativeHandler := waveHandlers.NewRelativeHandler(waveService)
	createHandler := waveHandlers.NewCreateHandler(waveService)
	deleteHandler := waveHandlers.NewDeleteHandler(waveService)

	r.Get("/waves", feedHandler.HandleFeed)
	r.Get("/waves/{id:[0-9]+}", relativeHandler.HandleRelative)
	r.Get("/users/{username}/waves", feedHandler.HandleFeed)
	r.Get("/users/{username}/waves/{id:[0-9]+}", relativeHandler.HandleRelative)

	r.With(authMiddleware.RequireAuth).Post("/waves", createHandler.HandleCreate)
	r.With(authMiddleware.RequireAuth).Delete("/waves/{id:[0-9]+}", deleteHandler.HandleDelete)
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/medtrack-api/internal/api"
	apiMiddleware "github.com/phrazzld/medtrack-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.accountService, app.sessionManager, app.jwtService)
	medicineHandler := api.NewMedicineHandler(app.trackerService)
	statsHandler := api.NewStatsHandler(app.trackerService)
	suggestionHandler := api.NewSuggestionHandler()
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Reference table (public, read-only)
		r.Get("/suggestions", suggestionHandler.List)
		r.Get("/suggestions/{disease}", suggestionHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)

			// Schedule endpoints
			r.Get("/medicines", medicineHandler.List)
			r.Post("/medicines", medicineHandler.Create)
			r.Put("/medicines/{id}", medicineHandler.Update)
			r.Delete("/medicines/{id}", medicineHandler.Delete)
			r.Post("/medicines/{id}/taken", medicineHandler.SetTaken)
			r.Post("/medicines/mark-all-taken", medicineHandler.MarkAllTaken)
			r.Post("/medicines/reset", medicineHandler.Reset)

			// Derived statistics
			r.Get("/stats", statsHandler.Get)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

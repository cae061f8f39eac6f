package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ternarybob/bosbiss/internal/handlers"
)

func (s *Server) setupRoutes() {
	api := s.app.APIHandler

	s.router.NotFound(api.NotFoundHandler)
	s.router.MethodNotAllowed(api.MethodNotAllowedHandler)

	// WebSocket connections outlive the request timeout
	s.router.Get("/ws", s.app.WSHandler.HandleWebSocket)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		// System
		r.Get("/health", api.HealthHandler)
		r.Get("/version", api.VersionHandler)

		// Session
		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.app.SessionHandler.GetSessionHandler)
			r.Put("/form", s.app.SessionHandler.UpdateFormHandler)
			r.Post("/analyze", s.app.SessionHandler.AnalyzeHandler)
			r.Post("/price", s.app.SessionHandler.FetchPriceHandler)
		})

		// Watchlist
		r.Route("/watchlist", func(r chi.Router) {
			r.Get("/", s.app.WatchlistHandler.ListHandler)
			r.Post("/", s.app.WatchlistHandler.SaveHandler)
			r.Post("/{ticker}/load", s.app.WatchlistHandler.LoadHandler)
			r.Delete("/{ticker}", s.app.WatchlistHandler.DeleteHandler)
		})

		// Maintenance
		r.Route("/scheduler", func(r chi.Router) {
			r.Get("/jobs", s.app.SchedulerHandler.ListJobsHandler)
			r.Post("/jobs/{name}/run", s.app.SchedulerHandler.RunJobHandler)
		})

		// Stateless valuation
		r.Get("/valuation", handlers.ValuationHandler)
	})
}

package router

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/aniweb/internal/handler"
	"github.com/actuallystonmai/aniweb/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func Setup(h *handler.Handler, origins []string) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Requests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler)

	// Routes
	r.Get("/health", healthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/anime", func(r chi.Router) {
			r.Get("/home", h.GetHome)
			r.Get("/trending", h.GetTrending)
			r.Get("/recent", h.GetRecent)
			r.Get("/search", h.Search)
			r.Get("/info/{id}", h.GetInfo)
			r.Get("/watch/{episodeId}", h.Watch)
			r.Get("/sources/{episodeId}", h.GetSources)
		})

		r.Get("/profiles", h.ListProfiles)
		r.Post("/profiles", h.SaveProfile)
		r.Post("/profiles/auth", h.Authenticate)
		r.Delete("/profiles/{id}", h.DeleteProfile)

		r.Get("/history/{profileId}", h.GetHistory)
		r.Post("/history", h.SyncHistory)

		r.Get("/settings", h.GetSettings)
		r.Post("/settings", h.UpdateSettings)
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"OK","message":"Aniweb Scraper API is running."}`))
}

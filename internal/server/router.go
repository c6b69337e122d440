package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/parleyhq/parley/internal/api"
	"github.com/parleyhq/parley/internal/api/handlers"
	"github.com/parleyhq/parley/internal/api/middleware"
)

type RouterConfig struct {
	AdvisorHandler *handlers.AdvisorHandler
	ChatHandler    *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.UserContext)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/advisors", func(r chi.Router) {
		r.Get("/", cfg.AdvisorHandler.List)
		r.Post("/search", cfg.AdvisorHandler.Search)
		r.Get("/suggested", cfg.AdvisorHandler.Suggested)
		r.Get("/popular", cfg.AdvisorHandler.Popular)
		r.Get("/{id}", cfg.AdvisorHandler.Get)
		r.Post("/{id}/selections", cfg.AdvisorHandler.Select)
		r.Post("/{id}/chat", cfg.ChatHandler.Chat)
	})

	return r
}

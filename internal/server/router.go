package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mainstreet-labs/mainstreet/internal/api"
	"github.com/mainstreet-labs/mainstreet/internal/api/handlers"
	"github.com/mainstreet-labs/mainstreet/internal/api/middleware"
)

type RouterConfig struct {
	TenantValidator  middleware.TenantValidator
	DefaultTenantID  string
	SearchHandler    *handlers.SearchHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	AccountHandler   *handlers.AccountHandler
	AssistantHandler *handlers.AssistantHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.TenantResolver(cfg.TenantValidator, cfg.DefaultTenantID))

		r.Route("/search", func(r chi.Router) {
			r.Get("/", cfg.SearchHandler.Search)
			r.Get("/trending", cfg.SearchHandler.Trending)
			r.Post("/click", cfg.SearchHandler.Click)
		})

		r.Get("/analytics/dashboard", cfg.AnalyticsHandler.Dashboard)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Patch("/{id}", cfg.AccountHandler.Update)
			r.Post("/{id}/logo", cfg.AccountHandler.LogoUpload)
			r.Get("/{id}/logo", cfg.AccountHandler.LogoDownload)
		})

		r.Route("/agents", func(r chi.Router) {
			r.Post("/chat", cfg.AssistantHandler.Chat)
			r.Post("/business/{tool}", cfg.AssistantHandler.Business)
			r.Post("/email/{type}", cfg.AssistantHandler.Email)
			r.Post("/social/{platform}", cfg.AssistantHandler.Social)
			r.Post("/brand/{type}", cfg.AssistantHandler.Brand)
			r.Post("/blog/post", cfg.AssistantHandler.BlogPost)
			r.Post("/blog/outline", cfg.AssistantHandler.BlogOutline)
		})
	})

	return r
}

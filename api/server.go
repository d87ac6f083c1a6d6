// ABOUTME: Huma API server configuration and setup for the catalog viewer
// ABOUTME: Wires CORS, request logging and rate limiting in front of the handlers

package api

import (
	"time"

	"channel-catalog/api/handlers"
	"channel-catalog/api/middleware"
	"channel-catalog/core/interfaces"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger     interfaces.Logger
	RateLimit  int           // requests per window
	RateWindow time.Duration // rate limit window
}

// Services are the collaborators the viewer routes serve
type Services struct {
	Files     handlers.ViewerFiles
	Snapshots interfaces.SnapshotStore
	Updates   handlers.UpdateService
}

// NewAPI creates a bare API instance without logging or rate limiting
func NewAPI() (huma.API, chi.Router) {
	return NewAPIWithMiddleware(APIConfig{})
}

// NewAPIWithMiddleware creates a new API with middleware configured
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// CORS first so preflight requests are never rate limited
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	config := huma.DefaultConfig("Channel Catalog API", "1.0.0")
	config.Info.Description = "View the published channel catalog and control update runs"

	api := humachi.New(router, config)
	return api, router
}

// Register adds every viewer and update route to api
func Register(api huma.API, services Services) {
	handlers.NewViewerHandler(services.Files, services.Snapshots).RegisterRoutes(api)
	if services.Updates != nil {
		handlers.NewUpdateHandler(services.Updates).RegisterRoutes(api)
	}
}

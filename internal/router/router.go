package router

import (
	"fmt"
	"net/http"

	"product-stream/internal/handler"
	"product-stream/internal/metrics"
	"product-stream/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// A nil metrics provider disables /metrics and request metrics; an empty
// apiKey disables authentication.
func New(
	productHandler *handler.ProductHandler,
	apiKey string,
	metricsProvider *metrics.Provider,
	logger zerolog.Logger,
) (http.Handler, error) {
	dispatcher, err := NewDispatcher(ProductRoutes(BasePaths...), map[Operation]http.Handler{
		OpListAll:      http.HandlerFunc(productHandler.GetAll),
		OpGetOne:       http.HandlerFunc(productHandler.GetByID),
		OpCreate:       http.HandlerFunc(productHandler.Create),
		OpUpdate:       http.HandlerFunc(productHandler.Update),
		OpDelete:       http.HandlerFunc(productHandler.Delete),
		OpDeleteAll:    http.HandlerFunc(productHandler.DeleteAll),
		OpStreamEvents: http.HandlerFunc(productHandler.Events),
	}, handler.NotFound(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build product routes: %w", err)
	}

	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if metricsProvider != nil {
		mux.Handle("GET /metrics", metricsProvider.Handler)
	}

	mux.Handle("/", dispatcher)

	// Apply middleware in order: Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth
	var h http.Handler = mux
	if apiKey != "" {
		h = middleware.APIKeyAuth(apiKey, logger)(h)
	}
	h = middleware.CORS(h)
	if metricsProvider != nil {
		h = middleware.Metrics(metricsProvider.Metrics)(h)
	}
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h, nil
}

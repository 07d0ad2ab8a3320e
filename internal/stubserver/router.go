package stubserver

import (
	"net/http"

	"github.com/RoyceAzure/lab/pos/internal/infra/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type RouterOptions struct {
	Logger *zerolog.Logger
	// Registry 不為 nil 時註冊 metrics 並提供 /metrics
	Registry  *prometheus.Registry
	PayRatePS int
}

func SetupRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(opts.Logger))
	if opts.Registry != nil {
		r.Use(MetricsMiddleware(metrics.NewRequestMetrics("stub", opts.Registry)))
		r.Method(http.MethodGet, "/metrics", metrics.Handler(opts.Registry))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Post("/products", h.SaveProduct)
		r.Get("/history", h.History)
		r.With(RateLimitMiddleware(opts.PayRatePS)).Post("/pay", h.Pay)
	})
	r.Get("/invoice/{id}", h.Invoice)
	return r
}

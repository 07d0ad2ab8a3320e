package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/infra/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type StatusRecoder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecoder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecoder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// LoggerMiddleware 記錄 request 並處理 recover
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recoder := &StatusRecoder{ResponseWriter: w}
			start := time.Now()

			defer func() {
				if err := recover(); err != nil {
					var errMsg string
					if e, ok := err.(error); ok {
						errMsg = e.Error()
					} else {
						errMsg = fmt.Sprintf("%v", err)
					}
					logger.Error().
						Str("request_id", middleware.GetReqID(r.Context())).
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Str("error", errMsg).
						Msg("request panic")

					recoder.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal Server Error",
					})
				}
			}()

			next.ServeHTTP(recoder, r)

			logger.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("idempotency_key", r.Header.Get("Idempotency-Key")).
				Int("status", recoder.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request completed")
		})
	}
}

// MetricsMiddleware 以 chi 的 route pattern 當作 handler label
func MetricsMiddleware(m *metrics.RequestMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recoder := &StatusRecoder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(recoder, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			m.Observe(r.Method+" "+route, fmt.Sprintf("%d", recoder.Status()), start)
		})
	}
}

// tokenBucket 固定容量, 依經過時間補充 token
type tokenBucket struct {
	mu       sync.Mutex
	capacity float64
	ratePS   float64
	tokens   float64
	last     time.Time
	now      func() time.Time
}

func newTokenBucket(capacity, ratePS int) *tokenBucket {
	return &tokenBucket{
		capacity: float64(capacity),
		ratePS:   float64(ratePS),
		tokens:   float64(capacity),
		last:     time.Now(),
		now:      time.Now,
	}
}

func (b *tokenBucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.tokens += now.Sub(b.last).Seconds() * b.ratePS
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RateLimitMiddleware ratePS <= 0 時不限流
func RateLimitMiddleware(ratePS int) func(http.Handler) http.Handler {
	if ratePS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	bucket := newTokenBucket(ratePS, ratePS)
	return rateLimit(bucket)
}

func rateLimit(bucket *tokenBucket) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !bucket.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]any{
					"success": false,
					"message": "Too Many Requests",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

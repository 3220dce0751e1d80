package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bloodbank/pkg/logger"
	"github.com/shashiranjanraj/bloodbank/pkg/reqid"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// accessKey holds the per-request accessLine. AuthMiddleware runs further
// down the chain, so it fills the user in through this pointer.
type accessKey struct{}

type accessLine struct {
	userID string
}

func noteUser(ctx context.Context, userID string) {
	if line, ok := ctx.Value(accessKey{}).(*accessLine); ok {
		line.userID = userID
	}
}

// Logger writes one access line per request: route pattern, status,
// duration and, when the caller authenticated, the user id. Downstream code
// gets a logger tagged with the request id through logger.WithCtx.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))

		line := &accessLine{}
		ctx := context.WithValue(r.Context(), accessKey{}, line)
		r = r.WithContext(logger.InjectLogger(ctx, reqLog))

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		attrs := []any{
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if line.userID != "" {
			attrs = append(attrs, "user_id", line.userID)
		}
		reqLog.Info("request", attrs...)
	})
}

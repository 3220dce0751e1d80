// Package kernel assembles the HTTP handler: global middleware, ops
// endpoints, domain event listeners and the API routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/app/routes"
	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/metrics"
	"github.com/shashiranjanraj/bloodbank/pkg/middleware"
	"github.com/shashiranjanraj/bloodbank/pkg/reqid"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
	"github.com/shashiranjanraj/bloodbank/pkg/router"
)

type HTTPKernel struct {
	router   *router.Router
	services *services.Services
}

// NewHTTPKernel builds the application over store. It registers the event
// listeners, so build one kernel per process.
func NewHTTPKernel(store *repositories.Store) *HTTPKernel {
	svc := services.New(store)
	r := router.New()

	// Outermost first: metrics sees total latency, the logger needs the
	// request id, and recovery sits inside the logger so a panic is still
	// logged as a 500 access line.
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", "ops.metrics", metrics.Handler())
	r.Get("/healthz", "ops.health", health(store))

	routes.RegisterAPI(r, svc)
	registerListeners(svc)

	return &HTTPKernel{router: r, services: svc}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Router() *router.Router { return k.router }

func (k *HTTPKernel) Services() *services.Services { return k.services }

func health(store *repositories.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}

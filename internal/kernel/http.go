// Package kernel builds the service's root http.Handler: the global
// middleware stack, operational endpoints and the application routes.
package kernel

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/telascatalogo/telas/pkg/metrics"
	"github.com/telascatalogo/telas/pkg/middleware"
	"github.com/telascatalogo/telas/pkg/reqid"
	"github.com/telascatalogo/telas/pkg/router"
)

// Options configure NewHTTPKernel.
type Options struct {
	// Routes registers the application endpoints.
	Routes func(r *router.Router) error
	// Probe backs /health. Nil means always healthy.
	Probe func(ctx context.Context) error
	// UploadsDir is served under /uploads/ when set.
	UploadsDir string
	// RequestsPerMinute caps each client IP. Zero disables the global limiter.
	RequestsPerMinute int
}

// HTTPKernel owns the router built by NewHTTPKernel.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel assembles the router.
func NewHTTPKernel(opts Options) (*HTTPKernel, error) {
	r := router.New()

	// Outermost first: metrics see total latency, recovery guards
	// everything below, the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if opts.RequestsPerMinute > 0 {
		r.Use(middleware.RateLimit(opts.RequestsPerMinute, time.Minute))
	}

	r.Get("/health", "health", healthHandler(opts.Probe))
	r.Get("/metrics", "metrics", metrics.Handler())
	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", "uploads", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	if opts.Routes != nil {
		if err := opts.Routes(r); err != nil {
			return nil, err
		}
	}
	return &HTTPKernel{router: r}, nil
}

// Handler returns the root handler.
func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists every mounted endpoint.
func (k *HTTPKernel) Routes() []router.Route { return k.router.Routes() }

func healthHandler(probe func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		db := "up"
		if probe != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := probe(ctx); err != nil {
				status, code, db = "degraded", http.StatusServiceUnavailable, "down"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status, "database": db}) //nolint:errcheck
	}
}

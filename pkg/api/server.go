package api

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"trailmap/pkg/config"
)

// shutdownGrace bounds how long in-flight requests may finish on shutdown.
const shutdownGrace = 10 * time.Second

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg config.ServerConfig, handlers *Handlers) *http.Server {
	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"POST /api/v1/route", handlers.HandleRoute},
		{"GET /api/v1/places/nearest", handlers.HandleNearest},
		{"GET /api/v1/areas/{id}/ancestors", handlers.HandleAncestors},
		{"GET /api/v1/health", handlers.HandleHealth},
		{"GET /api/v1/stats", handlers.HandleStats},
	}

	mws := middlewareStack(cfg)
	mux := http.NewServeMux()
	for _, r := range routes {
		mux.HandleFunc(r.pattern, chain(r.handler, mws...))
	}

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout.Duration(),
		WriteTimeout: cfg.WriteTimeout.Duration(),
	}
}

// ListenAndServe starts the server and blocks until it fails or a
// SIGTERM/SIGINT triggers a graceful shutdown.
func ListenAndServe(srv *http.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Printf("Shutdown requested, draining connections...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// middleware wraps a handler with one cross-cutting concern.
type middleware func(http.HandlerFunc) http.HandlerFunc

// chain applies mws so that the first one runs outermost.
func chain(h http.HandlerFunc, mws ...middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// middlewareStack builds the middleware shared by every route. The
// concurrency slots are shared too.
func middlewareStack(cfg config.ServerConfig) []middleware {
	sem := make(chan struct{}, max(cfg.MaxConcurrent, 1))
	return []middleware{
		logRequests,
		securityHeaders(cfg.CORSOrigin),
		limitConcurrency(sem),
		recoverPanics,
		requestTimeout(cfg.RequestTimeout.Duration()),
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	}
}

func securityHeaders(corsOrigin string) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Cache-Control", "no-store")
			if corsOrigin != "" {
				h.Set("Access-Control-Allow-Origin", corsOrigin)
			}
			next(w, r)
		}
	}
}

// limitConcurrency rejects requests with 503 while every slot in sem is taken.
func limitConcurrency(sem chan struct{}) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			default:
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusServiceUnavailable, "service_unavailable", "")
				return
			}
			next(w, r)
		}
	}
}

func recoverPanics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %v", rec)
				writeError(w, http.StatusInternalServerError, "internal_error", "")
			}
		}()
		next(w, r)
	}
}

// requestTimeout attaches a deadline to the request context. A zero timeout
// leaves the context alone.
func requestTimeout(d time.Duration) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if d <= 0 {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next(w, r.WithContext(ctx))
		}
	}
}

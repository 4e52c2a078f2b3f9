package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trailmap/pkg/config"
)

func serve(h http.HandlerFunc, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewServerUsesConfig(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.Addr = ":9999"
	cfg.ReadTimeout = config.Duration(3 * time.Second)
	cfg.WriteTimeout = config.Duration(4 * time.Second)

	srv := NewServer(cfg, NewHandlers(&mockStore{}))
	if srv.Addr != ":9999" || srv.ReadTimeout != 3*time.Second || srv.WriteTimeout != 4*time.Second {
		t.Errorf("server = addr %q, read %v, write %v", srv.Addr, srv.ReadTimeout, srv.WriteTimeout)
	}
}

func TestRequestTimeout(t *testing.T) {
	var remaining time.Duration
	var hasDeadline bool
	readDeadline := func(w http.ResponseWriter, r *http.Request) {
		var deadline time.Time
		deadline, hasDeadline = r.Context().Deadline()
		remaining = time.Until(deadline)
	}

	serve(chain(readDeadline, requestTimeout(2*time.Second)), "GET", "/")
	if !hasDeadline || remaining <= 0 || remaining > 2*time.Second {
		t.Errorf("deadline set = %v, remaining %v, want within 2s", hasDeadline, remaining)
	}

	serve(chain(readDeadline, requestTimeout(0)), "GET", "/")
	if hasDeadline {
		t.Error("zero timeout should not set a deadline")
	}
}

func TestLimitConcurrency(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	blocking := func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}
	h := chain(blocking, limitConcurrency(make(chan struct{}, 1)))

	done := make(chan int)
	go func() { done <- serve(h, "GET", "/").Code }()
	<-entered

	if w := serve(h, "GET", "/"); w.Code != http.StatusServiceUnavailable || w.Header().Get("Retry-After") != "1" {
		t.Errorf("second request = %d, want 503 with Retry-After", w.Code)
	}
	close(release)
	if code := <-done; code != http.StatusOK {
		t.Errorf("first request = %d, want 200", code)
	}
}

func TestRecoverPanics(t *testing.T) {
	h := chain(func(w http.ResponseWriter, r *http.Request) { panic("boom") }, recoverPanics)
	if w := serve(h, "GET", "/"); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestMiddlewareStack(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.CORSOrigin = "https://maps.example"

	var order []string
	mark := func(name string) middleware {
		return func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next(w, r)
			}
		}
	}
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }

	w := serve(chain(ok, append([]middleware{mark("outer"), mark("inner")}, middlewareStack(cfg)...)...), "GET", "/")
	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", w.Code)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("order = %v, want [outer inner]", order)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://maps.example" {
		t.Errorf("CORS origin = %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

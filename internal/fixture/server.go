// Package fixture serves workload files and canned failures over HTTP, for
// exercising remote content resolution without a real workload host.
package fixture

import (
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Port int
	// Dir is served under /workloads/. Empty disables it.
	Dir string
	// FlakyFailures is how many /flaky requests fail before it recovers.
	FlakyFailures int64
}

type server struct {
	cfg      ServerConfig
	logger   *zap.Logger
	flaky    atomic.Int64
	requests *prometheus.CounterVec
}

// NewHandler builds the fixture routes and a /metrics endpoint backed by reg.
func NewHandler(cfg ServerConfig, reg *prometheus.Registry, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &server{
		cfg:    cfg,
		logger: logger,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nbkit_fixture_requests_total",
				Help: "Requests served by the fixture server",
			},
			[]string{"route", "code"},
		),
	}
	reg.MustRegister(s.requests)

	mux := http.NewServeMux()

	if cfg.Dir != "" {
		files := http.StripPrefix("/workloads/", http.FileServer(http.Dir(cfg.Dir)))
		mux.Handle("GET /workloads/", s.track("workloads", files))
	}

	// Fixed status, e.g. /status/503
	mux.Handle("GET /status/{code}", s.track("status", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code, err := strconv.Atoi(r.PathValue("code"))
		if err != nil || code < 100 || code > 599 {
			http.Error(w, "bad status code", http.StatusBadRequest)
			return
		}
		w.WriteHeader(code)
		fmt.Fprintf(w, "%d %s", code, http.StatusText(code))
	})))

	// Fails FlakyFailures times, then succeeds
	mux.Handle("GET /flaky", s.track("flaky", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.flaky.Add(1) <= s.cfg.FlakyFailures {
			http.Error(w, "503 Service Unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("scenarios:\n  default: run driver=stdout cycles=TEMPLATE(cycles,10)\n"))
	})))

	// 1s-2s, useful for client timeouts
	mux.Handle("GET /slow", s.track("slow", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jitter := time.Duration(rand.Intn(1000)+1000) * time.Millisecond
		select {
		case <-time.After(jitter):
		case <-r.Context().Done():
			return
		}
		w.Write([]byte("Slow response"))
	})))

	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) track(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		s.logger.Debug("Served request",
			zap.String("request_id", id),
			zap.String("path", r.URL.Path),
			zap.Int("code", rec.code))
	})
}

// Start binds cfg.Port and serves in the background. Port 0 picks a free
// port; the bound address is in the returned server's Addr.
func Start(cfg ServerConfig, logger *zap.Logger) (*http.Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	l, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("fixture server: %w", err)
	}

	server := &http.Server{
		Addr:              l.Addr().String(),
		Handler:           NewHandler(cfg, prometheus.NewRegistry(), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.Serve(l); err != nil && err != http.ErrServerClosed {
			logger.Error("Fixture server failed", zap.Error(err))
		}
	}()

	return server, nil
}

package mockserver

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/logging"
	"github.com/getmockd/mockbox/pkg/spec"
)

// Server serves the mock routes described by a MockSpec.
type Server struct {
	spec       *spec.MockSpec
	port       int
	latencyMin time.Duration
	latencyMax time.Duration
	log        *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	mu         sync.Mutex
	httpServer *http.Server
	running    bool
}

// Config configures a Server.
type Config struct {
	Port       int
	LatencyMin time.Duration
	LatencyMax time.Duration
	Logger     *slog.Logger
}

// New creates a Server for the given MockSpec.
func New(ms *spec.MockSpec, cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = artifact.DefaultPort
	}
	if cfg.LatencyMin == 0 && cfg.LatencyMax == 0 {
		cfg.LatencyMin = artifact.DefaultLatencyMin
		cfg.LatencyMax = artifact.DefaultLatencyMax
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	return &Server{
		spec:       ms,
		port:       cfg.Port,
		latencyMin: cfg.LatencyMin,
		latencyMax: cfg.LatencyMax,
		log:        cfg.Logger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FromManifest creates a Server from a loaded artifact manifest and spec.
func FromManifest(m *artifact.Manifest, ms *spec.MockSpec, log *slog.Logger) *Server {
	min, max := m.LatencyWindow()
	return New(ms, Config{
		Port:       m.Port,
		LatencyMin: min,
		LatencyMax: max,
		Logger:     log,
	})
}

// Port returns the configured listen port.
func (s *Server) Port() int { return s.port }

// Start begins serving on the configured port. It does not block.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("mock server already running")
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.running = true

	go func() {
		s.log.Info("mock server listening", "port", s.port,
			"restMocks", len(s.spec.REST), "graphqlMocks", len(s.spec.GraphQL))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("mock server failed", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	return s.httpServer.Shutdown(ctx)
}

// sleepLatency blocks for a duration sampled uniformly from the window.
func (s *Server) sleepLatency() {
	window := s.latencyMax - s.latencyMin
	if window <= 0 {
		if s.latencyMin > 0 {
			time.Sleep(s.latencyMin)
		}
		return
	}

	s.rngMu.Lock()
	d := s.latencyMin + time.Duration(s.rng.Int63n(int64(window)+1))
	s.rngMu.Unlock()

	time.Sleep(d)
}

package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/boattime/portfolio/pkg/defaults"
	"github.com/boattime/portfolio/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status is the generation state reported by GET /status.
type Status struct {
	State       string    `json:"state"`
	Cycles      uint64    `json:"cycles"`
	MissedTicks uint64    `json:"missed_ticks"`
	LastError   string    `json:"last_error,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
}

// StatusFunc supplies the current Status for the /status endpoint.
type StatusFunc func() Status

// Options configures the operational listener.
type Options struct {
	// Address is the listen address, e.g. ":9090".
	Address string

	// Status, when set, enables the /status endpoint.
	Status StatusFunc

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the operational HTTP listener: probes, status, metrics.
type Server struct {
	opts       Options
	httpServer *http.Server

	mu    sync.RWMutex
	ready bool
}

// New creates the listener.
func New(opts Options) (*Server, error) {
	if opts.Address == "" {
		return nil, errors.New(errors.ErrCodeConfig, "server requires a listen address")
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaults.ServerReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaults.ServerWriteTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaults.ServerShutdownTimeout
	}

	s := &Server{opts: opts}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())
	if opts.Status != nil {
		mux.HandleFunc("/status", s.withMiddleware(s.handleStatus))
	}

	s.httpServer = &http.Server{
		Addr:         opts.Address,
		Handler:      mux,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s, nil
}

// SetReady marks the daemon as ready to generate.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return errors.Wrap(errors.ErrCodeInternal, "http listener failed", err)
	}
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	respondJSON(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		respondJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "not_ready",
			Timestamp: time.Now().UTC(),
			Reason:    "first generation cycle has not completed",
		})
		return
	}
	respondJSON(w, http.StatusOK, healthResponse{Status: "ready", Timestamp: time.Now().UTC()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	respondJSON(w, http.StatusOK, s.opts.Status())
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

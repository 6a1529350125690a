package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bisub/internal/config"
	"bisub/internal/fileutil"
	"bisub/internal/history"
	"bisub/internal/logging"
	"bisub/internal/translate"
	"bisub/internal/workflow"
)

// maxRequestBytes leaves room for JSON escaping of a maximum-size document.
const maxRequestBytes = 4 * fileutil.MaxInputBytes

// Server serves the HTTP API.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *history.Store

	batch    *translate.Batch
	batchErr error

	mu   sync.RWMutex
	live map[string]*workflow.Runner

	listener net.Listener
	server   *http.Server
}

// NewServer builds a server from cfg. store may be nil, in which case runs
// are visible only while active. A provider that cannot be built is not
// fatal: translate requests report the configuration error instead.
func NewServer(cfg *config.Config, store *history.Store, logger *slog.Logger) *Server {
	logger = logging.NewComponentLogger(logger, "api")
	batch, err := translate.NewBatchFromConfig(cfg, logger)
	if err != nil {
		logging.WarnWithContext(logger, "translation provider unavailable", "provider_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "set provider credentials in the config file or environment"),
			logging.String(logging.FieldImpact, "translate requests will fail until restarted with credentials"),
		)
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		batch:    batch,
		batchErr: err,
		live:     make(map[string]*workflow.Runner),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(requestContext)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(corsOptions(s.cfg.API.CORSOrigins)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.bearerAuth(s.cfg.API.Token))
			r.Use(maxBodySize(maxRequestBytes))

			r.Post("/detect", s.handleDetect)
			r.Post("/parse", s.handleParse)
			r.Post("/serialize", s.handleSerialize)
			r.Post("/translate", s.handleTranslate)

			r.Get("/runs", s.handleRuns)
			r.Get("/runs/{id}", s.handleRun)
		})
	})
	return r
}

// Start listens on api.bind and serves in the background until ctx ends or
// Stop is called.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.API.Bind)
	if bind == "" {
		return errors.New("api bind address not configured")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Translate requests hold the connection for the whole run.
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) register(id string, runner *workflow.Runner) {
	s.mu.Lock()
	s.live[id] = runner
	s.mu.Unlock()
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
}

func (s *Server) liveStatus(id string) (workflow.StatusSummary, bool) {
	s.mu.RLock()
	runner, ok := s.live[id]
	s.mu.RUnlock()
	if !ok {
		return workflow.StatusSummary{}, false
	}
	return runner.Status(), true
}

func (s *Server) liveStatuses() []workflow.StatusSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]workflow.StatusSummary, 0, len(s.live))
	for _, runner := range s.live {
		out = append(out, runner.Status())
	}
	return out
}

func (s *Server) recorder() workflow.Recorder {
	if s.store == nil {
		return nil
	}
	return s.store
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}

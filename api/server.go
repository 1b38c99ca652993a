// Package api - Thin HTTP layer over the configurator engine
// The API is ONLY responsible for: input decoding, session bookkeeping,
// engine calls and output serialization. It NEVER performs pricing logic.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"blind-configurator/adapters/cart"
	"blind-configurator/core/engine"
	"blind-configurator/core/store"
	"blind-configurator/internal/errors"
)

const meterName = "blind-configurator/api"

// Options are the server's collaborators. Nil fields use defaults.
type Options struct {
	Engine   *engine.Engine
	Sessions *store.Registry
	Cart     cart.Submitter
	Logger   *zap.Logger
	Version  string

	// RequestTimeout bounds each request; zero means 30s
	RequestTimeout time.Duration

	// MaxBodyBytes caps request bodies; zero means 1 MiB
	MaxBodyBytes int64

	// AllowedOrigins may call the API from a browser; "*" allows any
	AllowedOrigins []string
}

// Server is the API server
type Server struct {
	engine   *engine.Engine
	sessions *store.Registry
	cart     cart.Submitter
	logger   *zap.Logger
	version  string
	router   chi.Router
	started  time.Time
	maxBody  int64

	quotes      metric.Int64Counter
	submissions metric.Int64Counter
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	if opts.Engine == nil {
		opts.Engine = engine.New(engine.Deps{}, engine.Config{Version: opts.Version})
	}
	if opts.Sessions == nil {
		opts.Sessions = store.NewRegistry(store.RegistryOptions{Validator: opts.Engine.Validator()})
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Cart == nil {
		opts.Cart = cart.New(nil, opts.Logger.Named("cart"))
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	s := &Server{
		engine:   opts.Engine,
		sessions: opts.Sessions,
		cart:     opts.Cart,
		logger:   opts.Logger,
		version:  opts.Version,
		started:  time.Now().UTC(),
		maxBody:  opts.MaxBodyBytes,
	}
	s.registerMetrics()

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(cors(opts.AllowedOrigins))
	r.Use(chimw.RealIP)
	r.Use(tracing)
	r.Use(accessLog(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(opts.RequestTimeout))
	s.router = r
	s.registerRoutes()
	return s
}

func (s *Server) registerMetrics() {
	meter := otel.GetMeterProvider().Meter(meterName)

	quotes, err := meter.Int64Counter(
		"configurator.quotes",
		metric.WithDescription("Count of quotes computed"),
	)
	if err != nil {
		s.logger.Warn("api: unable to register quotes metric", zap.Error(err))
	}
	s.quotes = quotes

	submissions, err := meter.Int64Counter(
		"configurator.submissions",
		metric.WithDescription("Count of cart hand-offs by outcome"),
	)
	if err != nil {
		s.logger.Warn("api: unable to register submissions metric", zap.Error(err))
	}
	s.submissions = submissions
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	r := s.router

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/pricing/table", s.handlePricingTable)
		r.Post("/normalize", s.handleNormalize)
		r.Post("/quote", s.handleQuote)
		r.Post("/steps", s.handleSteps)
		r.Post("/steps/{step}/validate", s.handleValidateStep)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Patch("/", s.handlePatchSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/next", s.handleNext)
				r.Post("/previous", s.handlePrevious)
				r.Post("/smart-hubs/increment", s.handleIncrementHubs)
				r.Post("/smart-hubs/decrement", s.handleDecrementHubs)
				r.Post("/submit", s.handleSubmit)
			})
		})
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":   "healthy",
		"version":  s.version,
		"sessions": s.sessions.Len(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "blind-configurator",
		"api_version": "v1",
		"started_at":  s.started.Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.TypeInput, "request body too large", err).WithContext("limit", tooLarge.Limit)
		}
		return errors.Wrap(errors.TypeInput, "invalid JSON body", err).WithContext("malformed", true)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("api: encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}

// writeErr maps typed errors onto the error envelope
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code, status := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	s.writeError(w, code, err.Error(), status)
}

func classify(err error) (string, int) {
	e, ok := errors.As(err)
	if !ok {
		return "INTERNAL_ERROR", http.StatusInternalServerError
	}
	switch e.Type {
	case errors.TypeInput:
		if _, malformed := e.Context["malformed"]; malformed {
			return "INVALID_JSON", http.StatusBadRequest
		}
		if _, limited := e.Context["limit"]; limited {
			return "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge
		}
		return "VALIDATION_ERROR", http.StatusUnprocessableEntity
	case errors.TypeNotFound:
		return "NOT_FOUND", http.StatusNotFound
	case errors.TypeConflict:
		return "CONFLICT", http.StatusConflict
	case errors.TypeNetwork:
		return "UPSTREAM_ERROR", http.StatusBadGateway
	default:
		return "INTERNAL_ERROR", http.StatusInternalServerError
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer wraps the router in an http.Server with production timeouts
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Sweep drops idle sessions until ctx is done
func (s *Server) Sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Info("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

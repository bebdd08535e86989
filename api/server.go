// Package api - HTTP layer for the price calculator
// The API is ONLY responsible for: input binding, calling the calculator, output serialization.
// The API NEVER performs price logic.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"dira-price/core/output"
	"dira-price/core/pricing"
	"dira-price/internal/config"
	"dira-price/internal/errors"
	"dira-price/internal/version"
)

// Server is the web dashboard and JSON API
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	router  chi.Router
	style   output.Style
	version string
}

// NewServer creates a server with every route registered
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		router:  chi.NewRouter(),
		style:   output.Style{Currency: cfg.Output.CurrencySymbol},
		version: version.Version,
	}
	if s.style.Currency == "" {
		s.style = output.DefaultStyle()
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers middleware and routes
func (s *Server) registerRoutes() {
	r := s.router
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if timeout := s.cfg.Server.RequestTimeout(); timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	// Dashboard and exports
	r.Get("/", s.handleDashboard)
	r.Get("/export.csv", s.handleExport(output.FormatCSV))
	r.Get("/export.xlsx", s.handleExport(output.FormatXLSX))

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Get("/calculate", s.handleCalculateQuery)
	})

	// Supporting endpoints
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("version", s.version))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return errors.Internal("server failed", err).WithContext("addr", srv.Addr)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
	defer cancel()

	s.logger.Info("shutting down", zap.Duration("timeout", s.cfg.Server.ShutdownTimeout()))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Internal("graceful shutdown failed", err)
	}
	return nil
}

// calculate runs the calculator and logs unexpected failures
func (s *Server) calculate(ctx context.Context, in pricing.Input) (*pricing.Result, error) {
	res, err := pricing.Calculate(in)
	if err != nil {
		if !errors.IsType(err, errors.TypeInput) {
			s.logger.Error("calculation failed", zap.Error(err), zap.String("request_id", RequestIDFrom(ctx)))
		}
		return nil, err
	}
	return res, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps domain errors to HTTP status codes.
// Unexpected failures get a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := string(errors.TypeInternal)
	message := "internal error"

	if e, ok := errors.As(err); ok {
		code = string(e.Type)
		switch e.Type {
		case errors.TypeInput, errors.TypeParsing:
			status = http.StatusBadRequest
			message = e.Message
		case errors.TypeComputation:
			message = "error during calculation"
		}
	}

	s.writeJSON(w, ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	}}, status)
}

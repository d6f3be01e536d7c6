// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/luckyturtle/nftape.me/internal/analysis"
	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/logging"
	"github.com/luckyturtle/nftape.me/internal/observability"
)

// Analyzer runs one address analysis.
type Analyzer interface {
	AnalyzeWithMethod(ctx context.Context, address string, method domain.PriceMethod) (*analysis.Report, error)
	Method() domain.PriceMethod
}

// Options for creating Server.
type Options struct {
	Addr     string
	Analyzer Analyzer
	Logger   logrus.FieldLogger

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	analyzer   Analyzer
	log        logrus.FieldLogger
}

// NewServer creates a new API server instance.
func NewServer(opts Options) *Server {
	readTimeout := opts.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 15 * time.Second
	}
	// A full history walk can take minutes.
	writeTimeout := opts.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Minute
	}

	s := &Server{
		router:   mux.NewRouter(),
		analyzer: opts.Analyzer,
		log:      logging.OrDiscard(opts.Logger),
	}

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", observability.Handler()).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/addresses/{address}/analysis", s.handleAnalysis).Methods(http.MethodGet)
	v1.HandleFunc("/addresses/{address}/analysis.md", s.handleAnalysisMarkdown).Methods(http.MethodGet)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pable/go-statcast-diagnosis/internal/analysis"
	"github.com/pable/go-statcast-diagnosis/internal/config"
	"github.com/pable/go-statcast-diagnosis/internal/metrics"
	"github.com/pable/go-statcast-diagnosis/internal/model"
)

const shutdownTimeout = 10 * time.Second

// Analyzer is the subset of analysis.Service the API calls.
type Analyzer interface {
	Diagnose(ctx context.Context, req analysis.DiagnosisRequest) (*analysis.Diagnosis, error)
	Narrate(ctx context.Context, res model.DiagnosisResult, w io.Writer) (string, error)
	Recap(ctx context.Context, req analysis.RecapRequest) (*analysis.Recap, error)
	Strategy(ctx context.Context, req analysis.StrategyRequest) (*analysis.Strategy, error)
	SaveDiagnosis(d *analysis.Diagnosis) error
	Ping() error
}

// Server is the HTTP API.
type Server struct {
	cfg     *config.Config
	svc     Analyzer
	metrics *metrics.Manager
	log     *zap.Logger
	router  *gin.Engine
}

// New builds the router. m may be nil, in which case /metrics is not served.
func New(cfg *config.Config, svc Analyzer, m *metrics.Manager, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, svc: svc, metrics: m, log: log}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/healthz", s.health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/teams", s.teams)
	api.GET("/seasons", s.seasons)
	api.POST("/diagnosis", s.diagnosis)
	api.POST("/diagnosis/narrative", s.diagnosisNarrative)
	api.POST("/games/recap", s.recap)
	api.POST("/games/strategy", s.strategy)
	return r
}

// observe logs each request and records it on the metrics manager.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		s.metrics.HTTPRequest(c.Request.Method, route, status, elapsed)
		s.log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

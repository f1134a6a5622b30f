package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/evalboard/evalboard/internal/comparison"
	"github.com/evalboard/evalboard/internal/ports"
	"github.com/evalboard/evalboard/internal/shared/middleware"
)

//go:embed static/*
var staticFiles embed.FS

// Config carries the tunables of the comparison view.
type Config struct {
	Port              int
	PageSize          int
	ScrollThresholdPx int
	FilterDebounce    time.Duration
	TraceBaseURL      string
}

type Server struct {
	router *http.ServeMux
	logger *zap.Logger

	port         int
	pageSize     int
	thresholdPx  int
	debounce     time.Duration
	traceBaseURL string

	datasetRepo     ports.DatasetRepository
	experimentRepo  ports.ExperimentRepository
	queryClient     comparison.QueryClient
	filterValidator comparison.FilterValidator
	metrics         ports.MetricsExporter

	views *viewRegistry
}

func NewServer(
	cfg Config,
	logger *zap.Logger,
	datasets ports.DatasetRepository,
	experiments ports.ExperimentRepository,
	queryClient comparison.QueryClient,
	filterValidator comparison.FilterValidator,
	metrics ports.MetricsExporter,
) *Server {
	s := &Server{
		router:          http.NewServeMux(),
		logger:          logger,
		port:            cfg.Port,
		pageSize:        cfg.PageSize,
		thresholdPx:     cfg.ScrollThresholdPx,
		debounce:        cfg.FilterDebounce,
		traceBaseURL:    cfg.TraceBaseURL,
		datasetRepo:     datasets,
		experimentRepo:  experiments,
		queryClient:     queryClient,
		filterValidator: filterValidator,
		metrics:         metrics,
		views:           newViewRegistry(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	s.router.HandleFunc("GET /", s.handleDatasets)
	s.router.HandleFunc("GET /datasets/{id}/compare", s.handleCompare)

	// View endpoints (for HTMX)
	s.router.HandleFunc("GET /api/views/{view}/rows", s.handleViewRows)
	s.router.HandleFunc("GET /api/views/{view}/table", s.handleViewTable)
	s.router.HandleFunc("POST /api/views/{view}/filter", s.handleViewFilter)
	s.router.HandleFunc("GET /api/views/{view}/examples/{index}", s.handleViewExample)
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return middleware.HTMX(s.router)
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", zap.Int("port", s.port))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

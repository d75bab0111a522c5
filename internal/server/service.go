// Package server provides the local HTTP front end over the report pipeline.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/pipeline"
)

// Reporter produces the report for a filter. *pipeline.Loader implements it.
type Reporter interface {
	Report(ctx context.Context, f model.Filter) (*model.Report, *model.Table, *pipeline.LoadResult, error)
}

// Config controls the server runtime behavior.
type Config struct {
	Addr            string
	Defaults        model.Filter // used for query parameters that are absent
	HistorySize     int
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// HistoryEntry records one generated report, served at /api/v1/history.
type HistoryEntry struct {
	ID        string       `json:"report_id"`
	At        time.Time    `json:"at"`
	Filter    model.Filter `json:"filter"`
	Source    string       `json:"source"`
	Fetched   int          `json:"fetched"`
	Records   int          `json:"records"`
	FetchedAt time.Time    `json:"fetched_at,omitzero"`
}

// Service serves reports over HTTP.
type Service struct {
	cfg      Config
	reporter Reporter
	log      *zap.Logger
	metrics  *metrics

	mu        sync.RWMutex
	startedAt time.Time
	history   []HistoryEntry
}

// New returns a new server with the provided config.
func New(cfg Config, reporter Reporter, log *zap.Logger) *Service {
	if cfg.HistorySize < 1 {
		cfg.HistorySize = 100
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8321"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		reporter:  reporter,
		log:       log.Named("server"),
		metrics:   newMetrics(),
		startedAt: time.Now(),
	}
}

// Handler returns the HTTP routes.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.metrics.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handlePage)
	r.Handle("/metrics", s.metrics.handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Get("/report", s.handleReport)
		r.Get("/records", s.handleRecords)
		r.Get("/history", s.handleHistory)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)
		r.Get("/export.pdf", s.handleExportPDF)
	})
	return r
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", zap.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
}

// report runs the pipeline for f, records the outcome and stamps the report
// with a fresh id.
func (s *Service) report(ctx context.Context, f model.Filter) (*model.Report, *model.Table, error) {
	report, table, res, err := s.reporter.Report(ctx, f)
	source := ""
	if res != nil {
		source = res.Source
	}
	if err != nil {
		s.metrics.observeReport(source, err)
		return nil, nil, err
	}

	report.ID = uuid.NewString()
	s.metrics.observeReport(source, nil)
	s.metrics.records.Observe(float64(report.Records))
	s.addHistory(HistoryEntry{
		ID:        report.ID,
		At:        time.Now(),
		Filter:    f,
		Source:    source,
		Fetched:   report.Fetched,
		Records:   report.Records,
		FetchedAt: report.FetchedAt,
	})
	return report, table, nil
}

func (s *Service) addHistory(e HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, e)
	if len(s.history) > s.cfg.HistorySize {
		s.history = s.history[len(s.history)-s.cfg.HistorySize:]
	}
}

func (s *Service) recentHistory() []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

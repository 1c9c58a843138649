// Package web exposes the JSON HTTP surface: import uploads, import history,
// production and performance management, and production summaries.
package web

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stagedesk/boxoffice/internal/config"
	"github.com/stagedesk/boxoffice/internal/importer"
	"github.com/stagedesk/boxoffice/internal/model"
)

// ImportService runs the CSV import pipeline.
type ImportService interface {
	Run(ctx context.Context, r io.Reader, req importer.Request) (*importer.Outcome, error)
}

// Repository is the persistence surface the handlers need.
type Repository interface {
	CreateProduction(ctx context.Context, p *model.Production) error
	ProductionByID(ctx context.Context, id int64) (*model.Production, error)
	ListProductions(ctx context.Context, theaterID int64) ([]model.Production, error)
	CreatePerformance(ctx context.Context, p *model.Performance) error
	PerformanceByID(ctx context.Context, id int64) (*model.Performance, error)
	ListPerformances(ctx context.Context, productionID int64) ([]model.Performance, error)
	CreateFeedback(ctx context.Context, f *model.FeedbackEntry) error
	ProductionSummary(ctx context.Context, productionID int64) (*model.ProductionSummary, error)
	ListImportRecords(ctx context.Context, theaterID int64, limit int) ([]model.ImportRecord, error)
}

// Server wires the HTTP routes to the domain services.
type Server struct {
	theater  *model.Theater
	repo     Repository
	importer ImportService
	limiter  *ImportLimiter
	cfg      *config.Config
}

// NewServer builds the HTTP server for one theater deployment.
func NewServer(theater *model.Theater, repo Repository, imp ImportService, cfg *config.Config) *http.Server {
	s := &Server{
		theater:  theater,
		repo:     repo,
		importer: imp,
		limiter:  NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWait),
		cfg:      cfg,
	}

	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)

		r.Route("/productions", func(r chi.Router) {
			r.Post("/", s.handleCreateProduction)
			r.Get("/", s.handleListProductions)

			r.Route("/{productionID}", func(r chi.Router) {
				r.Get("/summary", s.handleProductionSummary)
				r.Post("/imports", s.handleImport)
				r.Post("/performances", s.handleCreatePerformance)
				r.Get("/performances", s.handleListPerformances)
			})
		})

		r.Post("/performances/{performanceID}/feedback", s.handleSubmitFeedback)
		r.Get("/imports", s.handleListImports)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// actingUser names the operator for audit purposes. Authentication is
// handled upstream of this service.
func actingUser(r *http.Request) string {
	return r.Header.Get("X-Acting-User")
}

// importContext bounds one import invocation.
func (s *Server) importContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := s.cfg.Upload.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return context.WithTimeout(r.Context(), timeout)
}

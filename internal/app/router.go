package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lembarbuku/lembarbuku/internal/ledger"
	"github.com/lembarbuku/lembarbuku/jobs"
	"github.com/lembarbuku/lembarbuku/internal/observability"
	"github.com/lembarbuku/lembarbuku/internal/reports"
	"github.com/lembarbuku/lembarbuku/internal/statements"
)

// RouterParams carries handler dependencies into NewRouter.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Metrics            *observability.Metrics
	TransactionHandler *ledger.Handler
	ReportHandler      *reports.Handler
	StatementHandler   *statements.Handler
	JobHandler         *jobs.Handler
}

// NewRouter wires the middleware stack and mounts every module route.
func NewRouter(p RouterParams) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: p.Logger, Config: p.Config, Metrics: p.Metrics}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())
	}

	if p.TransactionHandler != nil {
		r.Route("/transactions", p.TransactionHandler.MountRoutes)
	}
	if p.ReportHandler != nil {
		r.Route("/reports", p.ReportHandler.MountRoutes)
	}
	if p.StatementHandler != nil {
		r.Route("/statements", p.StatementHandler.MountRoutes)
	}
	if p.JobHandler != nil {
		r.Route("/jobs", p.JobHandler.MountRoutes)
	}

	return r
}

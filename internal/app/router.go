package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hesab/hesab/internal/budget"
	calendarhttp "github.com/hesab/hesab/internal/calendar/http"
	"github.com/hesab/hesab/internal/categories"
	"github.com/hesab/hesab/internal/notifications"
	"github.com/hesab/hesab/internal/observability"
	"github.com/hesab/hesab/internal/settings"
	"github.com/hesab/hesab/internal/transactions"
	"github.com/hesab/hesab/jobs"
)

// RouterParams groups dependencies for building the HTTP router. Nil
// handlers are not mounted.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	SettingsHandler      *settings.Handler
	CategoriesHandler    *categories.Handler
	TransactionsHandler  *transactions.Handler
	BudgetHandler        *budget.Handler
	NotificationsHandler *notifications.Handler
	CalendarHandler      *calendarhttp.Handler
	JobHandler           *jobs.Handler
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.SettingsHandler != nil {
		r.Route("/settings", params.SettingsHandler.MountRoutes)
	}
	if params.CategoriesHandler != nil {
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
	}
	if params.TransactionsHandler != nil {
		r.Route("/transactions", params.TransactionsHandler.MountRoutes)
	}
	if params.BudgetHandler != nil {
		r.Route("/budgets", params.BudgetHandler.MountRoutes)
	}
	if params.NotificationsHandler != nil {
		r.Route("/notifications", params.NotificationsHandler.MountRoutes)
	}
	if params.CalendarHandler != nil {
		r.Route("/calendar", params.CalendarHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

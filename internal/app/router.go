package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/margem-app/margem/internal/expenses"
	"github.com/margem-app/margem/internal/ingredients"
	"github.com/margem-app/margem/internal/observability"
	"github.com/margem-app/margem/internal/pricing"
	"github.com/margem-app/margem/internal/products"
	"github.com/margem-app/margem/internal/taxes"
	"github.com/margem-app/margem/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	IngredientHandler *ingredients.Handler
	TaxHandler        *taxes.Handler
	ExpenseHandler    *expenses.Handler
	ProductHandler    *products.Handler
	PricingHandler    *pricing.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Margem defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.IngredientHandler != nil {
		params.IngredientHandler.MountRoutes(r)
	}
	if params.TaxHandler != nil {
		params.TaxHandler.MountRoutes(r)
	}
	if params.ExpenseHandler != nil {
		params.ExpenseHandler.MountRoutes(r)
	}
	if params.ProductHandler != nil {
		params.ProductHandler.MountRoutes(r)
	}
	if params.PricingHandler != nil {
		params.PricingHandler.MountRoutes(r)
	}
	if params.JobHandler != nil {
		params.JobHandler.MountRoutes(r)
	}

	return r
}

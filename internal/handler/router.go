package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/infra/observability"
	"github.com/boddenberg/retail-insights/internal/insights"
	"github.com/boddenberg/retail-insights/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Options carries the HTTP-facing settings of the router.
type Options struct {
	CORSOrigins []string
	// Used when the matching query parameter is absent. Zero is a valid
	// threshold and is passed through as is.
	AnomalyZThreshold float64
	TrendThreshold    float64
}

// DefaultOptions returns Options with the engine's default thresholds.
func DefaultOptions() Options {
	return Options{
		AnomalyZThreshold: insights.DefaultZThreshold,
		TrendThreshold:    insights.DefaultTrendThreshold,
	}
}

// NewRouter creates the HTTP router with all routes and middleware.
// A nil svc serves only the operational endpoints.
func NewRouter(svc *service.InsightsService, opts Options, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	if svc == nil {
		return r
	}

	r.Route("/api", func(r chi.Router) {
		// Customers
		r.Get("/customers", listCustomersHandler(svc, logger))
		r.Get("/customers/{customerId}", customerProfileHandler(svc, logger))

		// Products
		r.Get("/products", listProductsHandler(svc, logger))
		r.Get("/products/{productId}", productProfileHandler(svc, logger))
		r.Get("/products/{productId}/suppliers", productSuppliersHandler(svc, logger))

		// Dashboard
		r.Get("/overview", overviewHandler(svc, logger))

		// Insights
		r.Get("/insights/anomalies", anomaliesHandler(svc, opts.AnomalyZThreshold, logger))
		r.Get("/insights/trends", trendsHandler(svc, opts.TrendThreshold, logger))
		r.Get("/insights/ltv-threshold", ltvThresholdHandler(svc, logger))

		r.Get("/metrics/engine", engineMetricsHandler(svc))
	})

	return r
}

// ============================================================
// Probes
// ============================================================

func healthzHandler(svc *service.InsightsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC().Format(time.RFC3339)
		services := []domain.ServiceHealth{
			{Name: "insights-api", Status: "healthy", LastChecked: now},
		}

		overall, code := "healthy", http.StatusOK
		if svc != nil {
			start := time.Now()
			err := svc.Ping(r.Context())
			status := "healthy"
			if err != nil {
				logger.Warn("store health check failed", zap.Error(err))
				status = "unhealthy"
				overall, code = "unhealthy", http.StatusServiceUnavailable
			}
			services = append(services, domain.ServiceHealth{
				Name:        "store",
				Status:      status,
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: now,
			})
		}

		writeJSON(w, code, domain.HealthStatus{Status: overall, Services: services})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

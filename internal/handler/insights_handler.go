package handler

import (
	"net/http"

	"github.com/boddenberg/retail-insights/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func overviewHandler(svc *service.InsightsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/overview")
		defer span.End()

		overview, err := svc.GetOverview(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}

func anomaliesHandler(svc *service.InsightsService, defaultZ float64, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/insights/anomalies")
		defer span.End()

		z, err := floatQuery(r, "z_threshold", defaultZ)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Float64("z_threshold", z))

		anomalies, err := svc.GetAnomalousCustomers(ctx, z)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, anomalies)
	}
}

func trendsHandler(svc *service.InsightsService, defaultThreshold float64, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/insights/trends")
		defer span.End()

		threshold, err := floatQuery(r, "threshold", defaultThreshold)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		trends, err := svc.GetTrendingProducts(ctx, threshold)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, trends)
	}
}

func ltvThresholdHandler(svc *service.InsightsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/insights/ltv-threshold")
		defer span.End()

		threshold, err := svc.GetLTVThreshold(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, threshold)
	}
}

func engineMetricsHandler(svc *service.InsightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.GetEngineMetrics())
	}
}

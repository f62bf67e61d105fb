package handler

import (
	"net/http"

	"github.com/boddenberg/retail-insights/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func listCustomersHandler(svc *service.InsightsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/customers")
		defer span.End()

		search := r.URL.Query().Get("search")
		span.SetAttributes(attribute.String("search", search))

		customers, err := svc.ListCustomers(ctx, search)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, customers)
	}
}

func customerProfileHandler(svc *service.InsightsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/customers/{customerId}")
		defer span.End()

		id, err := pathID(r, "customerId", "customer")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int64("customer.id", id))

		profile, err := svc.GetCustomerProfile(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

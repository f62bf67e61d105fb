package handler

import (
	"net/http"

	"github.com/boddenberg/retail-insights/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func listProductsHandler(svc *service.InsightsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/products")
		defer span.End()

		products, err := svc.ListProducts(ctx, r.URL.Query().Get("search"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func productProfileHandler(svc *service.InsightsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/products/{productId}")
		defer span.End()

		id, err := pathID(r, "productId", "product")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int64("product.id", id))

		profile, err := svc.GetProductProfile(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func productSuppliersHandler(svc *service.InsightsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/products/{productId}/suppliers")
		defer span.End()

		id, err := pathID(r, "productId", "product")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		suppliers, err := svc.ListProductSuppliers(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, suppliers)
	}
}

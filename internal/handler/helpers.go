package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/boddenberg/retail-insights/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// pathID reads an integer route parameter. A value that is not an integer
// cannot name an existing row, so it is reported as not found.
func pathID(r *http.Request, param, resource string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ErrNotFound{Resource: resource, ID: raw}
	}
	return id, nil
}

// floatQuery reads an optional float query parameter, falling back to def
// when absent.
func floatQuery(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &domain.ErrValidation{Field: name, Message: "must be a number"}
	}
	return v, nil
}

// statusClientClosedRequest is the non-standard status logged when the
// client went away before the response was written.
const statusClientClosedRequest = 499

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var circuitOpen *domain.ErrCircuitOpen
	var unavailable *domain.ErrStoreUnavailable

	switch {
	case errors.Is(err, context.Canceled):
		logger.Debug("request cancelled by client", zap.String("error", err.Error()))
		writeError(w, statusClientClosedRequest, "request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request deadline exceeded", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &unavailable):
		logger.Error("store unavailable", zap.String("op", unavailable.Op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Package v1handler implements the version 1 HTTP handlers of the identity
// service. Errors crossing the HTTP boundary are mapped to status codes by
// kind: validation and duplicate-identity failures surface their specific
// message, everything else surfaces a generic body with full detail logged
// server-side only.
package v1handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"identity/internal/identity"
	"identity/pkg/logger"
	"identity/pkg/metrics"
	"identity/pkg/serrors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

type Deps struct {
	Identity identity.Identity
}

type Handler struct {
	deps Deps

	registrations   metric.Int64Counter
	requestDuration metric.Float64Histogram
}

func New(deps Deps, mp metric.MeterProvider) (*Handler, error) {
	meter := mp.Meter("identity/api")
	registrations, err := meter.Int64Counter("user_registrations_total",
		metric.WithDescription("Number of successful user registrations"))
	if err != nil {
		return nil, fmt.Errorf("could not create registrations counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("Duration of v1 API requests"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create request duration histogram: %w", err)
	}

	return &Handler{
		deps:            deps,
		registrations:   registrations,
		requestDuration: requestDuration,
	}, nil
}

// Register attaches the v1 routes to the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/users", h.instrument("createUser", h.CreateUser))
	mux.HandleFunc("GET /v1/users/{id}", h.instrument("getUser", h.GetUser))
	mux.HandleFunc("POST /v1/sessions", h.instrument("createSession", h.CreateSession))
}

func (h *Handler) instrument(operation string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		h.requestDuration.Record(r.Context(), time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("operation", operation)))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error(ctx, "could not encode response", zap.Error(err))
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var serr *serrors.Error
	message := "internal error"
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, serrors.ErrValidation):
		status = http.StatusBadRequest
		if errors.As(err, &serr) {
			message = serr.Message()
		}
	case errors.Is(err, serrors.ErrDuplicateIdentity):
		status = http.StatusConflict
		if errors.As(err, &serr) {
			message = serr.Message()
		}
	case errors.Is(err, serrors.ErrConcurrencyConflict):
		status = http.StatusConflict
		message = "registration conflicted, please retry"
	case errors.Is(err, serrors.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "invalid credentials"
	case errors.Is(err, serrors.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	}

	// full detail stays server-side
	logger.Error(ctx, "request failed", zap.Int("status", status), zap.Error(err))

	writeJSON(ctx, w, status, errorResponse{Error: message})
}

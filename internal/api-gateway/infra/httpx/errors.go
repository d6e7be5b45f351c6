package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/requestctx"
)

// Error is the JSON error envelope returned by the API.
type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]any
}

func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{
		Code:    sanitize(code, 80),
		Message: sanitize(message, 512),
		Status:  status,
	}
}

// WithDetails attaches extra top-level members to the envelope.
func (e Error) WithDetails(details map[string]any) Error {
	if len(details) == 0 {
		return e
	}
	cp := make(map[string]any, len(details))
	for k, v := range details {
		cp[k] = v
	}
	e.Details = cp
	return e
}

// WriteError writes the envelope, stamping the request and trace ids.
func WriteError(ctx context.Context, w http.ResponseWriter, err Error) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	payload := map[string]any{
		"error":   err.Code,
		"message": err.Message,
		"status":  status,
	}
	if id := sanitize(middleware.GetReqID(ctx), 80); id != "" {
		payload["request_id"] = id
	}
	if id := requestctx.TraceID(ctx); id != "" {
		payload["trace_id"] = id
	}
	for k, v := range err.Details {
		payload[k] = v
	}

	writeJSON(w, status, payload)
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(ctx, w, NewError("validation_failed", ve.Error(), http.StatusBadRequest).
			WithDetails(map[string]any{"fields": ve.Fields}))
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(ctx, w, NewError("order_not_found", "order not found", http.StatusNotFound))
	case errors.Is(err, domain.ErrCustomerNotFound):
		WriteError(ctx, w, NewError("customer_not_found", "customer not found", http.StatusNotFound))
	case errors.Is(err, domain.ErrBrandNotFound):
		WriteError(ctx, w, NewError("brand_not_found", "brand not found", http.StatusNotFound))
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)
		WriteError(ctx, w, NewError("internal_error", "internal server error", http.StatusInternalServerError))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sanitize(value string, limit int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}

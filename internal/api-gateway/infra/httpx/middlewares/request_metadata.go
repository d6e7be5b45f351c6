package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Basilalghandour/Bot-Project/internal/pkg/requestctx"
)

// AttachRequestMetadata copies chi's request id onto the request context,
// the response headers and the active span. It must run after
// middleware.RequestID.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID == "" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set(requestctx.HeaderXRequestID, requestID)
		trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("request.id", requestID))

		ctx := requestctx.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

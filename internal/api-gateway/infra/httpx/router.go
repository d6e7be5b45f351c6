package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Basilalghandour/Bot-Project/internal/api-gateway/infra/httpx/middlewares"
)

// NewRouter mounts the API routes. serviceName names the server spans.
func NewRouter(handler *Handler, serviceName string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Healthz)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", handler.CreateOrder)
		r.Get("/", handler.ListOrders)
		r.Get("/{id}", handler.GetOrderByID)
		r.Get("/{id}/events", handler.ListOrderEvents)
	})

	r.Route("/brands", func(r chi.Router) {
		r.Post("/", handler.CreateBrand)
		r.Get("/", handler.ListBrands)
		r.Get("/{brandID}", handler.GetBrand)
		r.Post("/{brandID}/orders", handler.CreateBrandOrder)
		r.Get("/{brandID}/orders", handler.ListBrandOrders)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", handler.ListCustomers)
		r.Get("/{customerID}", handler.GetCustomer)
		r.Get("/{customerID}/orders", handler.ListCustomerOrders)
	})

	r.Get("/webhooks/whatsapp", handler.VerifyWebhook)
	r.Post("/webhooks/whatsapp", handler.ReceiveWebhook)

	return otelhttp.NewHandler(r, serviceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Basilalghandour/Bot-Project/internal/api-gateway/core/ports"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/adapters/payload"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/app"
)

const (
	HeaderShopifyShopDomain = "X-Shopify-Shop-Domain"
	HeaderWCWebhookSource   = "X-WC-Webhook-Source"

	defaultMaxBodyBytes = 1 << 20
)

// WebhookConfig holds the messaging provider's webhook secrets.
type WebhookConfig struct {
	// VerifyToken answers the subscription handshake.
	VerifyToken string
	// AppSecret enables X-Hub-Signature-256 verification when set.
	AppSecret string
}

// Handler serves the order, brand, customer and webhook endpoints.
type Handler struct {
	orders    ports.OrderService
	brands    ports.BrandService
	customers ports.CustomerService
	callbacks ports.CallbackService
	webhook   WebhookConfig
	health    ports.HealthChecker
	maxBody   int64
}

// NewHandler wires the handler. health may be nil.
func NewHandler(
	orders ports.OrderService,
	brands ports.BrandService,
	customers ports.CustomerService,
	callbacks ports.CallbackService,
	webhook WebhookConfig,
	health ports.HealthChecker,
	maxBody int64,
) *Handler {
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Handler{
		orders:    orders,
		brands:    brands,
		customers: customers,
		callbacks: callbacks,
		webhook:   webhook,
		health:    health,
		maxBody:   maxBody,
	}
}

// CreateOrder ingests a store notification whose brand is resolved from its
// domain hints.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, "")
}

// CreateBrandOrder ingests a store notification for the brand in the path.
func (h *Handler) CreateBrandOrder(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, chi.URLParam(r, "brandID"))
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request, brandID string) {
	ctx := r.Context()

	v, err := payload.Decode(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(ctx, w, NewError("payload_too_large", "request body too large", http.StatusRequestEntityTooLarge))
			return
		}
		WriteError(ctx, w, NewError("invalid_json", err.Error(), http.StatusBadRequest))
		return
	}

	res, err := h.orders.Ingest(ctx, app.IngestRequest{
		Payload:     v,
		BrandID:     brandID,
		DomainHints: domainHints(r),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if res.Acknowledged {
		writeJSON(w, http.StatusOK, StatusResponse{Status: "acknowledged"})
		return
	}

	slog.InfoContext(ctx, "order ingested", "order_id", res.Order.ID, "warnings", len(res.Warnings))
	writeJSON(w, http.StatusCreated, mapOrderToResponse(res.Order, res.Warnings))
}

// domainHints reads the store identity headers Shopify and WooCommerce send
// with their webhooks.
func domainHints(r *http.Request) []string {
	var hints []string
	if d := strings.TrimSpace(r.Header.Get(HeaderShopifyShopDomain)); d != "" {
		hints = append(hints, d)
	}
	if src := strings.TrimSpace(r.Header.Get(HeaderWCWebhookSource)); src != "" {
		if u, err := url.Parse(src); err == nil && u.Host != "" {
			hints = append(hints, u.Host)
		} else {
			hints = append(hints, src)
		}
	}
	return hints
}

// GetOrderByID returns a single order.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order, nil))
}

// ListOrders returns every order, oldest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, "")
}

// ListBrandOrders returns the orders of the brand in the path.
func (h *Handler) ListBrandOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, chi.URLParam(r, "brandID"))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request, brandID string) {
	orders, err := h.orders.ListOrders(r.Context(), brandID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

// ListOrderEvents returns the confirmation event log of an order.
func (h *Handler) ListOrderEvents(w http.ResponseWriter, r *http.Request) {
	entries, err := h.orders.Events(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapEvents(entries))
}

// Healthz reports liveness and, when a checker is set, store reachability.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

package httpx

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Basilalghandour/Bot-Project/internal/coordinator"
	"github.com/Basilalghandour/Bot-Project/internal/coordinator/eventlog"
	"github.com/Basilalghandour/Bot-Project/internal/notification/whatsapp"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/adapters/memory"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/app"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/cache"
)

const (
	testVerifyToken = "verify-me"
	testAppSecret   = "app-secret"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.ConfirmationRequest
}

func (n *recordingNotifier) SendConfirmationRequest(_ context.Context, req ports.ConfirmationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, req)
	return nil
}

type testServer struct {
	repo     *memory.Repository
	notifier *recordingNotifier
	handler  http.Handler
}

func newTestServer(t *testing.T, dedupe ports.Deduper) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }

	repo := memory.NewRepository()
	events := eventlog.NewMemoryRepository()
	notifier := &recordingNotifier{}

	n := 0
	orders := app.NewOrderService(
		repo,
		app.NewTenantResolver(repo),
		coordinator.NewOrchestrator(events, logger, time.Second),
		notifier,
		events,
		logger,
		app.WithClock(now),
		app.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	brands := app.NewBrandService(repo, now)
	callbacks := app.NewCallbackService(app.NewLifecycle(repo, now), dedupe, time.Hour, events, logger)

	customers := app.NewCustomerService(repo, repo)

	h := NewHandler(orders, brands, customers, callbacks, WebhookConfig{
		VerifyToken: testVerifyToken,
		AppSecret:   testAppSecret,
	}, nil, 0)

	return &testServer{repo: repo, notifier: notifier, handler: NewRouter(h, "test")}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const shopifyOrder = `{"id":"SH-1","line_items":[{"name":"Widget","quantity":2,"price":"5.00"}],"customer":{"email":"a@b.com"},"shipping_address":{"first_name":"A","last_name":"B","zip":"1000","phone":"+20 100 123 4567"},"shipping_lines":[{"price":"2.50"}],"total_price":"12.50"}`

func TestCreateOrder(t *testing.T) {
	s := newTestServer(t, cache.NewMemoryCache("test"))

	rec := s.do(t, http.MethodPost, "/orders", shopifyOrder, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decodeBody[OrderResponse](t, rec)
	assert.Equal(t, "pending", got.Status)
	require.NotNil(t, got.ExternalID)
	assert.Equal(t, "SH-1", *got.ExternalID)
	assert.Nil(t, got.BrandID)
	assert.Nil(t, got.ConfirmedAt)
	assert.Equal(t, "12.50", got.TotalCost)
	assert.Equal(t, "2.50", got.ShippingCost)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "5.00", got.Items[0].Price)
	assert.Empty(t, got.Warnings)
	assert.Len(t, s.notifier.sent, 1)

	rec = s.do(t, http.MethodGet, "/orders/"+got.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, got.ID, decodeBody[OrderResponse](t, rec).ID)

	rec = s.do(t, http.MethodGet, "/orders", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]OrderResponse](t, rec), 1)
}

func TestCreateOrderErrors(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("invalid json", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/orders", `{"line_items":`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_json", decodeBody[map[string]any](t, rec)["error"])
	})

	t.Run("validation", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/orders", `{"line_items":[]}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "validation_failed", body["error"])
		assert.Contains(t, body, "fields")
	})

	t.Run("duplicate external id", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/orders", shopifyOrder, nil).Code)
		rec := s.do(t, http.MethodPost, "/orders", shopifyOrder, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		fields := decodeBody[map[string]any](t, rec)["fields"].(map[string]any)
		assert.Contains(t, fields, "external_id")
	})

	t.Run("ping", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/orders", `{"webhook_id":"42"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acknowledged", decodeBody[StatusResponse](t, rec).Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/orders/missing", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "order_not_found", decodeBody[map[string]any](t, rec)["error"])
	})
}

func TestBrandRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/brands", `{"name":"Acme","website":"https://www.acme-shop.com"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	brand := decodeBody[BrandResponse](t, rec)
	assert.Equal(t, "Acme", brand.Name)

	rec = s.do(t, http.MethodGet, "/brands/"+brand.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/brands", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]BrandResponse](t, rec), 1)

	rec = s.do(t, http.MethodPost, "/brands/"+brand.ID+"/orders", shopifyOrder, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeBody[OrderResponse](t, rec)
	require.NotNil(t, order.BrandID)
	assert.Equal(t, brand.ID, *order.BrandID)
	assert.Equal(t, "Acme", s.notifier.sent[0].BrandName)

	rec = s.do(t, http.MethodGet, "/brands/"+brand.ID+"/orders", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]OrderResponse](t, rec), 1)

	rec = s.do(t, http.MethodPost, "/brands", `{"name":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/brands/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrderResolvesBrandFromHeader(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodPost, "/brands", `{"name":"Acme","website":"https://acme-shop.com"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	brand := decodeBody[BrandResponse](t, rec)

	rec = s.do(t, http.MethodPost, "/orders", shopifyOrder, map[string]string{
		HeaderWCWebhookSource: "https://www.acme-shop.com/",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeBody[OrderResponse](t, rec)
	require.NotNil(t, order.BrandID)
	assert.Equal(t, brand.ID, *order.BrandID)
}

func webhookBody(messageID, token string) string {
	return fmt.Sprintf(`{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{"messages":[{"id":%q,"from":"201001234567","timestamp":"1767225600","type":"button","button":{"payload":%q,"text":"Confirm"}}]}}]}]}`, messageID, token)
}

func signed(body string) map[string]string {
	return map[string]string{
		whatsapp.SignatureHeader: "sha256=" + hex.EncodeToString(whatsapp.Sign(testAppSecret, []byte(body))),
	}
}

func TestWebhookConfirmsOrder(t *testing.T) {
	s := newTestServer(t, cache.NewMemoryCache("test"))
	rec := s.do(t, http.MethodPost, "/orders", shopifyOrder, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeBody[OrderResponse](t, rec).ID

	body := webhookBody("wamid.1", "confirm:"+orderID)
	rec = s.do(t, http.MethodPost, "/webhooks/whatsapp", body, signed(body))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := s.repo.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.NotNil(t, stored.ConfirmedAt)

	// A later cancel for a confirmed order is ignored.
	body = webhookBody("wamid.2", "cancel:"+orderID)
	rec = s.do(t, http.MethodPost, "/webhooks/whatsapp", body, signed(body))
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err = s.repo.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)

	rec = s.do(t, http.MethodGet, "/orders/"+orderID+"/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeBody[[]EventResponse](t, rec)
	require.Len(t, events, 3)
	assert.Equal(t, string(eventlog.KindDispatch), events[0].Kind)
	assert.Equal(t, string(eventlog.StatusApplied), events[1].Status)
	assert.Equal(t, string(eventlog.StatusIgnored), events[2].Status)
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	s := newTestServer(t, nil)

	cases := map[string]string{
		"malformed json":  `{"entry":`,
		"unknown order":   webhookBody("wamid.3", "confirm:missing"),
		"malformed token": webhookBody("wamid.4", "yes please"),
		"status update":   `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"statuses":[{"id":"wamid.x","status":"read"}]}}]}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/webhooks/whatsapp", body, signed(body))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestWebhookRejectsForgedSignature(t *testing.T) {
	s := newTestServer(t, nil)
	body := webhookBody("wamid.5", "confirm:x")

	rec := s.do(t, http.MethodPost, "/webhooks/whatsapp", body, map[string]string{
		whatsapp.SignatureHeader: "sha256=deadbeef",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/webhooks/whatsapp", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyWebhook(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token="+testVerifyToken+"&hub.challenge=1158201444", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1158201444", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=1", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthz(t *testing.T) {
	ok := NewRouter(NewHandler(nil, nil, nil, nil, WebhookConfig{}, func(context.Context) error { return nil }, 0), "test")
	rec := httptest.NewRecorder()
	ok.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	down := NewRouter(NewHandler(nil, nil, nil, nil, WebhookConfig{}, func(context.Context) error { return errors.New("db down") }, 0), "test")
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decodeBody[StatusResponse](t, rec).Status)
}

func TestErrorEnvelopeCarriesRequestID(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/orders/missing", "", map[string]string{"X-Request-Id": "req-7"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "req-7", decodeBody[map[string]any](t, rec)["request_id"])
}

func TestCreateOrderBodyTooLarge(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewRepository()
	events := eventlog.NewMemoryRepository()
	orders := app.NewOrderService(repo, app.NewTenantResolver(repo),
		coordinator.NewOrchestrator(events, logger, time.Second), nil, events, logger)
	h := NewRouter(NewHandler(orders, nil, nil, nil, WebhookConfig{}, nil, 16), "test")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(shopifyOrder)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCustomerRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/orders", shopifyOrder, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeBody[OrderResponse](t, rec)
	customerID := order.Customer.ID
	require.NotEmpty(t, customerID)

	rec = s.do(t, http.MethodGet, "/customers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	customers := decodeBody[[]CustomerResponse](t, rec)
	require.Len(t, customers, 1)
	assert.Equal(t, customerID, customers[0].ID)

	rec = s.do(t, http.MethodGet, "/customers/"+customerID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c := decodeBody[CustomerResponse](t, rec)
	assert.Equal(t, "a@b.com", c.Email)
	require.NotNil(t, c.PostalCode)
	assert.Equal(t, "1000", *c.PostalCode)

	rec = s.do(t, http.MethodGet, "/customers/"+customerID+"/orders", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decodeBody[[]OrderResponse](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	for _, path := range []string{"/customers/missing", "/customers/missing/orders"} {
		rec = s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "customer_not_found", decodeBody[map[string]any](t, rec)["error"], path)
	}
}

func TestCreateOrderAcceptsFreeFormEmail(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"id":"SH-9","line_items":[{"name":"Widget","quantity":1,"price":"5.00"}],"customer":{"email":"N/A"},"total_price":"5.00"}`

	rec := s.do(t, http.MethodPost, "/orders", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "N/A", decodeBody[OrderResponse](t, rec).Customer.Email)
}

// Package app holds the order service use cases: ingesting store
// notifications, resolving tenants, applying customer replies and the read
// side used by the HTTP gateway.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Basilalghandour/Bot-Project/internal/coordinator"
	"github.com/Basilalghandour/Bot-Project/internal/coordinator/eventlog"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/adapters/payload"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

var tracer = otel.Tracer("order-service")

// DispatchMode selects whether the confirmation request is sent before the
// ingestion response or after it.
type DispatchMode string

const (
	DispatchSync  DispatchMode = "sync"
	DispatchAsync DispatchMode = "async"
)

// DefaultBrandName fills the message template when the order has no brand.
const DefaultBrandName = "our store"

// WarnChannelDisabled is reported when no messaging channel is configured.
const WarnChannelDisabled = "confirmation_request skipped: messaging channel not configured"

// IngestRequest is one inbound store notification.
type IngestRequest struct {
	Payload any
	// BrandID is the brand named by the request path, if any.
	BrandID string
	// DomainHints come from request headers and are tried after the hint
	// carried in the body.
	DomainHints []string
}

// IngestResult is what ingestion produced. Acknowledged is set for platform
// pings, which create nothing.
type IngestResult struct {
	Order        *domain.Order
	Warnings     []string
	Acknowledged bool
}

// OrderService runs ingestion and serves order reads.
type OrderService struct {
	orders       ports.OrderRepository
	tenants      *TenantResolver
	orchestrator *coordinator.Orchestrator
	notifier     ports.Notifier
	events       eventlog.Repository
	logger       *slog.Logger

	mode             DispatchMode
	defaultBrandName string
	now              func() time.Time
	newID            func() string

	inflight sync.WaitGroup
}

// Option customises an OrderService.
type Option func(*OrderService)

func WithDispatchMode(mode DispatchMode) Option {
	return func(s *OrderService) {
		if mode == DispatchSync || mode == DispatchAsync {
			s.mode = mode
		}
	}
}

func WithDefaultBrandName(name string) Option {
	return func(s *OrderService) {
		if name != "" {
			s.defaultBrandName = name
		}
	}
}

// WithClock injects a custom clock, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides uuid generation, primarily for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *OrderService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewOrderService builds the service. notifier may be nil when no messaging
// channel is configured; orders are then created without a confirmation
// request and a warning says so.
func NewOrderService(
	orders ports.OrderRepository,
	tenants *TenantResolver,
	orchestrator *coordinator.Orchestrator,
	notifier ports.Notifier,
	events eventlog.Repository,
	logger *slog.Logger,
	opts ...Option,
) *OrderService {
	s := &OrderService{
		orders:           orders,
		tenants:          tenants,
		orchestrator:     orchestrator,
		notifier:         notifier,
		events:           events,
		logger:           logger,
		mode:             DispatchSync,
		defaultBrandName: DefaultBrandName,
		now:              time.Now,
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Ingest turns a raw store notification into a pending order and asks the
// customer to confirm it. Dispatch failures never fail ingestion; they are
// reported as warnings.
func (s *OrderService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	ctx, span := tracer.Start(ctx, "order.ingest")
	defer span.End()

	if !payload.IsOrder(req.Payload) {
		s.logger.InfoContext(ctx, "acknowledged non-order payload")
		return &IngestResult{Acknowledged: true}, nil
	}

	draft, det := payload.AdaptDetected(req.Payload)
	span.SetAttributes(
		attribute.String("payload.shape", det.Shape.String()),
		attribute.Bool("payload.confident", det.Confident),
	)

	hints := append([]string{payload.DomainHint(req.Payload)}, req.DomainHints...)
	brand, err := s.tenants.Resolve(ctx, req.BrandID, hints...)
	if err != nil {
		return nil, err
	}

	if err := draft.Validate(); err != nil {
		s.logger.InfoContext(ctx, "rejected order payload", "shape", det.Shape.String(), "error", err)
		return nil, err
	}

	if draft.ExternalID != "" {
		exists, err := s.orders.ExternalIDExists(ctx, draft.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}
		if exists {
			return nil, domain.DuplicateExternalID()
		}
	}

	brandID := ""
	if brand != nil {
		brandID = brand.ID
	}
	draft.Customer.ID = s.newID()
	order := domain.NewOrder(s.newID(), brandID, draft, s.now().UTC())

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, domain.ErrDuplicateExternalID) {
			return nil, domain.DuplicateExternalID()
		}
		return nil, fmt.Errorf("ingest: %w", err)
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"external_id", order.ExternalID,
		"brand_id", order.BrandID,
		"shape", det.Shape.String(),
	)

	return &IngestResult{Order: order, Warnings: s.dispatch(ctx, order, brand)}, nil
}

func (s *OrderService) dispatch(ctx context.Context, order *domain.Order, brand *domain.Brand) []string {
	if s.notifier == nil {
		s.logger.WarnContext(ctx, "no messaging channel configured", "order_id", order.ID)
		return []string{WarnChannelDisabled}
	}

	brandName := s.defaultBrandName
	if brand != nil && brand.Name != "" {
		brandName = brand.Name
	}
	steps := []coordinator.Step{
		coordinator.NewConfirmationRequestStep(s.notifier, order, brandName),
	}

	if s.mode == DispatchAsync {
		// Detach from the request so the response does not cancel the send,
		// while keeping the trace.
		bgCtx := context.WithoutCancel(ctx)
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			s.orchestrator.Run(bgCtx, order.ID, steps)
		}()
		return nil
	}
	return s.orchestrator.Run(ctx, order.ID, steps)
}

// Wait blocks until background dispatches have finished.
func (s *OrderService) Wait() {
	s.inflight.Wait()
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

// ListOrders lists all orders, or those of one brand when brandID is set.
// An unknown brand is domain.ErrBrandNotFound rather than an empty list.
func (s *OrderService) ListOrders(ctx context.Context, brandID string) ([]domain.Order, error) {
	if brandID != "" {
		if _, err := s.tenants.brands.GetBrand(ctx, brandID); err != nil {
			return nil, err
		}
	}
	return s.orders.ListOrders(ctx, ports.OrderFilter{BrandID: brandID})
}

// Events returns the confirmation event log of an order.
func (s *OrderService) Events(ctx context.Context, orderID string) ([]eventlog.Entry, error) {
	if _, err := s.orders.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.events.ListByOrder(ctx, orderID)
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Basilalghandour/Bot-Project/internal/api-gateway/infra/httpx"
	"github.com/Basilalghandour/Bot-Project/internal/coordinator"
	"github.com/Basilalghandour/Bot-Project/internal/notification/whatsapp"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/app"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/config"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := telemetry.InitLogger(os.Stdout, cfg.Telemetry.LogLevel, cfg.Telemetry.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("order bot stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", "error", err)
		}
	}()

	store, err := openStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	dedupe := newDeduper(cfg, logger)
	defer func() {
		if err := dedupe.Close(); err != nil {
			logger.Error("failed to close dedupe store", "error", err)
		}
	}()

	// A nil interface, not a typed nil, disables dispatch.
	var notifier ports.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsapp.NewClient(whatsapp.Config{
			BaseURL:       cfg.WhatsApp.BaseURL,
			APIVersion:    cfg.WhatsApp.APIVersion,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			AccessToken:   cfg.WhatsApp.AccessToken,
			TemplateName:  cfg.WhatsApp.TemplateName,
			LanguageCode:  cfg.WhatsApp.LanguageCode,
		}, nil)
	} else {
		logger.Warn("whatsapp channel not configured, confirmation requests are disabled")
	}

	orders := app.NewOrderService(
		store.orders,
		app.NewTenantResolver(store.orders),
		coordinator.NewOrchestrator(store.events, logger, cfg.Dispatch.Timeout),
		notifier,
		store.events,
		logger,
		app.WithDispatchMode(app.DispatchMode(cfg.Dispatch.Mode)),
		app.WithDefaultBrandName(cfg.Dispatch.DefaultBrandName),
	)
	brands := app.NewBrandService(store.orders, time.Now)
	customers := app.NewCustomerService(store.orders, store.orders)
	callbacks := app.NewCallbackService(
		app.NewLifecycle(store.orders, time.Now),
		dedupe,
		cfg.Redis.DedupeTTL,
		store.events,
		logger,
	)

	handler := httpx.NewHandler(orders, brands, customers, callbacks, httpx.WebhookConfig{
		VerifyToken: cfg.WhatsApp.VerifyToken,
		AppSecret:   cfg.WhatsApp.AppSecret,
	}, store.health, cfg.Server.MaxBodyBytes)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpx.NewRouter(handler, cfg.Telemetry.ServiceName),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("order bot listening",
			"addr", cfg.Server.Addr,
			"database", cfg.Database.Driver,
			"dispatch_mode", cfg.Dispatch.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	// Let in-flight asynchronous confirmation requests finish before the
	// stores close.
	orders.Wait()
	return nil
}

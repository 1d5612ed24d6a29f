package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/prodline/orderbridge/internal/handlers"
	"github.com/prodline/orderbridge/internal/hub"
	"github.com/prodline/orderbridge/internal/platform/auth"
	"github.com/prodline/orderbridge/internal/platform/config"
	"github.com/prodline/orderbridge/internal/platform/observability"
	"github.com/prodline/orderbridge/internal/services"
	"github.com/prodline/orderbridge/internal/xero"
)

func main() {
	// Local development convenience; a missing .env file is fine.
	_ = godotenv.Load()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("orderbridge")

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("missing required configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	client, err := xero.NewClient(xero.ClientConfig{
		ClientID:        cfg.Xero.ClientID,
		ClientSecret:    cfg.Xero.ClientSecret,
		IdentityBaseURL: cfg.Xero.IdentityBaseURL,
		APIBaseURL:      cfg.Xero.APIBaseURL,
		Timeout:         cfg.Xero.Timeout,
	})
	if err != nil {
		logger.Fatal("failed to initialise vendor client", zap.Error(err))
	}

	store, err := xero.NewFileTokenStore(cfg.Xero.TokenFile)
	if err != nil {
		logger.Fatal("failed to initialise token store", zap.Error(err))
	}

	session, err := xero.NewSession(xero.SessionConfig{
		API:   client,
		Store: store,
	})
	if err != nil {
		logger.Fatal("failed to initialise vendor session", zap.Error(err))
	}
	if !session.Authenticated() {
		logger.Warn("no refresh token on disk; invoice endpoints will reject until one is seeded",
			zap.String("token_file", cfg.Xero.TokenFile))
	}

	invoiceService, err := services.NewInvoiceService(services.InvoiceServiceDeps{
		Gateway: session,
		Mapper: services.MapperConfig{
			Themes:              cfg.Branding.Themes,
			SalesAccountCode:    cfg.Xero.SalesAccountCode,
			PaymentAccountCode:  cfg.Xero.PaymentAccountCode,
			ClearingAccountCode: cfg.Xero.ClearingAccountCode,
		},
	})
	if err != nil {
		logger.Fatal("failed to initialise invoice service", zap.Error(err))
	}

	var webhookService services.WebhookService
	if cfg.Hub.BaseURL != "" {
		hubClient, err := hub.NewClient(hub.Config{
			BaseURL: cfg.Hub.BaseURL,
			APIKey:  cfg.Hub.APIKey,
			Timeout: cfg.Hub.Timeout,
		})
		if err != nil {
			logger.Fatal("failed to initialise hub client", zap.Error(err))
		}
		webhookService, err = services.NewWebhookService(services.WebhookServiceDeps{
			Gateway: session,
			Hub:     hubClient,
		})
		if err != nil {
			logger.Fatal("failed to initialise webhook service", zap.Error(err))
		}
	} else {
		logger.Warn("hub base url not configured; webhook deliveries will be rejected")
	}

	verifier := auth.NewWebhookVerifier(cfg.Xero.WebhookKey)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
		observability.RecovererMiddleware(),
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthReadiness(session),
	)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceService)
	webhookHandlers := handlers.NewWebhookHandlers(webhookService)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithInvoiceRoutes(invoiceHandlers.Routes),
		handlers.WithWebhookRoutes(webhookHandlers.Routes),
		handlers.WithWebhookMiddlewares(verifier.RequireSignature()),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("orderbridge api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

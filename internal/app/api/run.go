package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/commerce"
	navmemory "github.com/Apurer/go-gin-storefront/internal/domains/navigation/adapters/memory"
	navredis "github.com/Apurer/go-gin-storefront/internal/domains/navigation/adapters/redis"
	navports "github.com/Apurer/go-gin-storefront/internal/domains/navigation/ports"
	ordersobs "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	sessionmemory "github.com/Apurer/go-gin-storefront/internal/domains/session/adapters/memory"
	sessionpostgres "github.com/Apurer/go-gin-storefront/internal/domains/session/adapters/persistence/postgres"
	sessionapp "github.com/Apurer/go-gin-storefront/internal/domains/session/application"
	sessionports "github.com/Apurer/go-gin-storefront/internal/domains/session/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-storefront/internal/platform/redis"
	platformtemporal "github.com/Apurer/go-gin-storefront/internal/platform/temporal"
)

const (
	serviceName            = "storefront-bff"
	workspaceSweepInterval = 5 * time.Minute
)

// Run boots the storefront BFF with observability, stores, the Commerce API
// client and order submission wired. It returns when ctx is cancelled or the
// process receives SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Observability.ServiceName = serviceName
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	sessionStore, cleanupSessions := buildSessionStore(ctx, cfg, logger)
	defer cleanupSessions()
	inbox, cleanupInbox := buildInbox(ctx, cfg, logger)
	defer cleanupInbox()

	client, err := NewCommerceClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build commerce client: %w", err)
	}
	submitter, cleanupSubmitter := buildSubmitter(cfg, client, instruments)
	defer cleanupSubmitter()

	sessions := sessionapp.NewService(sessionStore, client, sessionapp.WithLogger(logger))
	workspaces := storefrontserver.NewWorkspaces(client, submitter, logger,
		storefrontserver.WithIdleTimeout(cfg.SessionTTL()),
	)
	authAPI := storefrontserver.NewAuthAPI(sessions, workspaces)
	handlers := storefrontserver.ApiHandleFunctions{
		AuthAPI:    authAPI,
		CatalogAPI: storefrontserver.NewCatalogAPI(workspaces, inbox, logger),
		AdminAPI:   storefrontserver.NewAdminAPI(workspaces, inbox, logger),
		OrderAPI:   storefrontserver.NewOrderAPI(workspaces, inbox, logger),
		AddressAPI: storefrontserver.NewAddressAPI(workspaces),
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	storefrontserver.NewRouterWithGinEngine(router, handlers,
		storefrontserver.SessionMiddleware(sessionStore, storefrontserver.CookieSettings{
			Name:   cfg.SessionCookie,
			MaxAge: cfg.SessionTTL(),
			Secure: cfg.SessionCookieSecure,
		}, logger),
		storefrontserver.ErrorMiddleware(logger, authAPI.SessionExpiredHandler()),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go workspaces.Sweep(ctx, workspaceSweepInterval)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront BFF listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront BFF exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down storefront BFF")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// NewCommerceClient builds the Commerce API client. The shopper's token is
// read from the session carried by each request context.
func NewCommerceClient(cfg Config, logger *slog.Logger) (*commerce.Client, error) {
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.CommerceTimeout,
	}
	return commerce.NewClient(cfg.CommerceBaseURL,
		commerce.WithHTTPClient(httpClient),
		commerce.WithTokenSource(commerce.SessionTokens),
		commerce.WithLogger(logger),
	)
}

func buildSessionStore(ctx context.Context, cfg Config, logger *slog.Logger) (sessionports.Store, func()) {
	db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return sessionmemory.NewStore(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("session migrations failed, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return sessionmemory.NewStore(), func() {}
	}
	logger.Info("session store configured with postgres")
	return sessionpostgres.NewStore(db, cfg.SessionTTL()), cleanup
}

func buildInbox(ctx context.Context, cfg Config, logger *slog.Logger) (navports.Inbox, func()) {
	client, cleanup := platformredis.Open(ctx, cfg.RedisAddr, logger)
	if client == nil {
		return navmemory.NewInbox(), cleanup
	}
	return navredis.NewInbox(client, cfg.NotificationTTL()), cleanup
}

func buildSubmitter(cfg Config, client *commerce.Client, instruments *platformobservability.Instruments) (orderports.Submitter, func()) {
	logger := instruments.Logger
	var inner orderports.Submitter = orderworkflows.NewInlineSubmitter(client)
	cleanup := func() {}
	if temporalClient, err := platformtemporal.Dial(cfg.Temporal, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, submitting orders inline", slog.String("error", err.Error()))
	} else {
		inner = orderworkflows.NewTemporalSubmitter(temporalClient)
		cleanup = temporalClient.Close
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.Temporal.EffectiveNamespace()))
	}
	return ordersobs.New(
		inner,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	), cleanup
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/commerce"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront/internal/platform/temporal"
)

type config struct {
	CommerceBaseURL string        `envconfig:"COMMERCE_BASE_URL" required:"true"`
	CommerceTimeout time.Duration `envconfig:"COMMERCE_TIMEOUT" default:"0s"`
	Observability   platformobservability.Settings
	Temporal        platformtemporal.Settings
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	cfg.Observability.ServiceName = "storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// The activity puts the workflow's token into a session context.
	client, err := commerce.NewClient(cfg.CommerceBaseURL,
		commerce.WithHTTPClient(&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.CommerceTimeout,
		}),
		commerce.WithTokenSource(commerce.SessionTokens),
		commerce.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to build commerce client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := orderactivities.NewActivities(client)

	temporalClient, err := platformtemporal.Dial(cfg.Temporal, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.SubmissionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.SubmissionWorkflow, workflow.RegisterOptions{Name: orderworkflows.SubmissionWorkflowName})
	w.RegisterActivityWithOptions(activities.CreateOrder, activity.RegisterOptions{Name: orderactivities.CreateOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.SubmissionTaskQueue), slog.String("namespace", cfg.Temporal.EffectiveNamespace()))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

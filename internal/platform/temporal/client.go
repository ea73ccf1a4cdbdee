package temporal

import (
	"errors"
	"log/slog"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

// ErrDisabled is returned by Dial when Temporal is switched off by config.
var ErrDisabled = errors.New("temporal disabled via TEMPORAL_DISABLED")

// Settings locates the Temporal frontend. PayloadKey is a base64 AES key
// sealing every payload the client or worker hands to Temporal.
type Settings struct {
	Address      string `envconfig:"TEMPORAL_ADDRESS"`
	Namespace    string `envconfig:"TEMPORAL_NAMESPACE"`
	Disabled     bool   `envconfig:"TEMPORAL_DISABLED"`
	PayloadKey   string `envconfig:"TEMPORAL_PAYLOAD_KEY"`
	PayloadKeyID string `envconfig:"TEMPORAL_PAYLOAD_KEY_ID"`
}

// Dial connects a Temporal client with OTel tracing, structured logging and
// encrypted payloads. tracerName names the tracer used by the interceptor.
// Workers built on the client share its data converter.
func Dial(settings Settings, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if settings.Disabled {
		return nil, ErrDisabled
	}
	dataConverter, err := settings.DataConverter()
	if err != nil {
		return nil, err
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:      settings.address(),
		Namespace:     settings.namespace(),
		Logger:        workerlog.NewStructuredLogger(logger(instruments)),
		DataConverter: dataConverter,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func (s Settings) address() string {
	if s.Address == "" {
		return client.DefaultHostPort
	}
	return s.Address
}

func (s Settings) namespace() string {
	if s.Namespace == "" {
		return client.DefaultNamespace
	}
	return s.Namespace
}

// EffectiveNamespace reports the namespace Dial will use.
func (s Settings) EffectiveNamespace() string { return s.namespace() }

func logger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}

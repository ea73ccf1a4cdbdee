package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront/internal/platform/temporal"
)

// Config carries environment-driven settings for the BFF process.
type Config struct {
	Port                   string        `envconfig:"PORT" default:"8080"`
	CommerceBaseURL        string        `envconfig:"COMMERCE_BASE_URL" required:"true"`
	CommerceTimeout        time.Duration `envconfig:"COMMERCE_TIMEOUT" default:"0s"`
	PostgresDSN            string        `envconfig:"POSTGRES_DSN"`
	RedisAddr              string        `envconfig:"REDIS_ADDR"`
	SessionTTLHours        int           `envconfig:"SESSION_TTL_HOURS" default:"24"`
	SessionCookie          string        `envconfig:"SESSION_COOKIE" default:"storefront_session"`
	SessionCookieSecure    bool          `envconfig:"SESSION_COOKIE_SECURE"`
	NotificationTTLMinutes int           `envconfig:"NOTIFICATION_TTL_MINUTES" default:"10"`

	Observability platformobservability.Settings
	Temporal      platformtemporal.Settings
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.CommerceBaseURL = strings.TrimSpace(cfg.CommerceBaseURL)
	if cfg.CommerceBaseURL == "" {
		return Config{}, fmt.Errorf("COMMERCE_BASE_URL must not be blank")
	}
	if cfg.CommerceTimeout < 0 {
		return Config{}, fmt.Errorf("COMMERCE_TIMEOUT must not be negative")
	}
	if cfg.SessionTTLHours <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
	}
	if cfg.NotificationTTLMinutes <= 0 {
		return Config{}, fmt.Errorf("NOTIFICATION_TTL_MINUTES must be a positive integer")
	}
	if strings.TrimSpace(cfg.SessionCookie) == "" {
		return Config{}, fmt.Errorf("SESSION_COOKIE must not be blank")
	}
	return cfg, nil
}

// SessionTTL is how long an idle session survives in the persistent store.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// NotificationTTL bounds how long an undelivered notification is kept.
func (c Config) NotificationTTL() time.Duration {
	return time.Duration(c.NotificationTTLMinutes) * time.Minute
}

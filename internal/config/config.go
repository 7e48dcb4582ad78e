package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BrokerFCM  = "fcm"
	BrokerExpo = "expo"
)

// Config holds the function's settings, read from the environment the
// function is deployed with.
type Config struct {
	ProjectID       string `envconfig:"GCP_PROJECT"`
	DatabaseURL     string `envconfig:"FIREBASE_DATABASE_URL"`
	CredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`

	// PushBroker selects the delivery backend: "fcm" sends to a topic,
	// "expo" fans out to the group's Expo tokens.
	PushBroker string `envconfig:"PUSH_BROKER" default:"fcm"`

	UsersCollection  string `envconfig:"USERS_COLLECTION" default:"users"`
	GroupsCollection string `envconfig:"GROUPS_COLLECTION" default:"groups"`

	// RedisAddr enables message deduplication when set.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// DedupPendingTTL must outlast the function timeout; a claim that is
	// never confirmed frees the message for redelivery after it.
	DedupPendingTTL time.Duration `envconfig:"DEDUP_PENDING_TTL" default:"10m"`
	DedupTTL        time.Duration `envconfig:"DEDUP_TTL" default:"24h"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads Config from environment variables and validates it.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.PushBroker {
	case BrokerFCM, BrokerExpo:
	default:
		return fmt.Errorf("invalid PUSH_BROKER %q: want %q or %q", c.PushBroker, BrokerFCM, BrokerExpo)
	}
	if c.UsersCollection == "" {
		return fmt.Errorf("USERS_COLLECTION must not be empty")
	}
	if c.DedupTTL <= 0 {
		return fmt.Errorf("DEDUP_TTL must be positive, got %s", c.DedupTTL)
	}
	if c.DedupPendingTTL <= 0 || c.DedupPendingTTL > c.DedupTTL {
		return fmt.Errorf("DEDUP_PENDING_TTL must be positive and at most DEDUP_TTL, got %s", c.DedupPendingTTL)
	}
	return nil
}

// DedupEnabled reports whether a Redis deduper should be wired in.
func (c *Config) DedupEnabled() bool {
	return c.RedisAddr != ""
}

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Event source names accepted in EVENT_SOURCES.
const (
	SourceFirestore = "firestore"
	SourceRabbitMQ  = "rabbitmq"
	SourceHTTP      = "http"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string        `mapstructure:"PORT"`
	GinMode                          string        `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string        `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string        `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	ClientURL                        string        `mapstructure:"CLIENT_URL"`
	EventSources                     string        `mapstructure:"EVENT_SOURCES"` // Comma separated: firestore, rabbitmq, http
	EventIngestSecret                string        `mapstructure:"EVENT_INGEST_SECRET"`
	RabbitMQURL                      string        `mapstructure:"RABBITMQ_URL"`
	RabbitMQQueue                    string        `mapstructure:"RABBITMQ_QUEUE"`
	NatsURL                          string        `mapstructure:"NATS_URL"`
	NatsOutcomeSubject               string        `mapstructure:"NATS_OUTCOME_SUBJECT"`
	RedisAddress                     string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword                    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                          int           `mapstructure:"REDIS_DB"`
	DisplayNameCacheTTL              time.Duration `mapstructure:"DISPLAY_NAME_CACHE_TTL"`
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("EVENT_SOURCES", SourceFirestore)
	v.SetDefault("RABBITMQ_QUEUE", "firestore-changes")
	v.SetDefault("NATS_OUTCOME_SUBJECT", "notifications.outcome")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DISPLAY_NAME_CACHE_TTL", "10m")

	for _, key := range []string{
		"PORT", "GIN_MODE", "FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "CLIENT_URL", "EVENT_SOURCES", "EVENT_INGEST_SECRET",
		"RABBITMQ_URL", "RABBITMQ_QUEUE", "NATS_URL", "NATS_OUTCOME_SUBJECT",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "DISPLAY_NAME_CACHE_TTL",
	} {
		v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	for _, source := range cfg.Sources() {
		switch source {
		case SourceFirestore:
		case SourceRabbitMQ:
			if cfg.RabbitMQURL == "" {
				return nil, errors.New("RABBITMQ_URL is required when the rabbitmq event source is enabled")
			}
		case SourceHTTP:
			if cfg.EventIngestSecret == "" {
				return nil, errors.New("EVENT_INGEST_SECRET is required when the http event source is enabled")
			}
		default:
			return nil, errors.New("unknown event source in EVENT_SOURCES: " + source)
		}
	}

	return &cfg, nil
}

// Sources returns the enabled event sources, lower-cased and trimmed.
func (c *Config) Sources() []string {
	var out []string
	for _, s := range strings.Split(c.EventSources, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SourceEnabled reports whether the named event source is configured.
func (c *Config) SourceEnabled(name string) bool {
	for _, s := range c.Sources() {
		if s == name {
			return true
		}
	}
	return false
}

// IsRelease reports whether the service runs in gin release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}

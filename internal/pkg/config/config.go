// Package config loads runtime configuration from environment variables.
// Every setting has a named default so the service starts with no
// environment at all: SQLite in the working directory, in-process dedupe,
// no messaging channel.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultServiceName     = "order-bot"
	defaultServerAddr      = ":8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxBodyBytes    = 1 << 20
	defaultDatabaseDriver  = "sqlite"
	defaultDatabaseDSN     = "orders.db"
	defaultDedupeTTL       = 24 * time.Hour
	defaultWhatsAppBaseURL = "https://graph.facebook.com"
	defaultWhatsAppVersion = "v22.0"
	defaultWhatsAppLang    = "en"
	defaultTemplateName    = "order_confirmation"
	defaultDispatchMode    = "sync"
	defaultDispatchTimeout = 10 * time.Second
	defaultBrandName       = "our store"
	defaultOTLPEndpoint    = "localhost:4317"
	defaultEnvironment     = "local"
	defaultLogLevel        = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	WhatsApp  WhatsAppConfig
	Dispatch  DispatchConfig
	Telemetry TelemetryConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// DatabaseConfig selects the store. Driver is sqlite, postgres or memory.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// RedisConfig enables the shared dedupe store when Addr is set.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	DedupeTTL time.Duration
}

// WhatsAppConfig holds Cloud API credentials and webhook secrets.
type WhatsAppConfig struct {
	BaseURL       string
	APIVersion    string
	PhoneNumberID string
	AccessToken   string
	TemplateName  string
	LanguageCode  string
	VerifyToken   string
	AppSecret     string
}

// Enabled reports whether outbound messages can be sent.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// DispatchConfig controls the confirmation request after order creation.
type DispatchConfig struct {
	Mode             string
	Timeout          time.Duration
	DefaultBrandName string
}

// TelemetryConfig controls tracing export and logging.
type TelemetryConfig struct {
	ServiceName  string
	Enabled      bool
	OTLPEndpoint string
	Environment  string
	LogLevel     string
}

// ValidationError is returned when configuration fields are invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

type loaderOptions struct {
	envMap       map[string]string
	useSystemEnv bool
}

// Option customises Load.
type Option func(*loaderOptions)

// WithEnvMap supplies values that take precedence over the process environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) { o.envMap = values }
}

// WithoutSystemEnv ignores the process environment, for tests.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) { o.useSystemEnv = false }
}

// Load reads the configuration and validates it.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			return os.LookupEnv(key)
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:            stringWithDefault(lookup, "SERVER_ADDR", defaultServerAddr),
			ReadTimeout:     durationWithDefault(lookup, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
			MaxBodyBytes:    int64(intWithDefault(lookup, "SERVER_MAX_BODY_BYTES", defaultMaxBodyBytes)),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(stringWithDefault(lookup, "DATABASE_DRIVER", defaultDatabaseDriver)),
			DSN:    stringWithDefault(lookup, "DATABASE_DSN", defaultDatabaseDSN),
		},
		Redis: RedisConfig{
			Addr:      stringWithDefault(lookup, "REDIS_ADDR", ""),
			Password:  stringWithDefault(lookup, "REDIS_PASSWORD", ""),
			DB:        intWithDefault(lookup, "REDIS_DB", 0),
			DedupeTTL: durationWithDefault(lookup, "CALLBACK_DEDUPE_TTL", defaultDedupeTTL),
		},
		WhatsApp: WhatsAppConfig{
			BaseURL:       stringWithDefault(lookup, "WHATSAPP_API_BASE_URL", defaultWhatsAppBaseURL),
			APIVersion:    stringWithDefault(lookup, "WHATSAPP_API_VERSION", defaultWhatsAppVersion),
			PhoneNumberID: stringWithDefault(lookup, "WHATSAPP_PHONE_NUMBER_ID", ""),
			AccessToken:   stringWithDefault(lookup, "WHATSAPP_API_TOKEN", ""),
			TemplateName:  stringWithDefault(lookup, "WHATSAPP_TEMPLATE_NAME", defaultTemplateName),
			LanguageCode:  stringWithDefault(lookup, "WHATSAPP_TEMPLATE_LANGUAGE", defaultWhatsAppLang),
			VerifyToken:   stringWithDefault(lookup, "WHATSAPP_VERIFY_TOKEN", ""),
			AppSecret:     stringWithDefault(lookup, "WHATSAPP_APP_SECRET", ""),
		},
		Dispatch: DispatchConfig{
			Mode:             strings.ToLower(stringWithDefault(lookup, "DISPATCH_MODE", defaultDispatchMode)),
			Timeout:          durationWithDefault(lookup, "DISPATCH_TIMEOUT", defaultDispatchTimeout),
			DefaultBrandName: stringWithDefault(lookup, "DEFAULT_BRAND_NAME", defaultBrandName),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  stringWithDefault(lookup, "SERVICE_NAME", defaultServiceName),
			Enabled:      boolWithDefault(lookup, "OTEL_ENABLED", false),
			OTLPEndpoint: stringWithDefault(lookup, "OTEL_EXPORTER_OTLP_ENDPOINT", defaultOTLPEndpoint),
			Environment:  stringWithDefault(lookup, "OTEL_RESOURCE_ATTRIBUTES_ENV", defaultEnvironment),
			LogLevel:     strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if cfg.Server.Addr == "" {
		invalid = append(invalid, "Server.Addr")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		invalid = append(invalid, "Server.MaxBodyBytes")
	}
	switch cfg.Database.Driver {
	case "sqlite", "sqlite3", "postgres", "postgresql", "memory":
	default:
		invalid = append(invalid, "Database.Driver")
	}
	if cfg.Database.Driver != "memory" && cfg.Database.DSN == "" {
		invalid = append(invalid, "Database.DSN")
	}
	if cfg.Redis.DedupeTTL <= 0 {
		invalid = append(invalid, "Redis.DedupeTTL")
	}
	if cfg.WhatsApp.Enabled() && cfg.WhatsApp.TemplateName == "" {
		invalid = append(invalid, "WhatsApp.TemplateName")
	}
	if cfg.Dispatch.Mode != "sync" && cfg.Dispatch.Mode != "async" {
		invalid = append(invalid, "Dispatch.Mode")
	}
	if cfg.Dispatch.Timeout <= 0 {
		invalid = append(invalid, "Dispatch.Timeout")
	}
	switch cfg.Telemetry.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "Telemetry.LogLevel")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

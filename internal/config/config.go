package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	CORSAllowedOrigins []string

	ShippingRatesFile          string
	StopDesksFile              string
	AddressRequiredForStopDesk bool
	IdempotencyTTL             time.Duration
	HTTPBodyLimitBytes         int64
	RateLimitWindow            time.Duration
	RateLimitMax               int
	SecurityHeadersEnabled     bool
	SecurityHSTSEnabled        bool
	ShutdownTimeout            time.Duration

	GeocodeBaseURL   string
	GeocodeUserAgent string
	GeocodeTimeout   time.Duration
	GeocodeCacheTTL  time.Duration
	GeocodeRate      string

	OrderEndpointURL string
	OrderTimeout     time.Duration

	Obs Observability
}

// Observability groups the OBS_* toggles.
type Observability struct {
	LogFormat        string
	LogLevel         string
	MetricsNamespace string
	MetricsEnabled   bool
	MetricsBuckets   string
	TracingEnabled   bool
	TracingExporter  string
	OTLPEndpoint     string
	SamplingRatio    float64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		ShippingRatesFile:          strings.TrimSpace(k.String("SHIPPING_RATES_FILE")),
		StopDesksFile:              strings.TrimSpace(k.String("STOP_DESKS_FILE")),
		AddressRequiredForStopDesk: parseBool(k.String("CHECKOUT_ADDRESS_REQUIRED_FOR_STOP_DESK"), true),
		IdempotencyTTL:             parseDuration(k.String("IDEMPOTENCY_TTL"), "10m"),
		HTTPBodyLimitBytes:         parseInt64(k.String("HTTP_BODY_LIMIT_BYTES"), 64<<10),
		RateLimitWindow:            parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:               int(parseInt64(k.String("RATE_LIMIT_MAX"), 30)),
		SecurityHeadersEnabled:     parseBool(k.String("SECURITY_HEADERS_ENABLED"), true),
		SecurityHSTSEnabled:        parseBool(k.String("SECURITY_HSTS_ENABLED"), false),
		ShutdownTimeout:            parseDuration(k.String("SHUTDOWN_TIMEOUT"), "15s"),

		GeocodeBaseURL:   valueOrDefault(k.String("GEOCODE_BASE_URL"), "https://nominatim.openstreetmap.org"),
		GeocodeUserAgent: valueOrDefault(k.String("GEOCODE_USER_AGENT"), "beehouse-checkout/1.0"),
		GeocodeTimeout:   parseDuration(k.String("GEOCODE_TIMEOUT"), "5s"),
		GeocodeCacheTTL:  parseDuration(k.String("GEOCODE_CACHE_TTL"), "24h"),
		GeocodeRate:      valueOrDefault(k.String("GEOCODE_RATE"), "1-S"),

		OrderEndpointURL: strings.TrimSpace(k.String("ORDER_ENDPOINT_URL")),
		OrderTimeout:     parseDuration(k.String("ORDER_TIMEOUT"), "10s"),

		Obs: Observability{
			LogFormat:        valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
			LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
			MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "beehouse"),
			MetricsEnabled:   parseBool(k.String("OBS_ENABLE_PROMETHEUS"), true),
			MetricsBuckets:   strings.TrimSpace(k.String("OBS_METRICS_BUCKETS_MS")),
			TracingEnabled:   parseBool(k.String("OBS_ENABLE_TRACING"), false),
			TracingExporter:  valueOrDefault(k.String("OBS_TRACING_EXPORTER"), "otlp"),
			OTLPEndpoint:     strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
			SamplingRatio:    parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1.0),
		},
	}

	if cfg.OrderEndpointURL == "" {
		return nil, errors.New("ORDER_ENDPOINT_URL is required")
	}
	if u, err := url.Parse(cfg.OrderEndpointURL); err != nil || u.Host == "" {
		return nil, fmt.Errorf("ORDER_ENDPOINT_URL %q is not an absolute URL", cfg.OrderEndpointURL)
	}
	if cfg.RateLimitMax <= 0 {
		return nil, errors.New("RATE_LIMIT_MAX must be positive")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseInt64(value string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

// MustLoad behaves like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Package config loads the service configuration from the environment.
//
// Values are read from process environment variables (a `.env` file is
// loaded first when present), mapped onto the Config struct with koanf and
// validated with go-playground/validator so the process fails fast when the
// upstream URL or service key is missing.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads `.env` into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the LEADINTAKE_ prefix. A double underscore separates
	nested blocks:

		LEADINTAKE_SERVER__PORT            -> server.port
		LEADINTAKE_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level

	The upstream credentials are also accepted under their conventional names:

		SUPABASE_URL         -> supabase.url
		SUPABASE_SERVICE_KEY -> supabase.service_key
*/

const (
	envPrefix         = "LEADINTAKE_"
	supabaseEnvPrefix = "SUPABASE_"
	nestingSeparator  = "__"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Supabase      SupabaseConfig       `koanf:"supabase" validate:"required"`
	Lead          LeadConfig           `koanf:"lead"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// TrustProxyHeaders makes the client address come from X-Forwarded-For
	// instead of the TCP peer. Enable only behind a proxy you control.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// SupabaseConfig points at the remote procedure-call endpoint.
//
// ServiceKey is sent both as the apikey header and as the bearer token; it is
// never taken from an inbound request.
type SupabaseConfig struct {
	URL              string        `koanf:"url" validate:"required,url"`
	ServiceKey       string        `koanf:"service_key" validate:"required"`
	Timeout          time.Duration `koanf:"timeout" validate:"min=1ms"`
	MaxResponseBytes int64         `koanf:"max_response_bytes" validate:"min=1"`
}

// LeadConfig tunes the lead intake endpoint.
type LeadConfig struct {
	// ProductTypes, when non-empty, is the closed set of accepted product_type
	// values. Empty means any non-empty value is forwarded as-is.
	ProductTypes []string `koanf:"product_types"`

	// TruncateClientIP stores only the /24 (IPv4) or /64 (IPv6) prefix of the
	// observed client address. A submitted ip_trunc is never altered.
	TruncateClientIP bool `koanf:"truncate_client_ip"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig configures the per-client-IP limiter on /api routes.
type RateLimitConfig struct {
	Enabled bool `koanf:"enabled"`

	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0"`

	// Burst is the number of requests allowed at once.
	Burst int `koanf:"burst" validate:"min=0"`

	// ExpiresIn drops idle visitors from the limiter's memory.
	ExpiresIn time.Duration `koanf:"expires_in"`
}

// DefaultConfig returns a config with every optional value filled in.
// Supabase URL and service key have no default.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        15,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Supabase: SupabaseConfig{
			Timeout:          10 * time.Second,
			MaxResponseBytes: 1 << 20,
		},
		Lead: LeadConfig{
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 1,
				Burst:             5,
				ExpiresIn:         3 * time.Minute,
			},
		},
		Observability: DefaultObservabilityConfig(),
	}
}

func envKey(prefix string) func(string) string {
	return func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, prefix))
		return strings.ReplaceAll(key, nestingSeparator, ".")
	}
}

// LoadConfig reads the environment, applies defaults and validates the result.
//
// It returns an error instead of exiting so the caller decides how to fail.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	// SUPABASE_URL / SUPABASE_SERVICE_KEY first so the prefixed forms win.
	err := k.Load(env.Provider(supabaseEnvPrefix, ".", func(s string) string {
		return "supabase." + strings.ToLower(strings.TrimPrefix(s, supabaseEnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load %s env variables: %w", supabaseEnvPrefix, err)
	}

	err = k.Load(env.Provider(envPrefix, ".", envKey(envPrefix)), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load %s env variables: %w", envPrefix, err)
	}

	mainConfig := DefaultConfig()

	// Unmarshal only overwrites keys present in the environment.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.Supabase.URL = strings.TrimRight(strings.TrimSpace(mainConfig.Supabase.URL), "/")
	mainConfig.Lead.ProductTypes = compact(mainConfig.Lead.ProductTypes)
	mainConfig.Server.CORSAllowedOrigins = compact(mainConfig.Server.CORSAllowedOrigins)

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.HealthChecks.Checks = compact(mainConfig.Observability.HealthChecks.Checks)
	mainConfig.Observability.ServiceName = "lead-intake"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate runs struct-tag validation on the whole tree plus the
// observability rules that tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("invalid observability config: %w", err)
		}
	}

	return nil
}

// compact splits comma separated entries, trims them and drops empties.
// A list env var arrives either as one joined string or already split.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

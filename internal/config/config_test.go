package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSupabaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://project.supabase.co/")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setSupabaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://project.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "service-key", cfg.Supabase.ServiceKey)
	assert.Equal(t, 10*time.Second, cfg.Supabase.Timeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Lead.ProductTypes)
	assert.False(t, cfg.Lead.RateLimit.Enabled)
	assert.Equal(t, "lead-intake", cfg.Observability.ServiceName)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoadConfig_PrefixedOverrides(t *testing.T) {
	setSupabaseEnv(t)
	t.Setenv("LEADINTAKE_PRIMARY__ENV", "production")
	t.Setenv("LEADINTAKE_SERVER__PORT", "9090")
	t.Setenv("LEADINTAKE_SUPABASE__SERVICE_KEY", "prefixed-key")
	t.Setenv("LEADINTAKE_SUPABASE__TIMEOUT", "3s")
	t.Setenv("LEADINTAKE_LEAD__PRODUCT_TYPES", "resume, cover,,")
	t.Setenv("LEADINTAKE_OBSERVABILITY__LOGGING__LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "prefixed-key", cfg.Supabase.ServiceKey)
	assert.Equal(t, 3*time.Second, cfg.Supabase.Timeout)
	assert.Equal(t, []string{"resume", "cover"}, cfg.Lead.ProductTypes)
	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfig_FailsWithoutCredentials(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "")
		t.Setenv("SUPABASE_SERVICE_KEY", "service-key")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("missing service key", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://project.supabase.co")
		t.Setenv("SUPABASE_SERVICE_KEY", "")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestLoadConfig_InvalidLogFormat(t *testing.T) {
	setSupabaseEnv(t)
	t.Setenv("LEADINTAKE_OBSERVABILITY__LOGGING__FORMAT", "xml")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestObservabilityConfig_HasCheck(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HasCheck("rpc"))
	assert.False(t, cfg.HasCheck("database"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HasCheck("rpc"))
}

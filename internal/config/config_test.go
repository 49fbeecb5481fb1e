package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(100), cfg.RateLimitLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitPeriod)
	assert.Equal(t, int64(50), cfg.GenerateLimitLimit)
	assert.Equal(t, time.Hour, cfg.GenerateLimitPeriod)
	assert.Equal(t, 7*24*time.Hour, cfg.RetentionPeriod)
	assert.Equal(t, 5, cfg.FreeSaveLimit)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.BillingWebhookSecret)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.AllowedOrigins)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresWebhookSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("REFRESH_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("BILLING_WEBHOOK_SECRET", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://docmint.app")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseOrigins_TrimsAndSkipsEmpty(t *testing.T) {
	origins, err := parseOrigins(" https://a.dev , ,https://b.dev", "production")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, origins)
}

func TestGetDatabaseURL_FromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_USER", "app")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "docmint")

	assert.Equal(t, "postgres://app:p%40ss@db:5432/docmint?sslmode=disable", getDatabaseURL())
}

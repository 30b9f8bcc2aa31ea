package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_HOST", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ADMIN_EMAIL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, time.Hour, cfg.Redis.ListingTTL)
	assert.Equal(t, time.Minute, cfg.Redis.SearchTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpirationDuration())
	assert.False(t, cfg.Auth.AllowRegistration)
	assert.Equal(t, "listing-images", cfg.Storage.Bucket)
	assert.False(t, cfg.Admin.Enabled())
	assert.Equal(t, "Administrador", cfg.Admin.Name)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("DATABASE_PORT", "6543")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("AUTH_ALLOW_REGISTRATION", "true")
	t.Setenv("REDIS_SEARCH_TTL", "30s")
	t.Setenv("UPLOAD_MAX_BYTES", "1048576")
	t.Setenv("ADMIN_EMAIL", "admin@imoveis.test")
	t.Setenv("ADMIN_PASSWORD", "troque-esta-senha")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpirationDuration())
	assert.True(t, cfg.Auth.AllowRegistration)
	assert.Equal(t, 30*time.Second, cfg.Redis.SearchTTL)
	assert.Equal(t, int64(1<<20), cfg.Upload.MaxBytes)
	assert.Contains(t, cfg.Database.ConnectionString(), "host=db.internal port=6543")
	assert.True(t, cfg.Admin.Enabled())
	assert.Equal(t, "admin@imoveis.test", cfg.Admin.Email)
}

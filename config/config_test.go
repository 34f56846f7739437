package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "REDIS_ADDR", "REPORT_CACHE_TTL", "CORS_ORIGINS", "REEVALUATE_CRON", "DB_MAX_CONNS", "DB_MIN_CONNS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Redis.ReportTTL)
	assert.Equal(t, "0 0 3 * * *", cfg.Evaluation.ReevaluateCron)
	assert.False(t, cfg.PersistenceEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DSN", "postgres://localhost/archsim")
	t.Setenv("REPORT_CACHE_TTL", "30s")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.PersistenceEnabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.ReportTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	assert.Equal(t, 0, cfg.Redis.DB, "invalid ints fall back to the default")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "8080"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Database: DatabaseConfig{MaxConns: 4, MinConns: 2},
	}
	require.NoError(t, cfg.Validate())

	cfg.Database.MinConns = 8
	assert.ErrorContains(t, cfg.Validate(), "DB_MIN_CONNS")

	cfg.Database.MinConns = 0
	cfg.Server.RateLimitRPS = -1
	assert.Error(t, cfg.Validate())
}

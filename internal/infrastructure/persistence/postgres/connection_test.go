package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfigAppliesSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "db.internal"
	cfg.Password = "secret"
	cfg.MaxConns = 25
	cfg.MinConns = 5
	cfg.MaxConnLifetime = 2 * time.Hour
	cfg.MaxConnIdleTime = 10 * time.Minute

	poolCfg, err := cfg.PoolConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", poolCfg.ConnConfig.Host)
	assert.Equal(t, uint16(5432), poolCfg.ConnConfig.Port)
	assert.Equal(t, "courtpulse", poolCfg.ConnConfig.Database)
	assert.Equal(t, int32(25), poolCfg.MaxConns)
	assert.Equal(t, int32(5), poolCfg.MinConns)
	assert.Equal(t, 2*time.Hour, poolCfg.MaxConnLifetime)
	assert.Equal(t, 10*time.Minute, poolCfg.MaxConnIdleTime)
	assert.Equal(t, time.Minute, poolCfg.HealthCheckPeriod)
}

func TestConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "localhost"
	cfg.Password = "pw"

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=courtpulse")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "connect_timeout=10")
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.False(t, IsNoRows(errors.New("boom")))
	assert.False(t, IsNoRows(nil))
}

func TestIsTransientContention(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		assert.True(t, IsTransientContention(&pgconn.PgError{Code: code}), code)
	}
	assert.False(t, IsTransientContention(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsTransientContention(errors.New("boom")))
	assert.False(t, IsTransientContention(nil))
}

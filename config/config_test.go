package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Database.LockTimeout)
	assert.Equal(t, 20, cfg.Order.ListDefaultLimit)
	assert.Equal(t, 100, cfg.Order.ListMaxLimit)
	assert.False(t, cfg.Order.ExclusivePending)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: sqlite
  dsn: "file:test.db"
order:
  exclusive_pending: true
  list_max_limit: 50
redis:
  cache_ttl: 1m
`)
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_JWT_SECRET", "from-env")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.True(t, cfg.Order.ExclusivePending)
	assert.Equal(t, 50, cfg.Order.ListMaxLimit)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown driver", "database:\n  driver: oracle\n"},
		{"sqlite without dsn", "database:\n  driver: sqlite\n"},
		{"bad limits", "order:\n  list_default_limit: 200\n  list_max_limit: 100\n"},
		{"bad port", "server:\n  port: 70000\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Name: "market",
		SSLMode: "disable", LockTimeout: 3 * time.Second,
	}
	assert.Contains(t, db.PostgresDSN(), "lock_timeout=3000")
	assert.Contains(t, db.PostgresDSN(), "dbname=market")

	db.Port = 3306
	assert.Equal(t, "u:p@tcp(db:3306)/market?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true&innodb_lock_wait_timeout=3", db.MySQLDSN())

	db.LockTimeout = 0
	assert.Equal(t, "u:p@tcp(db:3306)/market?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", db.MySQLDSN())
}

func TestMySQLDSNParses(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 3306, User: "u", Password: "p", Name: "market", LockTimeout: 2 * time.Second}
	parsed, err := mysql.ParseDSN(db.MySQLDSN())
	require.NoError(t, err)
	assert.True(t, parsed.ClientFoundRows)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, "2", parsed.Params["innodb_lock_wait_timeout"])
}

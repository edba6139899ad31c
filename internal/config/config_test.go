package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, envFrom(map[string]string{
		"PORT":             "8080",
		"DB_DRIVER":        "postgres",
		"RATE_LIMIT_RPS":   "2.5",
		"RATE_LIMIT_BURST": "4",
		"SHUTDOWN_TIMEOUT": "10s",
		"LOG_LEVEL":        "",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 4, cfg.RateLimitBurst)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestApplyEnvRejectsMalformedNumbers(t *testing.T) {
	cfg := Default()
	assert.Error(t, applyEnv(&cfg, envFrom(map[string]string{"RATE_LIMIT_RPS": "fast"})))
	assert.Error(t, applyEnv(&cfg, envFrom(map[string]string{"RATE_LIMIT_BURST": "1.5"})))
	assert.Error(t, applyEnv(&cfg, envFrom(map[string]string{"SHUTDOWN_TIMEOUT": "5"})))
}

func TestMergeYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thermocalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
db_driver: postgres
database_url: postgres://db/thermo
rate_limit_burst: 20
shutdown_timeout: 2s
`), 0600))

	cfg := Default()
	require.NoError(t, mergeYAML(&cfg, path))
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "postgres://db/thermo", cfg.DatabaseURL)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	// untouched keys keep their defaults
	assert.Equal(t, "./static", cfg.StaticDir)

	assert.Error(t, mergeYAML(&cfg, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestLoadReadsConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thermocalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\nlog_level: debug\n"), 0600))
	t.Setenv("THERMOCALC_CONFIG", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.DatabaseDriver = "mysql"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.RateLimitBurst = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.TLSCert = "server.crt"
	assert.Error(t, bad.Validate())
	bad.TLSKey = "server.key"
	assert.NoError(t, bad.Validate())
	assert.True(t, bad.TLS())
}

func TestWithSSLMode(t *testing.T) {
	assert.Equal(t, "postgres://db/thermo?sslmode=require", withSSLMode("postgres://db/thermo"))
	assert.Equal(t, "postgres://db/thermo?x=1&sslmode=require", withSSLMode("postgres://db/thermo?x=1"))
	assert.Equal(t, "user=a dbname=b sslmode=require", withSSLMode("user=a dbname=b"))
	assert.Equal(t, "postgres://db/thermo?sslmode=disable", withSSLMode("postgres://db/thermo?sslmode=disable"))
	assert.Contains(t, withSSLMode(""), "sslmode=disable")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn", "json")
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("dropped")
	log.Warn().Str("component", "test").Msg("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"component":"test"`)

	assert.Equal(t, zerolog.InfoLevel, newLogger(&buf, "loud", "console").GetLevel())
}

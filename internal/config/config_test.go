package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUsesDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.True(t, cfg.SMTPEnabled())
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadFileOverlaysYAMLThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("addr: \":9090\"\njwt_secret: from-file\nrefresh_token_ttl: 2h\ncors_origins:\n  - https://file.example\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"https://file.example"}, cfg.CORSOrigins)
}

func TestLoadFileRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestLoadEnvFileIgnoresMissingFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadEnvFileSetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VH_TEST_VALUE=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("VH_TEST_VALUE") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("VH_TEST_VALUE"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "lynkupro", cfg.Mongo.Database)
	assert.Equal(t, time.Minute, cfg.FollowUp.Interval)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  allowedOrigins: ["https://app.lynkupro.com"]
mongo:
  database: crm
auth:
  jwtSecret: from-file
followUp:
  interval: 5m
`), 0o600))

	t.Setenv("LYNKUPRO_CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.lynkupro.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "crm", cfg.Mongo.Database)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.FollowUp.Interval)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")

	t.Setenv("PORT", "eighty")
	_, err := Load()
	assert.ErrorContains(t, err, "PORT")

	t.Setenv("PORT", "")
	t.Setenv("FOLLOW_UP_INTERVAL", "often")
	_, err = Load()
	assert.ErrorContains(t, err, "FOLLOW_UP_INTERVAL")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
}

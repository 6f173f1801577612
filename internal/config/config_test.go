package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "fittrack", cfg.Database.Name)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, DefaultAllowedOrigins, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Reconcile.RequestTimeout)
	assert.Equal(t, 4, cfg.Reconcile.Concurrency)
	assert.False(t, cfg.S3.Enabled)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
database:
  name: fitness_test
jwt:
  secret: from-file
  expiration: 60m
reconcile:
  concurrency: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("RECONCILE_REQUEST_TIMEOUT", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "fitness_test", cfg.Database.Name)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 2, cfg.Reconcile.Concurrency)
	assert.Equal(t, 750*time.Millisecond, cfg.Reconcile.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("FITLOG_API_URL", "http://fit.example/api/")
	t.Setenv("FITLOG_TOKEN", "tok")

	cfg, err := LoadClientConfig(NewClientViper())
	require.NoError(t, err)
	assert.Equal(t, "http://fit.example/api", cfg.APIURL)
	assert.Equal(t, "tok", cfg.Token)
	assert.Empty(t, cfg.UserID)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

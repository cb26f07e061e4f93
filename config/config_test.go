package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
env:
  log:
    level: debug
storage:
  driver: memory
secretKey:
  access: ""
`

func writeConfig(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	t.Chdir(dir)
}

func TestNew_AppliesDefaults(t *testing.T) {
	writeConfig(t, minimalYAML)
	t.Setenv("SECRETKEY_ACCESS", "test-secret")
	t.Setenv("PORT", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.SecretKey.Access)
	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, defaultRequestTimeout, cfg.HTTP.Timeouts.RequestTimeout)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Auth.Workers)
	assert.True(t, cfg.Accounts.UniqueCompany)
	assert.True(t, cfg.Accounts.UniqueSubject)
}

func TestNew_EnvironmentOverridesFile(t *testing.T) {
	writeConfig(t, `
http:
  port: 8080
storage:
  driver: memory
secretKey:
  access: from-file
auth:
  tokenTTL: 1h
accounts:
  uniqueCompany: true
  uniqueSubject: true
`)
	t.Setenv("SECRETKEY_ACCESS", "from-env")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AUTH_TOKENTTL", "30m")
	t.Setenv("ACCOUNTS_UNIQUECOMPANY", "false")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SecretKey.Access)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Accounts.UniqueCompany)
	assert.True(t, cfg.Accounts.UniqueSubject)
}

func TestNew_PortVariable(t *testing.T) {
	writeConfig(t, minimalYAML)
	t.Setenv("SECRETKEY_ACCESS", "test-secret")
	t.Setenv("PORT", "7000")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.HTTP.Port)
}

func TestNew_RequiresSecret(t *testing.T) {
	writeConfig(t, minimalYAML)
	t.Setenv("SECRETKEY_ACCESS", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secretKey.access")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "memory driver needs no postgres block",
			mutate: func(c *Config) { c.Storage.Driver = StorageDriverMemory },
		},
		{
			name:    "postgres driver needs postgres block",
			mutate:  func(c *Config) { c.Storage.Driver = StorageDriverPostgres },
			wantErr: "postgres configuration is required",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Storage.Driver = "mongo" },
			wantErr: "unknown storage driver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SecretKey.Access = "secret"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.yaml not found")
}

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MCP_HTTP_PORT", "API_REST_PORT", "REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_INDEX_NAME",
		"EMBEDDING_MODEL", "EMBEDDING_DIMENSION", "MODEL_RUNNER_BASE_URL", "OPENAI_API_KEY",
		"FLASHCARD_PROVIDER", "FLASHCARD_MODEL", "GEMINI_API_KEY", "CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.RESTPort)
	assert.Equal(t, "9090", cfg.Server.MCPPort)
	assert.Equal(t, 1024, cfg.Embedding.Dimension)
	assert.Equal(t, ProviderOpenAI, cfg.FlashCards.Provider)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  rest_port: "7000"
redis:
  address: "redis:6379"
  index_name: "from_file"
embedding:
  dimension: 384
cache:
  ttl: 30s
log:
  format: json
`)
	clearEnv(t)
	t.Setenv("REDIS_INDEX_NAME", "from_env")
	t.Setenv("CACHE_TTL", "2m")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.RESTPort)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "from_env", cfg.Redis.IndexName)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(c *Config) {}},
		{name: "Zero dimension", mutate: func(c *Config) { c.Embedding.Dimension = 0 }, wantErr: true},
		{name: "Unknown provider", mutate: func(c *Config) { c.FlashCards.Provider = "parrot" }, wantErr: true},
		{name: "Gemini without key", mutate: func(c *Config) { c.FlashCards.Provider = ProviderGemini }, wantErr: true},
		{
			name: "Gemini with key",
			mutate: func(c *Config) {
				c.FlashCards.Provider = ProviderGemini
				c.FlashCards.APIKey = "key"
			},
		},
		{name: "Negative ttl", mutate: func(c *Config) { c.Cache.TTL = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.WithField("component", "test").Debug("hello")

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), `"component":"test"`)

	cfg.Log.Level = "loud"
	assert.Equal(t, logrus.InfoLevel, cfg.NewLogger(&buf).GetLevel())
}

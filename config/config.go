package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"notemind/helpers"
)

// Flash-card providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Server struct {
		MCPPort  string `yaml:"mcp_port"`
		RESTPort string `yaml:"rest_port"`
	} `yaml:"server"`
	Redis struct {
		Address   string `yaml:"address"`
		Password  string `yaml:"password"`
		IndexName string `yaml:"index_name"`
	} `yaml:"redis"`
	Embedding struct {
		Model     string `yaml:"model"`
		Dimension int    `yaml:"dimension"`
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
	} `yaml:"embedding"`
	FlashCards struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"` // gemini only; openai shares the embedding key
	} `yaml:"flash_cards"`
	Cache struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file or variable overrides it.
func Default() *Config {
	var cfg Config
	cfg.Server.MCPPort = "9090"
	cfg.Server.RESTPort = "8080"
	cfg.Redis.Address = "localhost:6379"
	cfg.Redis.IndexName = "notes_idx"
	cfg.Embedding.Model = "ai/mxbai-embed-large"
	cfg.Embedding.Dimension = 1024
	cfg.Embedding.BaseURL = "http://localhost:12434/engines/llama.cpp/v1"
	cfg.FlashCards.Provider = ProviderOpenAI
	cfg.FlashCards.Model = "ai/qwen2.5"
	cfg.Cache.TTL = 5 * time.Minute
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return &cfg
}

// LoadConfig layers defaults, the optional YAML file at path, a .env file and
// environment variables, in that order. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// 3. Override with environment variables if present
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.MCPPort = helpers.GetEnvOrDefault("MCP_HTTP_PORT", c.Server.MCPPort)
	c.Server.RESTPort = helpers.GetEnvOrDefault("API_REST_PORT", c.Server.RESTPort)

	c.Redis.Address = helpers.GetEnvOrDefault("REDIS_ADDRESS", c.Redis.Address)
	c.Redis.Password = helpers.GetEnvOrDefault("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.IndexName = helpers.GetEnvOrDefault("REDIS_INDEX_NAME", c.Redis.IndexName)

	c.Embedding.Model = helpers.GetEnvOrDefault("EMBEDDING_MODEL", c.Embedding.Model)
	c.Embedding.Dimension = helpers.StringToInt(helpers.GetEnvOrDefault("EMBEDDING_DIMENSION", strconv.Itoa(c.Embedding.Dimension)))
	c.Embedding.BaseURL = helpers.GetEnvOrDefault("MODEL_RUNNER_BASE_URL", c.Embedding.BaseURL)
	c.Embedding.APIKey = helpers.GetEnvOrDefault("OPENAI_API_KEY", c.Embedding.APIKey)

	c.FlashCards.Provider = helpers.GetEnvOrDefault("FLASHCARD_PROVIDER", c.FlashCards.Provider)
	c.FlashCards.Model = helpers.GetEnvOrDefault("FLASHCARD_MODEL", c.FlashCards.Model)
	c.FlashCards.APIKey = helpers.GetEnvOrDefault("GEMINI_API_KEY", c.FlashCards.APIKey)

	c.Cache.TTL = helpers.StringToDuration(helpers.GetEnvOrDefault("CACHE_TTL", ""), c.Cache.TTL)

	c.Log.Level = helpers.GetEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = helpers.GetEnvOrDefault("LOG_FORMAT", c.Log.Format)
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}
	switch c.FlashCards.Provider {
	case ProviderOpenAI:
	case ProviderGemini:
		if c.FlashCards.APIKey == "" {
			return errors.New("gemini flash card provider requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unsupported flash card provider: %s", c.FlashCards.Provider)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}

// NewLogger builds the process logger from the log settings. Unknown levels
// fall back to info.
func (c *Config) NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

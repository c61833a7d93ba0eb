package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. GIFTWISE_SERVER_PORT.
	EnvPrefix = "GIFTWISE"
	// ConfigFileEnv names an explicit configuration file.
	ConfigFileEnv = "GIFTWISE_CONFIG_FILE"
	// DotEnvFile is loaded into the process environment when present.
	DotEnvFile = ".env"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load(DotEnvFile)
}

func load(envFile string) (*Config, error) {
	// Variables already present in the environment win over the .env file.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("llm.default_provider", "openai")
	v.SetDefault("llm.timeout_seconds", 15)
	v.SetDefault("llm.prompt_template_path", "")

	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai.temperature", 0.7)
	v.SetDefault("llm.openai.max_tokens", 500)

	v.SetDefault("llm.mistral.model", "mistral-small")
	v.SetDefault("llm.mistral.base_url", "https://api.mistral.ai/v1")
	v.SetDefault("llm.mistral.temperature", 0.7)
	v.SetDefault("llm.mistral.max_tokens", 500)

	v.SetDefault("llm.gemini.model", "gemini-2.0-flash")
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.gemini.temperature", 0.7)
	v.SetDefault("llm.gemini.max_tokens", 500)

	v.SetDefault("offline.credential_prefix", "test")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

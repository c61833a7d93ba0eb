package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm"     validate:"required"`
	Offline OfflineConfig `mapstructure:"offline" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// LLMConfig contains the settings shared by all provider adapters plus one
// section per backend. Credentials are never configured here: every request
// carries its own.
type LLMConfig struct {
	DefaultProvider    string         `mapstructure:"default_provider"     validate:"required,oneof=openai mistral gemini"`
	TimeoutSeconds     int            `mapstructure:"timeout_seconds"      validate:"required,gt=0,lte=300"`
	PromptTemplatePath string         `mapstructure:"prompt_template_path" validate:"omitempty,file"`
	OpenAI             ProviderConfig `mapstructure:"openai"               validate:"required"`
	Mistral            ProviderConfig `mapstructure:"mistral"              validate:"required"`
	Gemini             ProviderConfig `mapstructure:"gemini"               validate:"required"`
}

// Timeout returns the per-call deadline applied by every adapter.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProviderConfig holds the tunables of a single backend.
type ProviderConfig struct {
	Model       string  `mapstructure:"model"       validate:"required"`
	BaseURL     string  `mapstructure:"base_url"    validate:"omitempty,url"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens"  validate:"gt=0"`
}

// OfflineConfig controls the demo branch that answers without any network call.
type OfflineConfig struct {
	// CredentialPrefix marks a credential as a demo credential.
	CredentialPrefix string `mapstructure:"credential_prefix" validate:"required"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"    validate:"required,startswith=/"`
}

// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file, an optional .env file and
// GIFTWISE_-prefixed environment variables. It provides type-safe access to
// server, LLM, offline and metrics settings while keeping configuration
// details separate from business logic.
package config

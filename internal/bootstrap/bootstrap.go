// Package bootstrap assembles the idea service from configuration. The HTTP
// server and the giftctl CLI share it so both route requests identically.
package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/giftwise/internal/config"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/metrics"
	"github.com/phrazzld/giftwise/internal/offline"
	"github.com/phrazzld/giftwise/internal/platform/gemini"
	"github.com/phrazzld/giftwise/internal/platform/mistral"
	"github.com/phrazzld/giftwise/internal/platform/openai"
	"github.com/phrazzld/giftwise/internal/service"
)

// PromptBuilder returns the configured prompt template, or the embedded
// default when no path is set.
func PromptBuilder(cfg config.LLMConfig) (*generation.PromptBuilder, error) {
	if cfg.PromptTemplatePath == "" {
		return generation.DefaultPromptBuilder(), nil
	}
	return generation.LoadPromptBuilder(cfg.PromptTemplatePath)
}

// NewRegistry builds one adapter per provider, each decorated with recorder.
// httpClient may be nil to use http.DefaultClient.
func NewRegistry(
	cfg config.LLMConfig,
	httpClient *http.Client,
	recorder metrics.Recorder,
	logger *slog.Logger,
) (*generation.Registry, error) {
	prompts, err := PromptBuilder(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	openaiAdapter, err := openai.NewAdapter(cfg.OpenAI, cfg.Timeout(), prompts, logger,
		openai.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create openai adapter: %w", err)
	}
	mistralAdapter, err := mistral.NewAdapter(cfg.Mistral, cfg.Timeout(), prompts, logger,
		mistral.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create mistral adapter: %w", err)
	}
	geminiAdapter, err := gemini.NewAdapter(cfg.Gemini, cfg.Timeout(), prompts, logger,
		gemini.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini adapter: %w", err)
	}

	return generation.NewRegistry(
		metrics.Instrument(openaiAdapter, recorder),
		metrics.Instrument(mistralAdapter, recorder),
		metrics.Instrument(geminiAdapter, recorder),
	)
}

// NewIdeaService wires the registry, the offline catalog and the configured
// default provider into an IdeaService.
func NewIdeaService(
	cfg *config.Config,
	httpClient *http.Client,
	recorder metrics.Recorder,
	logger *slog.Logger,
) (service.IdeaService, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	registry, err := NewRegistry(cfg.LLM, httpClient, recorder, logger)
	if err != nil {
		return nil, err
	}

	catalog, err := offline.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load offline catalog: %w", err)
	}
	generator := offline.NewGenerator(catalog, offline.SystemRNG{}, cfg.Offline.CredentialPrefix)

	defaultProvider, err := domain.ParseProviderID(cfg.LLM.DefaultProvider)
	if err != nil {
		return nil, fmt.Errorf("invalid default provider: %w", err)
	}

	return service.NewIdeaService(registry, generator, recorder, logger,
		service.WithDefaultProvider(defaultProvider))
}

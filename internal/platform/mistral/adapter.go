package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/giftwise/internal/config"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/platform/logger"
)

const (
	// DefaultBaseURL is the public Mistral API root.
	DefaultBaseURL = "https://api.mistral.ai/v1"
	// DefaultModel is used when the configuration names none.
	DefaultModel = "mistral-small"

	maxResponseBytes = 1 << 20
)

// Adapter calls the Mistral chat completions endpoint. It holds no per-request
// state and is safe for concurrent use.
type Adapter struct {
	cfg        config.ProviderConfig
	timeout    time.Duration
	prompts    *generation.PromptBuilder
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// NewAdapter creates a Mistral adapter. Empty model and base URL fall back to
// the defaults; a non-positive timeout is a configuration error.
func NewAdapter(
	cfg config.ProviderConfig,
	timeout time.Duration,
	prompts *generation.PromptBuilder,
	logger *slog.Logger,
	opts ...Option,
) (*Adapter, error) {
	if prompts == nil {
		return nil, fmt.Errorf("%w: prompt builder cannot be nil", generation.ErrInvalidConfig)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		cfg:        cfg,
		timeout:    timeout,
		prompts:    prompts,
		httpClient: http.DefaultClient,
		logger:     logger.With("component", "mistral_adapter"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ID implements generation.Adapter.
func (a *Adapter) ID() domain.ProviderID {
	return domain.ProviderMistral
}

// Call implements generation.Adapter.
func (a *Adapter) Call(
	ctx context.Context,
	age int,
	interests, credential string,
) (*domain.IdeaResult, error) {
	log := logger.FromContextOrDefault(ctx, a.logger).With("provider", a.ID(), "model", a.cfg.Model)

	prompt, err := a.prompts.Build(age, interests, generation.FormatArray)
	if err != nil {
		return nil, fmt.Errorf("mistral: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model:       a.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("mistral: failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, generation.TransportError(ctx, a.ID(), err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.DebugContext(ctx, "calling provider", "prompt_length", len(prompt))
	start := a.now()

	resp, err := a.httpClient.Do(req)
	if err != nil {
		pErr := generation.TransportError(ctx, a.ID(), err).ScrubCredential(credential)
		log.WarnContext(ctx, "provider call failed", "kind", pErr.Kind, "error", pErr.Message,
			"duration_ms", a.now().Sub(start).Milliseconds())
		return nil, pErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, generation.TransportError(ctx, a.ID(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		pErr := classifyError(resp.StatusCode, body).ScrubCredential(credential)
		log.WarnContext(ctx, "provider call failed", "status", resp.StatusCode, "kind", pErr.Kind,
			"duration_ms", a.now().Sub(start).Milliseconds())
		return nil, pErr
	}

	result, err := a.parseResponse(body)
	if err != nil {
		log.WarnContext(ctx, "provider response rejected", "status", resp.StatusCode, "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "provider call succeeded", "idea_count", len(result.Ideas),
		"duration_ms", a.now().Sub(start).Milliseconds())
	return result, nil
}

// parseResponse decodes the chat completion envelope and extracts the JSON
// array embedded in the first choice's free-text content.
func (a *Adapter) parseResponse(body []byte) (*domain.IdeaResult, error) {
	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, generation.MalformedError(a.ID(), "response is not a chat completion", err)
	}
	if len(chat.Choices) == 0 {
		return nil, generation.MalformedError(a.ID(), "response contained no choices", nil)
	}

	span, ok := extractArray(chat.Choices[0].Message.Content)
	if !ok {
		return nil, generation.MalformedError(a.ID(), "response contains no JSON array", nil)
	}

	var values []any
	if err := json.Unmarshal([]byte(span), &values); err != nil {
		return nil, generation.MalformedError(a.ID(), "embedded array could not be decoded", err)
	}

	return generation.BuildResult(a.ID(), values, a.now())
}

// extractArray returns the text from the first '[' to the last ']' inclusive.
func extractArray(content string) (string, bool) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return "", false
	}
	return content[start : end+1], true
}

package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/phrazzld/giftwise/internal/config"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/platform/logger"
)

const (
	// DefaultBaseURL is the public OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is used when the configuration names none.
	DefaultModel = "gpt-4o-mini"

	systemPrompt = "You are a gift recommendation assistant. You always reply with valid JSON."

	completionsPath = "chat/completions"
)

// Adapter calls the OpenAI chat completions endpoint through the official SDK.
// It holds no per-request state and is safe for concurrent use.
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

// NewAdapter creates an OpenAI adapter. Empty model and base URL fall back to
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
		logger:     logger.With("component", "openai_adapter"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ID implements generation.Adapter.
func (a *Adapter) ID() domain.ProviderID {
	return domain.ProviderOpenAI
}

// client builds an SDK client bound to one credential. Retries are disabled:
// a failed call is reported once and never repeated.
func (a *Adapter) client(credential string) sdk.Client {
	return sdk.NewClient(
		option.WithAPIKey(credential),
		option.WithBaseURL(a.cfg.BaseURL+"/"),
		option.WithHTTPClient(a.httpClient),
		option.WithMaxRetries(0),
	)
}

func (a *Adapter) params(prompt string) sdk.ChatCompletionNewParams {
	p := sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(a.cfg.Model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(systemPrompt),
			sdk.UserMessage(prompt),
		},
		ResponseFormat: sdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: sdk.Float(float64(a.cfg.Temperature)),
	}
	if a.cfg.MaxTokens > 0 {
		p.MaxTokens = sdk.Int(int64(a.cfg.MaxTokens))
	}
	return p
}

// Call implements generation.Adapter.
func (a *Adapter) Call(
	ctx context.Context,
	age int,
	interests, credential string,
) (*domain.IdeaResult, error) {
	log := logger.FromContextOrDefault(ctx, a.logger).With("provider", a.ID(), "model", a.cfg.Model)

	prompt, err := a.prompts.Build(age, interests, generation.FormatObject)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	log.DebugContext(ctx, "calling provider", "prompt_length", len(prompt))
	start := a.now()

	// The raw body is requested so an unusable completion is reported as
	// malformed rather than as an SDK decode failure.
	client := a.client(credential)
	var body []byte
	if err := client.Post(ctx, completionsPath, a.params(prompt), &body); err != nil {
		pErr := a.classifyCallError(ctx, err).ScrubCredential(credential)
		log.WarnContext(ctx, "provider call failed", "status", pErr.StatusCode, "kind", pErr.Kind,
			"error", pErr.Message, "duration_ms", a.now().Sub(start).Milliseconds())
		return nil, pErr
	}

	result, err := a.parseResponse(body)
	if err != nil {
		log.WarnContext(ctx, "provider response rejected", "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "provider call succeeded", "idea_count", len(result.Ideas),
		"duration_ms", a.now().Sub(start).Milliseconds())
	return result, nil
}

// classifyCallError maps an SDK failure: context errors first, then API errors
// by status and body, then everything else as a transport failure.
func (a *Adapter) classifyCallError(ctx context.Context, err error) *generation.ProviderError {
	if ctx.Err() != nil {
		return generation.TransportError(ctx, a.ID(), err)
	}

	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		pErr := classifyError(apiErr.StatusCode, errorPayload(apiErr))
		pErr.Err = err
		return pErr
	}
	return generation.TransportError(ctx, a.ID(), err)
}

// parseResponse decodes the chat completion, then the JSON object in the first
// choice's content.
func (a *Adapter) parseResponse(body []byte) (*domain.IdeaResult, error) {
	var completion sdk.ChatCompletion
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, generation.MalformedError(a.ID(), "response is not a chat completion", err)
	}
	if len(completion.Choices) == 0 {
		return nil, generation.MalformedError(a.ID(), "response contained no choices", nil)
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return nil, generation.MalformedError(a.ID(), "response content is empty", nil)
	}

	var envelope ideasEnvelope
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, generation.MalformedError(a.ID(), "response content is not a JSON object", err)
	}
	if len(envelope.Ideas) == 0 || string(envelope.Ideas) == "null" {
		return nil, generation.MalformedError(a.ID(), `response has no "ideas" array`, nil)
	}

	var values []any
	if err := json.Unmarshal(envelope.Ideas, &values); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, generation.MalformedError(a.ID(), `"ideas" is not an array`, err)
		}
		return nil, generation.MalformedError(a.ID(), `"ideas" could not be decoded`, err)
	}

	return generation.BuildResult(a.ID(), values, a.now())
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/giftwise/internal/config"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/platform/logger"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "gemini-2.0-flash"

// Adapter calls Gemini's generateContent through the genai client. It holds
// no per-request state and is safe for concurrent use.
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

// WithHTTPClient replaces the HTTP client handed to the genai client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// NewAdapter creates a Gemini adapter. An empty base URL keeps the genai
// client's default endpoint.
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
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		cfg:        cfg,
		timeout:    timeout,
		prompts:    prompts,
		httpClient: http.DefaultClient,
		logger:     logger.With("component", "gemini_adapter"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ID implements generation.Adapter.
func (a *Adapter) ID() domain.ProviderID {
	return domain.ProviderGemini
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
		return nil, fmt.Errorf("gemini: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	clientConfig := &genai.ClientConfig{
		APIKey:     credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: a.httpClient,
	}
	if a.cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: a.cfg.BaseURL + "/"}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, generation.TransportError(ctx, a.ID(), err)
	}

	temperature := a.cfg.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   ideasSchema,
	}

	log.DebugContext(ctx, "calling provider", "prompt_length", len(prompt))
	start := a.now()

	resp, err := client.Models.GenerateContent(ctx, a.cfg.Model, genai.Text(prompt), genConfig)
	if err != nil {
		pErr := a.classifyCallError(ctx, err).ScrubCredential(credential)
		log.WarnContext(ctx, "provider call failed", "status", pErr.StatusCode, "kind", pErr.Kind,
			"duration_ms", a.now().Sub(start).Milliseconds())
		return nil, pErr
	}

	result, err := a.parseResponse(resp)
	if err != nil {
		log.WarnContext(ctx, "provider response rejected", "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "provider call succeeded", "idea_count", len(result.Ideas),
		"duration_ms", a.now().Sub(start).Milliseconds())
	return result, nil
}

func (a *Adapter) classifyCallError(ctx context.Context, err error) *generation.ProviderError {
	if ctx.Err() != nil {
		return generation.TransportError(ctx, a.ID(), err)
	}
	if pErr, ok := classifyAPIError(err); ok {
		return pErr
	}
	return generation.TransportError(ctx, a.ID(), err)
}

// parseResponse joins the text parts of the first candidate and decodes the
// ideas object they hold.
func (a *Adapter) parseResponse(resp *genai.GenerateContentResponse) (*domain.IdeaResult, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, generation.MalformedError(a.ID(), "response contained no candidates", nil)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, generation.MalformedError(a.ID(), "response was blocked by safety filters", nil)
	}
	if candidate.Content == nil {
		return nil, generation.MalformedError(a.ID(), "candidate has no content", nil)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	content := strings.TrimSpace(sb.String())
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
		return nil, generation.MalformedError(a.ID(), `"ideas" is not an array`, err)
	}

	return generation.BuildResult(a.ID(), values, a.now())
}

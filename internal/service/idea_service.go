package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/metrics"
	"github.com/phrazzld/giftwise/internal/platform/logger"
)

// IdeaService routes gift-idea requests.
type IdeaService interface {
	// Generate returns ideas for req from the offline catalog or the selected
	// provider. Provider failures are *generation.ProviderError values.
	Generate(ctx context.Context, req domain.IdeaRequest) (*domain.IdeaResult, error)

	// Providers lists the providers a request may select, in registration order.
	Providers() []domain.ProviderID

	// DefaultProvider is used when a request names no provider.
	DefaultProvider() domain.ProviderID
}

// OfflineGenerator serves demo requests without network access.
type OfflineGenerator interface {
	// Matches reports whether credential selects the offline branch.
	Matches(credential string) bool
	// Generate returns canned ideas labelled for provider.
	Generate(provider domain.ProviderID, age int) (*domain.IdeaResult, error)
}

// ideaServiceImpl implements the IdeaService interface
type ideaServiceImpl struct {
	registry        *generation.Registry
	offline         OfflineGenerator
	recorder        metrics.Recorder
	logger          *slog.Logger
	defaultProvider domain.ProviderID
}

// Option configures an IdeaService.
type Option func(*ideaServiceImpl)

// WithDefaultProvider overrides domain.DefaultProvider for requests that
// name no provider.
func WithDefaultProvider(p domain.ProviderID) Option {
	return func(s *ideaServiceImpl) {
		if p != "" {
			s.defaultProvider = p
		}
	}
}

// NewIdeaService creates a new IdeaService.
// It returns an error if the registry or the offline generator is nil.
func NewIdeaService(
	registry *generation.Registry,
	offline OfflineGenerator,
	recorder metrics.Recorder,
	logger *slog.Logger,
	opts ...Option,
) (IdeaService, error) {
	if registry == nil {
		return nil, &IdeaServiceError{
			Operation: "create_service",
			Message:   "registry cannot be nil",
			Err:       ErrMissingDependency,
		}
	}
	if offline == nil {
		return nil, &IdeaServiceError{
			Operation: "create_service",
			Message:   "offline generator cannot be nil",
			Err:       ErrMissingDependency,
		}
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &ideaServiceImpl{
		registry:        registry,
		offline:         offline,
		recorder:        recorder,
		logger:          logger.With("component", "idea_service"),
		defaultProvider: domain.DefaultProvider,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.defaultProvider.IsKnown() {
		return nil, NewIdeaServiceError("create_service",
			"default provider "+s.defaultProvider.String()+" is not supported", generation.ErrUnknownProvider)
	}
	return s, nil
}

// Generate checks provider membership first, then the offline prefix, then
// dispatches to the registered adapter.
func (s *ideaServiceImpl) Generate(
	ctx context.Context,
	req domain.IdeaRequest,
) (*domain.IdeaResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	provider := req.Provider
	if provider == "" {
		provider = s.defaultProvider
	}

	if !provider.IsKnown() {
		log.Debug("rejecting unknown provider", "provider", provider)
		return nil, generation.NewProviderError(
			generation.KindUnknownProvider, "", 0,
			"provider "+string(provider)+" is not supported", nil,
		)
	}

	if s.offline.Matches(req.Credential) {
		result, err := s.offline.Generate(provider, req.Age)
		if err != nil {
			return nil, NewIdeaServiceError("offline", "failed to build offline ideas", err)
		}
		s.recorder.ObserveOffline(provider.String())
		log.Debug("served offline ideas", "provider", provider, "idea_count", len(result.Ideas))
		return result, nil
	}

	adapter, ok := s.registry.Lookup(provider)
	if !ok {
		log.Warn("no adapter registered for provider", "provider", provider)
		return nil, generation.NewProviderError(
			generation.KindUnknownProvider, provider, 0,
			"no adapter is registered for this provider", nil,
		)
	}

	log.Debug("dispatching to provider", "provider", provider, "age", req.Age)
	return adapter.Call(ctx, req.Age, req.Interests, req.Credential)
}

// Providers implements IdeaService.
func (s *ideaServiceImpl) Providers() []domain.ProviderID {
	return s.registry.Providers()
}

// DefaultProvider implements IdeaService.
func (s *ideaServiceImpl) DefaultProvider() domain.ProviderID {
	return s.defaultProvider
}

package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
)

// AdapterCall records the arguments of one MockAdapter.Call invocation.
// The credential is kept so tests can assert it was forwarded unchanged.
type AdapterCall struct {
	Ctx        context.Context
	Age        int
	Interests  string
	Credential string
}

// MockAdapter implements generation.Adapter for testing
type MockAdapter struct {
	// Provider is returned by ID.
	Provider domain.ProviderID

	// CallFn allows test cases to mock the Call behavior
	CallFn func(ctx context.Context, age int, interests, credential string) (*domain.IdeaResult, error)

	// Default response values
	Result *domain.IdeaResult
	Err    error

	mu    sync.Mutex
	calls []AdapterCall
}

// ID implements the generation.Adapter interface
func (m *MockAdapter) ID() domain.ProviderID {
	return m.Provider
}

// Call implements the generation.Adapter interface
func (m *MockAdapter) Call(
	ctx context.Context,
	age int,
	interests, credential string,
) (*domain.IdeaResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, AdapterCall{Ctx: ctx, Age: age, Interests: interests, Credential: credential})
	m.mu.Unlock()

	if m.CallFn != nil {
		return m.CallFn(ctx, age, interests, credential)
	}

	return m.Result, m.Err
}

// CallCount returns how many times Call was invoked.
func (m *MockAdapter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded invocations.
func (m *MockAdapter) Calls() []AdapterCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AdapterCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset resets the call tracking state
func (m *MockAdapter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// NewMockAdapterWithIdeas creates a MockAdapter that succeeds with ideas,
// labelled with its own provider id.
func NewMockAdapterWithIdeas(provider domain.ProviderID, ideas ...string) *MockAdapter {
	return &MockAdapter{
		Provider: provider,
		Result: &domain.IdeaResult{
			Ideas:       ideas,
			Provider:    provider.String(),
			GeneratedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

// NewMockAdapterWithError creates a MockAdapter that always fails with err.
func NewMockAdapterWithError(provider domain.ProviderID, err error) *MockAdapter {
	return &MockAdapter{
		Provider: provider,
		Err:      err,
	}
}

// NewMockAdapterWithKind creates a MockAdapter failing with a ProviderError of kind.
func NewMockAdapterWithKind(provider domain.ProviderID, kind generation.ErrorKind, status int) *MockAdapter {
	return NewMockAdapterWithError(
		provider,
		generation.NewProviderError(kind, provider, status, "mock failure", nil),
	)
}

// RecordedCall is one observation captured by MockRecorder.
type RecordedCall struct {
	Provider string
	Outcome  string
	Duration time.Duration
}

// MockRecorder implements metrics.Recorder and captures every observation.
type MockRecorder struct {
	mu      sync.Mutex
	calls   []RecordedCall
	offline []string
}

func (r *MockRecorder) ObserveProviderCall(provider string, outcome string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, RecordedCall{Provider: provider, Outcome: outcome, Duration: duration})
}

func (r *MockRecorder) ObserveOffline(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offline = append(r.offline, provider)
}

// ProviderCalls returns a copy of the recorded provider calls.
func (r *MockRecorder) ProviderCalls() []RecordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// OfflineCalls returns a copy of the providers recorded by ObserveOffline.
func (r *MockRecorder) OfflineCalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.offline))
	copy(out, r.offline)
	return out
}

// Package mocks provides hand-written test doubles shared across packages.
//
// MockAdapter implements generation.Adapter with a canned result, a canned
// error, or a CallFn override, and records every call it receives.
// MockRecorder implements metrics.Recorder and keeps every observation.
//
//	adapter := mocks.NewMockAdapterWithIdeas(domain.ProviderOpenAI, "Book", "Mug")
//	registry, _ := generation.NewRegistry(adapter)
//	// ... exercise the code under test ...
//	assert.Equal(t, 1, adapter.CallCount())
package mocks

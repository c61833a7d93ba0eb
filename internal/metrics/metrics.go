// Package metrics records provider call outcomes. The Recorder interface keeps
// the rest of the service independent of the metrics backend.
package metrics

import "time"

// Outcome label values besides the generation.ErrorKind strings.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder defines the metric hooks used by the idea router and adapters.
type Recorder interface {
	// ObserveProviderCall records one completed adapter call.
	ObserveProviderCall(provider string, outcome string, duration time.Duration)
	// ObserveOffline records one request answered by the offline branch.
	ObserveOffline(provider string)
}

// NoopRecorder discards everything. Used when metrics are disabled and in tests.
type NoopRecorder struct{}

func (NoopRecorder) ObserveProviderCall(string, string, time.Duration) {}
func (NoopRecorder) ObserveOffline(string)                             {}

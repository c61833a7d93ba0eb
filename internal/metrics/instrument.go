package metrics

import (
	"context"
	"time"

	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
)

// instrumented wraps an adapter and reports every call to a Recorder.
// Results and errors pass through untouched.
type instrumented struct {
	next     generation.Adapter
	recorder Recorder
	now      func() time.Time
}

// Instrument decorates adapter with call metrics. A nil recorder returns the
// adapter unchanged.
func Instrument(adapter generation.Adapter, recorder Recorder) generation.Adapter {
	if recorder == nil {
		return adapter
	}
	return &instrumented{next: adapter, recorder: recorder, now: time.Now}
}

func (a *instrumented) ID() domain.ProviderID {
	return a.next.ID()
}

func (a *instrumented) Call(
	ctx context.Context,
	age int,
	interests, credential string,
) (*domain.IdeaResult, error) {
	start := a.now()
	result, err := a.next.Call(ctx, age, interests, credential)
	a.recorder.ObserveProviderCall(a.next.ID().String(), outcomeOf(err), a.now().Sub(start))
	return result, err
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if kind, ok := generation.KindOf(err); ok {
		return string(kind)
	}
	return OutcomeError
}

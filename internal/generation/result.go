package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/redact"
)

// BuildResult validates decoded ideas and builds the canonical result labelled
// with provider. Non-string entries are dropped; an empty list after trimming
// is a MalformedResponse, never an empty success.
func BuildResult(provider domain.ProviderID, values []any, at time.Time) (*domain.IdeaResult, error) {
	ideas := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ideas = append(ideas, s)
		}
	}

	result, err := domain.NewIdeaResult(ideas, provider.String(), at)
	if err != nil {
		return nil, NewProviderError(
			KindMalformedResponse, provider, 0,
			fmt.Sprintf("response contained no usable ideas (%d entries)", len(values)), err,
		)
	}
	return result, nil
}

// MalformedError reports a response that could not be decoded.
func MalformedError(provider domain.ProviderID, message string, cause error) *ProviderError {
	return NewProviderError(KindMalformedResponse, provider, 0, message, cause)
}

// TransportError classifies a failed round trip. Cancellation and deadlines of
// ctx win over the transport error so callers can match context.Canceled or
// context.DeadlineExceeded with errors.Is.
func TransportError(ctx context.Context, provider domain.ProviderID, err error) *ProviderError {
	cause := err
	if ctxErr := ctx.Err(); ctxErr != nil {
		cause = ctxErr
	}

	switch {
	case errors.Is(cause, context.DeadlineExceeded):
		return NewProviderError(KindTransportFailure, provider, 0, "request timed out", cause)
	case errors.Is(cause, context.Canceled):
		return NewProviderError(KindTransportFailure, provider, 0, "request cancelled", cause)
	default:
		return NewProviderError(KindTransportFailure, provider, 0, redact.Error(err), err)
	}
}

package generation

import (
	"context"

	"github.com/phrazzld/giftwise/internal/domain"
)

// Adapter translates between the canonical request/result model and one
// provider's wire contract.
type Adapter interface {
	// ID returns the provider this adapter talks to.
	ID() domain.ProviderID

	// Call asks the provider for gift ideas for a recipient of the given age
	// and interests, authenticating with credential.
	//
	// On failure the returned error is always a *ProviderError. Implementations
	// must not retry, must honor ctx cancellation, and must never log or retain
	// the credential.
	Call(ctx context.Context, age int, interests, credential string) (*domain.IdeaResult, error)
}

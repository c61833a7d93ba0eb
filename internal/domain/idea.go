package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxAge is the oldest recipient age accepted.
	MaxAge = 150

	// MaxInterestsLength bounds the interest text, in runes.
	MaxInterestsLength = 500

	// RequestedIdeas is how many ideas every prompt asks a backend for.
	RequestedIdeas = 5

	// MaxIdeas caps the number of ideas in any IdeaResult.
	MaxIdeas = 10
)

// IdeaRequest describes a gift recipient and the backend to ask.
// It is passed by value and lives for a single request.
type IdeaRequest struct {
	Age        int
	Interests  string
	Credential string
	Provider   ProviderID
}

// NewIdeaRequest validates raw input and builds an IdeaRequest.
// Interest text and credential are trimmed; an empty provider selects DefaultProvider.
func NewIdeaRequest(age int, interests, credential, provider string) (IdeaRequest, error) {
	if age < 1 || age > MaxAge {
		return IdeaRequest{}, NewValidationError("age", "must be between 1 and 150", ErrInvalidAge)
	}

	interests = strings.TrimSpace(interests)
	if interests == "" {
		return IdeaRequest{}, NewValidationError("interests", "cannot be empty", ErrEmptyInterests)
	}
	if utf8.RuneCountInString(interests) > MaxInterestsLength {
		return IdeaRequest{}, NewValidationError("interests",
			fmt.Sprintf("must be at most %d characters", MaxInterestsLength), ErrInterestsTooLong)
	}

	credential = strings.TrimSpace(credential)
	if credential == "" {
		return IdeaRequest{}, NewValidationError("credential", "cannot be empty", ErrEmptyCredential)
	}

	p, err := ParseProviderID(provider)
	if err != nil {
		return IdeaRequest{}, err
	}

	return IdeaRequest{
		Age:        age,
		Interests:  interests,
		Credential: credential,
		Provider:   p,
	}, nil
}

// String omits the credential so requests can be logged safely.
func (r IdeaRequest) String() string {
	return fmt.Sprintf("IdeaRequest{age=%d provider=%s interests_len=%d}",
		r.Age, r.Provider, utf8.RuneCountInString(r.Interests))
}

// GoString keeps %#v from printing the credential.
func (r IdeaRequest) GoString() string {
	return r.String()
}

// IdeaResult is the canonical, provider-independent list of gift ideas.
type IdeaResult struct {
	Ideas       []string
	Provider    string
	GeneratedAt time.Time
}

// NewIdeaResult normalizes raw ideas into an IdeaResult: every entry is trimmed,
// blank entries are dropped, and the list is capped at MaxIdeas.
// Returns ErrNoIdeas when nothing usable remains.
func NewIdeaResult(raw []string, provider string, generatedAt time.Time) (*IdeaResult, error) {
	ideas := make([]string, 0, min(len(raw), MaxIdeas))
	for _, idea := range raw {
		idea = strings.TrimSpace(idea)
		if idea == "" {
			continue
		}
		ideas = append(ideas, idea)
		if len(ideas) == MaxIdeas {
			break
		}
	}

	if len(ideas) == 0 {
		return nil, ErrNoIdeas
	}

	return &IdeaResult{
		Ideas:       ideas,
		Provider:    provider,
		GeneratedAt: generatedAt.UTC(),
	}, nil
}

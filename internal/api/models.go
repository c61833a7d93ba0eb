package api

import (
	"strings"
	"time"

	"github.com/phrazzld/giftwise/internal/domain"
)

// IdeaRequest defines the payload for the gift idea endpoint.
type IdeaRequest struct {
	Age      int    `json:"age"      validate:"required,gte=1,lte=150"`
	Tastes   string `json:"tastes"   validate:"required,min=3,max=500"`
	APIKey   string `json:"apiKey"   validate:"required,min=4"`
	Provider string `json:"provider"`
}

// normalize trims free-text fields so length rules apply to the content.
func (r *IdeaRequest) normalize() {
	r.Tastes = strings.TrimSpace(r.Tastes)
	r.APIKey = strings.TrimSpace(r.APIKey)
	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
}

// IdeaResponse defines the successful response of the gift idea endpoint.
type IdeaResponse struct {
	Ideas     []string `json:"ideas"`
	Provider  string   `json:"provider"`
	Timestamp string   `json:"timestamp"`
}

// ProvidersResponse lists the providers a request may select.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
	Default   string   `json:"default"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

func ideaToResponse(result *domain.IdeaResult) IdeaResponse {
	return IdeaResponse{
		Ideas:     result.Ideas,
		Provider:  result.Provider,
		Timestamp: result.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

package mistral

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/redact"
)

const (
	msgInvalidCredential = "the API key was rejected by Mistral"
	msgQuotaExceeded     = "the Mistral workspace has exhausted its quota or capacity; check billing"
	msgRateLimited       = "Mistral rate limit reached; retry later"
	msgForbidden         = "the API key is not allowed to use this model"

	maxMessageLength = 500
)

var (
	quotaSignals     = []string{"quota", "capacity", "billing", "insufficient", "payment"}
	rateLimitSignals = []string{"rate limit", "rate_limit", "ratelimit", "too many requests", "requests per"}
)

// classifyError maps a Mistral non-2xx response to the provider error taxonomy.
// Mistral does not tag 429s with a machine-readable reason, so the sub-reason
// is read from the message text.
func classifyError(status int, body []byte) *generation.ProviderError {
	message := parseErrorBody(body)
	lower := strings.ToLower(message)

	switch status {
	case http.StatusUnauthorized:
		return generation.NewProviderError(generation.KindInvalidCredential, domain.ProviderMistral, status,
			msgInvalidCredential, nil)

	case http.StatusForbidden:
		return generation.NewProviderError(generation.KindForbidden, domain.ProviderMistral, status,
			orDefault(message, msgForbidden), nil)

	case http.StatusTooManyRequests:
		switch {
		case containsAny(lower, quotaSignals):
			return generation.NewProviderError(generation.KindQuotaExceeded, domain.ProviderMistral, status,
				msgQuotaExceeded, nil)
		case containsAny(lower, rateLimitSignals):
			return generation.NewProviderError(generation.KindRateLimited, domain.ProviderMistral, status,
				orDefault(message, msgRateLimited), nil)
		default:
			return generation.NewProviderError(generation.KindRateLimited, domain.ProviderMistral, status,
				msgRateLimited, nil)
		}

	default:
		return generation.NewProviderError(generation.KindTransportFailure, domain.ProviderMistral, status,
			orDefault(message, fmt.Sprintf("unexpected status %d %s", status, http.StatusText(status))), nil)
	}
}

// parseErrorBody returns the redacted human-readable message of body. JSON
// that carries no message yields "" so the caller's default applies.
func parseErrorBody(body []byte) string {
	if !json.Valid(body) {
		return redact.Truncate(redact.String(strings.TrimSpace(string(body))), maxMessageLength)
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	message := textOf(parsed.Message)
	if message == "" {
		message = textOf(parsed.Detail)
	}
	if message == "" {
		message = parsed.Type
	}
	return redact.Truncate(redact.String(message), maxMessageLength)
}

// textOf renders a decoded JSON value as text. Validation details arrive as
// arrays or objects and are re-encoded.
func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/redact"
	"google.golang.org/genai"
)

const (
	msgInvalidCredential = "the API key was rejected by Gemini"
	msgQuotaExceeded     = "the Gemini project has exhausted its quota; check the plan and billing details"
	msgRateLimited       = "Gemini rate limit reached; retry later"
	msgForbidden         = "the API key is not allowed to use this model or region"

	reasonAPIKeyInvalid = "API_KEY_INVALID"

	maxMessageLength = 500
)

// classifyError maps a Gemini non-2xx response to the provider error taxonomy.
// A zero status falls back to the code carried in the body.
func classifyError(status int, body []byte) *generation.ProviderError {
	parsed, message := parseErrorBody(body)
	if status == 0 && parsed != nil {
		status = parsed.Code
	}

	switch {
	case status == http.StatusUnauthorized,
		status == http.StatusBadRequest && isInvalidKey(parsed):
		return generation.NewProviderError(generation.KindInvalidCredential, domain.ProviderGemini, status,
			msgInvalidCredential, nil)

	case status == http.StatusForbidden:
		return generation.NewProviderError(generation.KindForbidden, domain.ProviderGemini, status,
			orDefault(message, msgForbidden), nil)

	case status == http.StatusTooManyRequests:
		if isQuotaExhausted(parsed) {
			return generation.NewProviderError(generation.KindQuotaExceeded, domain.ProviderGemini, status,
				msgQuotaExceeded, nil)
		}
		return generation.NewProviderError(generation.KindRateLimited, domain.ProviderGemini, status,
			orDefault(message, msgRateLimited), nil)

	default:
		return generation.NewProviderError(generation.KindTransportFailure, domain.ProviderGemini, status,
			orDefault(message, fmt.Sprintf("unexpected status %d %s", status, http.StatusText(status))), nil)
	}
}

// classifyAPIError classifies an error returned by the genai client. It
// reports false when err carries no API response.
func classifyAPIError(err error) (*generation.ProviderError, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return nil, false
		}
		apiErr = *apiErrPtr
	}

	raw, mErr := json.Marshal(apiErr)
	if mErr != nil {
		raw = []byte(fmt.Sprintf(`{"code":%d}`, apiErr.Code))
	}
	pErr := classifyError(apiErr.Code, []byte(`{"error":`+string(raw)+`}`))
	pErr.Err = err
	return pErr, true
}

func isInvalidKey(e *apiError) bool {
	if e == nil {
		return false
	}
	for _, d := range e.Details {
		if d.Reason == reasonAPIKeyInvalid {
			return true
		}
	}
	return strings.Contains(strings.ToLower(e.Message), "api key not valid")
}

// isQuotaExhausted separates a spent daily or billing quota from a per-minute
// throttle. Quota violations decide when present; otherwise the message does.
func isQuotaExhausted(e *apiError) bool {
	if e == nil {
		return false
	}

	perMinute := false
	for _, d := range e.Details {
		for _, v := range d.Violations {
			id := v.QuotaID + " " + v.QuotaMetric
			switch {
			case strings.Contains(id, "PerDay"):
				return true
			case strings.Contains(id, "PerMinute"):
				perMinute = true
			}
		}
	}
	if perMinute {
		return false
	}

	msg := strings.ToLower(e.Message)
	switch {
	case strings.Contains(msg, "billing"):
		return true
	case strings.Contains(msg, "check quota"):
		// The generic RESOURCE_EXHAUSTED throttle text.
		return false
	default:
		return strings.Contains(msg, "quota")
	}
}

// parseErrorBody decodes the error envelope and returns it with its redacted,
// truncated message. Text that is not JSON is kept as the message; JSON without
// the envelope yields no message so the caller's default applies.
func parseErrorBody(body []byte) (*apiError, string) {
	if !json.Valid(body) {
		return nil, redact.Truncate(redact.String(strings.TrimSpace(string(body))), maxMessageLength)
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == nil {
		return nil, ""
	}
	return parsed.Error, redact.Truncate(redact.String(parsed.Error.Message), maxMessageLength)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

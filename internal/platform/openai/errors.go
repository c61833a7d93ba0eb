package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/redact"
)

const (
	msgInvalidCredential = "the API key was rejected by OpenAI"
	msgQuotaExceeded     = "the OpenAI account has exhausted its quota; check the plan and billing details"
	msgRateLimited       = "OpenAI rate limit reached; retry later"
	msgForbidden         = "the API key is not allowed to use this model or region"

	maxMessageLength  = 500
	maxErrorBodyBytes = 64 << 10
)

// classifyError maps an OpenAI non-2xx response to the provider error taxonomy.
// It is pure: no I/O, no logging.
func classifyError(status int, body []byte) *generation.ProviderError {
	message, errType, code := parseErrorBody(body)

	switch status {
	case http.StatusUnauthorized:
		return generation.NewProviderError(generation.KindInvalidCredential, domain.ProviderOpenAI, status,
			msgInvalidCredential, nil)

	case http.StatusForbidden:
		return generation.NewProviderError(generation.KindForbidden, domain.ProviderOpenAI, status,
			orDefault(message, msgForbidden), nil)

	case http.StatusTooManyRequests:
		switch {
		case errType == "insufficient_quota" || code == "insufficient_quota":
			return generation.NewProviderError(generation.KindQuotaExceeded, domain.ProviderOpenAI, status,
				msgQuotaExceeded, nil)
		case isRateLimitSignal(errType) || isRateLimitSignal(code):
			return generation.NewProviderError(generation.KindRateLimited, domain.ProviderOpenAI, status,
				orDefault(message, msgRateLimited), nil)
		default:
			return generation.NewProviderError(generation.KindRateLimited, domain.ProviderOpenAI, status,
				msgRateLimited, nil)
		}

	default:
		return generation.NewProviderError(generation.KindTransportFailure, domain.ProviderOpenAI, status,
			orDefault(message, fmt.Sprintf("unexpected status %d %s", status, http.StatusText(status))), nil)
	}
}

func isRateLimitSignal(s string) bool {
	switch s {
	case "rate_limit_exceeded", "requests", "tokens":
		return true
	}
	return false
}

// parseErrorBody extracts the redacted message, type and code from body. Text
// that is not JSON is kept as the message; JSON without the envelope yields
// nothing so the caller's default applies.
func parseErrorBody(body []byte) (message, errType, code string) {
	if !json.Valid(body) {
		return redact.Truncate(redact.String(strings.TrimSpace(string(body))), maxMessageLength), "", ""
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == nil {
		return "", "", ""
	}
	if parsed.Error.Code != nil {
		code = fmt.Sprint(parsed.Error.Code)
	}
	return redact.Truncate(redact.String(parsed.Error.Message), maxMessageLength), parsed.Error.Type, code
}

// errorPayload recovers the error body from an SDK API error. The SDK restores
// the response body after reading it; when that is unavailable the decoded JSON
// is used, re-wrapped in the envelope if the SDK unwrapped it.
func errorPayload(apiErr *sdk.Error) []byte {
	if apiErr.Response != nil && apiErr.Response.Body != nil {
		body, err := io.ReadAll(io.LimitReader(apiErr.Response.Body, maxErrorBodyBytes))
		if err == nil && len(bytes.TrimSpace(body)) > 0 {
			return body
		}
	}

	raw := strings.TrimSpace(apiErr.RawJSON())
	if raw == "" {
		return nil
	}
	var parsed errorBody
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil && parsed.Error == nil && strings.HasPrefix(raw, "{") {
		return []byte(`{"error":` + raw + `}`)
	}
	return []byte(raw)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

package openai

import (
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    generation.ErrorKind
		wantMessage string
	}{
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"Incorrect API key provided: sk-proj-****abcd.","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantKind: generation.KindInvalidCredential,
		},
		{
			name:     "unauthorized_without_body",
			status:   http.StatusUnauthorized,
			body:     ``,
			wantKind: generation.KindInvalidCredential,
		},
		{
			name:        "forbidden",
			status:      http.StatusForbidden,
			body:        `{"error":{"message":"Country, region, or territory not supported","type":"request_forbidden","code":"unsupported_country_region_territory"}}`,
			wantKind:    generation.KindForbidden,
			wantMessage: "Country, region, or territory not supported",
		},
		{
			name:     "quota_by_type",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`,
			wantKind: generation.KindQuotaExceeded,
		},
		{
			name:     "quota_by_code_only",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"message":"quota","type":"","code":"insufficient_quota"}}`,
			wantKind: generation.KindQuotaExceeded,
		},
		{
			name:        "rate_limit_exceeded",
			status:      http.StatusTooManyRequests,
			body:        `{"error":{"message":"Rate limit reached for gpt-4o-mini on requests per min (RPM): Limit 3.","type":"requests","code":"rate_limit_exceeded"}}`,
			wantKind:    generation.KindRateLimited,
			wantMessage: "Rate limit reached for gpt-4o-mini on requests per min (RPM): Limit 3.",
		},
		{
			name:        "generic_429",
			status:      http.StatusTooManyRequests,
			body:        `slow down`,
			wantKind:    generation.KindRateLimited,
			wantMessage: msgRateLimited,
		},
		{
			name:        "empty_json_429",
			status:      http.StatusTooManyRequests,
			body:        `{}`,
			wantKind:    generation.KindRateLimited,
			wantMessage: msgRateLimited,
		},
		{
			name:        "json_array_403",
			status:      http.StatusForbidden,
			body:        `[]`,
			wantKind:    generation.KindForbidden,
			wantMessage: msgForbidden,
		},
		{
			name:        "json_without_envelope_500",
			status:      http.StatusInternalServerError,
			body:        `{"foo":1}`,
			wantKind:    generation.KindTransportFailure,
			wantMessage: "unexpected status 500 Internal Server Error",
		},
		{
			name:        "server_error_carries_message",
			status:      http.StatusInternalServerError,
			body:        `{"error":{"message":"The server had an error while processing your request.","type":"server_error","code":null}}`,
			wantKind:    generation.KindTransportFailure,
			wantMessage: "The server had an error while processing your request.",
		},
		{
			name:        "bad_gateway_plain_text",
			status:      http.StatusBadGateway,
			body:        "upstream connect error",
			wantKind:    generation.KindTransportFailure,
			wantMessage: "upstream connect error",
		},
		{
			name:        "empty_body_uses_status_text",
			status:      http.StatusServiceUnavailable,
			body:        "",
			wantKind:    generation.KindTransportFailure,
			wantMessage: "unexpected status 503 Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := classifyError(tt.status, []byte(tt.body))

			assert.Equal(t, tt.wantKind, err.Kind)
			assert.Equal(t, domain.ProviderOpenAI, err.Provider)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.NotContains(t, err.Error(), "sk-proj")
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, err.Message)
			}
		})
	}
}

func TestClassifyError_TruncatesAfterRedaction(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ü", maxMessageLength+20)
	pErr := classifyError(http.StatusInternalServerError,
		[]byte(`{"error":{"message":"`+long+`","type":"server_error"}}`))
	assert.True(t, utf8.ValidString(pErr.Message))
	assert.Equal(t, maxMessageLength, utf8.RuneCountInString(pErr.Message))

	boundary := strings.Repeat("x", maxMessageLength-6) + " sk-proj-abcdefghijklmnop"
	pErr = classifyError(http.StatusInternalServerError,
		[]byte(`{"error":{"message":"`+boundary+`","type":"server_error"}}`))
	assert.NotContains(t, pErr.Message, "sk-p")
}

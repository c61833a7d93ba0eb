package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/giftwise/internal/api/shared"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIdeaService mocks service.IdeaService.
type MockIdeaService struct {
	mock.Mock
}

func (m *MockIdeaService) Generate(ctx context.Context, req domain.IdeaRequest) (*domain.IdeaResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdeaResult), args.Error(1)
}

func (m *MockIdeaService) Providers() []domain.ProviderID {
	args := m.Called()
	return args.Get(0).([]domain.ProviderID)
}

func (m *MockIdeaService) DefaultProvider() domain.ProviderID {
	args := m.Called()
	return args.Get(0).(domain.ProviderID)
}

// newMockIdeaService returns a mock whose default provider is openai.
func newMockIdeaService() *MockIdeaService {
	svc := new(MockIdeaService)
	svc.On("DefaultProvider").Return(domain.ProviderOpenAI).Maybe()
	return svc
}

var fixedTime = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func postIdeas(t *testing.T, h *IdeaHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/ideas", &buf)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(shared.WithTraceID(req.Context(), "trace-123"))
	w := httptest.NewRecorder()
	h.GenerateIdeas(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIdeaHandler_GenerateIdeas_Success(t *testing.T) {
	svc := newMockIdeaService()
	svc.On("Generate", mock.Anything, domain.IdeaRequest{
		Age:        30,
		Interests:  "technology, hiking",
		Credential: "sk-abcdef",
		Provider:   domain.ProviderMistral,
	}).Return(&domain.IdeaResult{
		Ideas:       []string{"Headlamp", "Smartwatch"},
		Provider:    "mistral",
		GeneratedAt: fixedTime,
	}, nil)

	h := NewIdeaHandler(svc, nil)
	w := postIdeas(t, h, map[string]interface{}{
		"age":      30,
		"tastes":   "  technology, hiking  ",
		"apiKey":   " sk-abcdef ",
		"provider": "Mistral",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp IdeaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Headlamp", "Smartwatch"}, resp.Ideas)
	assert.Equal(t, "mistral", resp.Provider)
	assert.Equal(t, "2025-04-01T12:00:00Z", resp.Timestamp)
	svc.AssertExpectations(t)
}

func TestIdeaHandler_GenerateIdeas_DefaultProvider(t *testing.T) {
	svc := newMockIdeaService()
	svc.On("Generate", mock.Anything, mock.MatchedBy(func(req domain.IdeaRequest) bool {
		return req.Provider == domain.ProviderOpenAI
	})).Return(&domain.IdeaResult{Ideas: []string{"Book"}, Provider: "openai (offline)", GeneratedAt: fixedTime}, nil)

	h := NewIdeaHandler(svc, nil)
	w := postIdeas(t, h, map[string]interface{}{"age": 8, "tastes": "dinosaurs", "apiKey": "test-key"})

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestIdeaHandler_GenerateIdeas_ConfiguredDefaultProvider(t *testing.T) {
	svc := new(MockIdeaService)
	svc.On("DefaultProvider").Return(domain.ProviderGemini)
	svc.On("Generate", mock.Anything, mock.MatchedBy(func(req domain.IdeaRequest) bool {
		return req.Provider == domain.ProviderGemini
	})).Return(&domain.IdeaResult{Ideas: []string{"Scarf"}, Provider: "gemini", GeneratedAt: fixedTime}, nil)

	h := NewIdeaHandler(svc, nil)
	w := postIdeas(t, h, map[string]interface{}{"age": 70, "tastes": "knitting", "apiKey": "AIza-key"})

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestIdeaHandler_GenerateIdeas_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        interface{}
		wantStatus  int
		wantKind    string
		wantMessage string
	}{
		{
			name:        "empty_body",
			body:        "",
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindValidation,
			wantMessage: "Request body is required",
		},
		{
			name:        "malformed_json",
			body:        `{"age": "thirty"`,
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindValidation,
			wantMessage: "Invalid request format",
		},
		{
			name:        "age_zero",
			body:        map[string]interface{}{"age": 0, "tastes": "music", "apiKey": "sk-abcd"},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindValidation,
			wantMessage: "Invalid age: required field",
		},
		{
			name:        "age_too_high",
			body:        map[string]interface{}{"age": 151, "tastes": "music", "apiKey": "sk-abcd"},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindValidation,
			wantMessage: "Invalid age: out of range",
		},
		{
			name:        "tastes_too_short_after_trim",
			body:        map[string]interface{}{"age": 30, "tastes": "  ab  ", "apiKey": "sk-abcd"},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindValidation,
			wantMessage: "Invalid tastes: too short",
		},
		{
			name:        "tastes_too_long",
			body:        map[string]interface{}{"age": 30, "tastes": strings.Repeat("a", 501), "apiKey": "sk-abcd"},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindValidation,
			wantMessage: "Invalid tastes: too long",
		},
		{
			name:        "api_key_too_short",
			body:        map[string]interface{}{"age": 30, "tastes": "music", "apiKey": " abc "},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindValidation,
			wantMessage: "Invalid apiKey: too short",
		},
		{
			name:        "unknown_provider",
			body:        map[string]interface{}{"age": 30, "tastes": "music", "apiKey": "sk-abcd", "provider": "claude"},
			wantStatus:  http.StatusBadRequest,
			wantKind:    string(generation.KindUnknownProvider),
			wantMessage: "Unsupported provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockIdeaService()
			h := NewIdeaHandler(svc, nil)

			w := postIdeas(t, h, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.Equal(t, tt.wantMessage, resp.Error)
			assert.Equal(t, "trace-123", resp.TraceID)
			svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestIdeaHandler_GenerateIdeas_ProviderErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   generation.ErrorKind
	}{
		{"invalid_credential", generation.NewProviderError(generation.KindInvalidCredential, domain.ProviderOpenAI, 401, "rejected", nil), http.StatusUnauthorized, generation.KindInvalidCredential},
		{"forbidden", generation.NewProviderError(generation.KindForbidden, domain.ProviderOpenAI, 403, "region", nil), http.StatusForbidden, generation.KindForbidden},
		{"quota", generation.NewProviderError(generation.KindQuotaExceeded, domain.ProviderOpenAI, 429, "quota", nil), http.StatusTooManyRequests, generation.KindQuotaExceeded},
		{"rate_limited", generation.NewProviderError(generation.KindRateLimited, domain.ProviderMistral, 429, "slow down", nil), http.StatusTooManyRequests, generation.KindRateLimited},
		{"malformed", generation.NewProviderError(generation.KindMalformedResponse, domain.ProviderGemini, 0, "garbage", nil), http.StatusUnprocessableEntity, generation.KindMalformedResponse},
		{"unknown_provider", generation.NewProviderError(generation.KindUnknownProvider, "", 0, "nope", nil), http.StatusBadRequest, generation.KindUnknownProvider},
		{"transport", generation.NewProviderError(generation.KindTransportFailure, domain.ProviderOpenAI, 0, "request timed out", context.DeadlineExceeded), http.StatusBadGateway, generation.KindTransportFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockIdeaService()
			svc.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)
			h := NewIdeaHandler(svc, nil)

			w := postIdeas(t, h, map[string]interface{}{"age": 30, "tastes": "music", "apiKey": "sk-abcdef"})

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, string(tt.wantKind), resp.Kind)
			assert.NotEmpty(t, resp.Error)
			assert.NotContains(t, w.Body.String(), "sk-abcdef")
		})
	}
}

func TestIdeaHandler_GenerateIdeas_UnexpectedError(t *testing.T) {
	svc := newMockIdeaService()
	svc.On("Generate", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)
	h := NewIdeaHandler(svc, nil)

	w := postIdeas(t, h, map[string]interface{}{"age": 30, "tastes": "music", "apiKey": "sk-abcdef"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "An unexpected error occurred", resp.Error)
	assert.Empty(t, resp.Kind)
}

func TestIdeaHandler_GenerateIdeas_LogsWithoutCredential(t *testing.T) {
	l, buf := logger.GetTestLogger(t)
	svc := newMockIdeaService()
	svc.On("Generate", mock.Anything, mock.Anything).
		Return(nil, generation.NewProviderError(generation.KindTransportFailure, domain.ProviderOpenAI, 0,
			"dial tcp: connection refused", nil))
	h := NewIdeaHandler(svc, l)

	req := httptest.NewRequest(http.MethodPost, "/api/ideas",
		strings.NewReader(`{"age":30,"tastes":"music","apiKey":"sk-supersecret-credential"}`))
	req = req.WithContext(logger.WithLogger(req.Context(), l))
	w := httptest.NewRecorder()
	h.GenerateIdeas(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	logger.AssertLogContains(t, buf, "API error response")
	logger.AssertLogContains(t, buf, `"level":"ERROR"`)
	logger.AssertLogNotContains(t, buf, "sk-supersecret-credential")
}

func TestIdeaHandler_ListProviders(t *testing.T) {
	svc := newMockIdeaService()
	svc.On("Providers").Return([]domain.ProviderID{domain.ProviderOpenAI, domain.ProviderMistral, domain.ProviderGemini})
	h := NewIdeaHandler(svc, nil)

	w := httptest.NewRecorder()
	h.ListProviders(w, httptest.NewRequest(http.MethodGet, "/api/providers", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp ProvidersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"openai", "mistral", "gemini"}, resp.Providers)
	assert.Equal(t, "openai", resp.Default)
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

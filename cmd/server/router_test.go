package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/giftwise/internal/api"
	"github.com/phrazzld/giftwise/internal/api/shared"
	"github.com/phrazzld/giftwise/internal/config"
	"github.com/phrazzld/giftwise/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(metricsEnabled bool) *config.Config {
	provider := func(model string) config.ProviderConfig {
		// Unroutable base URLs keep the tests off the network.
		return config.ProviderConfig{Model: model, BaseURL: "http://127.0.0.1:1", Temperature: 0.7, MaxTokens: 500}
	}
	return &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "debug"},
		LLM: config.LLMConfig{
			DefaultProvider: "openai",
			TimeoutSeconds:  2,
			OpenAI:          provider("gpt-4o-mini"),
			Mistral:         provider("mistral-small"),
			Gemini:          provider("gemini-2.0-flash"),
		},
		Offline: config.OfflineConfig{CredentialPrefix: "test"},
		Metrics: config.MetricsConfig{Enabled: metricsEnabled, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T, metricsEnabled bool) (*httptest.Server, *logger.TestLogBuffer) {
	t.Helper()

	l, buf := logger.GetTestLogger(t)
	app, err := newApplication(testConfig(metricsEnabled), l)
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv, buf
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRouter_OfflineIdeas(t *testing.T) {
	srv, buf := newTestServer(t, true)

	resp := postJSON(t, srv.URL+"/api/ideas", `{"age":10,"tastes":"space and rockets","apiKey":"test-demo","provider":"gemini"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(shared.TraceIDHeader))

	var body api.IdeaResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "gemini (offline)", body.Provider)
	assert.NotEmpty(t, body.Ideas)
	assert.LessOrEqual(t, len(body.Ideas), 5)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)

	logger.AssertLogContains(t, buf, "request completed")
	logger.AssertLogNotContains(t, buf, "test-demo")
}

func TestRouter_ErrorResponses(t *testing.T) {
	srv, _ := newTestServer(t, false)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantKind   string
	}{
		{"unknown_provider", `{"age":30,"tastes":"music","apiKey":"test-demo","provider":"cohere"}`, http.StatusBadRequest, "unknown_provider"},
		{"invalid_age", `{"age":200,"tastes":"music","apiKey":"test-demo"}`, http.StatusBadRequest, "validation"},
		{"unreachable_provider", `{"age":30,"tastes":"music","apiKey":"sk-live-credential"}`, http.StatusBadGateway, "transport_failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/ideas", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var body shared.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.NotEmpty(t, body.TraceID)
			assert.Equal(t, resp.Header.Get(shared.TraceIDHeader), body.TraceID)
		})
	}
}

func TestRouter_ProvidersAndHealth(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/api/providers")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var providers api.ProvidersResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&providers))
	assert.Equal(t, []string{"openai", "mistral", "gemini"}, providers.Providers)
	assert.Equal(t, "openai", providers.Default)

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = health.Body.Close() }()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		srv, _ := newTestServer(t, true)
		postJSON(t, srv.URL+"/api/ideas", `{"age":40,"tastes":"cooking","apiKey":"test-demo","provider":"mistral"}`)

		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(raw), `giftwise_offline_responses_total{provider="mistral"} 1`)
	})

	t.Run("disabled", func(t *testing.T) {
		srv, _ := newTestServer(t, false)

		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStartHTTPServer_ShutsDownOnCancel(t *testing.T) {
	l, _ := logger.GetTestLogger(t)
	app, err := newApplication(testConfig(false), l)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/phrazzld/giftwise/internal/api"
	"github.com/phrazzld/giftwise/internal/config"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/mocks"
	"github.com/phrazzld/giftwise/internal/offline"
	"github.com/phrazzld/giftwise/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	openai *mocks.MockAdapter
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	env    map[string]string
}

func newFixture(t *testing.T) (*fixture, deps) {
	t.Helper()

	f := &fixture{
		openai: mocks.NewMockAdapterWithIdeas(domain.ProviderOpenAI, "Camera", "Tripod"),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		env:    map[string]string{},
	}
	mistral := mocks.NewMockAdapterWithKind(domain.ProviderMistral, generation.KindQuotaExceeded, 429)

	d := deps{
		loadConfig: func() (*config.Config, error) {
			return &config.Config{
				Server:  config.ServerConfig{Port: 8080, LogLevel: "error"},
				LLM:     config.LLMConfig{DefaultProvider: "openai", TimeoutSeconds: 5},
				Offline: config.OfflineConfig{CredentialPrefix: "test"},
			}, nil
		},
		buildService: func(cfg *config.Config, l *slog.Logger) (service.IdeaService, error) {
			registry, err := generation.NewRegistry(f.openai, mistral)
			if err != nil {
				return nil, err
			}
			catalog, err := offline.DefaultCatalog()
			if err != nil {
				return nil, err
			}
			return service.NewIdeaService(registry,
				offline.NewGenerator(catalog, nil, cfg.Offline.CredentialPrefix), nil, l)
		},
		getenv: func(k string) string { return f.env[k] },
	}
	return f, d
}

func (f *fixture) run(d deps, args ...string) error {
	root := newRootCommand(d)
	root.SetOut(f.stdout)
	root.SetErr(f.stderr)
	root.SetArgs(args)
	return root.Execute()
}

func TestGenerate_PrintsJSON(t *testing.T) {
	f, d := newFixture(t)

	err := f.run(d, "generate", "--age", "30", "--tastes", "photography", "--api-key", "sk-live-key")

	require.NoError(t, err)
	var resp api.IdeaResponse
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &resp))
	assert.Equal(t, []string{"Camera", "Tripod"}, resp.Ideas)
	assert.Equal(t, "openai", resp.Provider)
	require.Equal(t, 1, f.openai.CallCount())
	assert.Equal(t, "sk-live-key", f.openai.Calls()[0].Credential)
}

func TestGenerate_APIKeyFromEnv(t *testing.T) {
	f, d := newFixture(t)
	f.env[APIKeyEnv] = "test-from-env"

	err := f.run(d, "generate", "--age", "12", "--tastes", "lego", "--provider", "mistral")

	require.NoError(t, err)
	var resp api.IdeaResponse
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &resp))
	assert.Equal(t, "mistral (offline)", resp.Provider)
	assert.Equal(t, 0, f.openai.CallCount())
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		isErr   error
	}{
		{"missing_key", []string{"generate", "--age", "30", "--tastes", "music"}, "credential", domain.ErrEmptyCredential},
		{"invalid_age", []string{"generate", "--age", "0", "--tastes", "music", "--api-key", "sk-x"}, "age", domain.ErrInvalidAge},
		{"unknown_provider", []string{"generate", "--age", "30", "--tastes", "music", "--api-key", "sk-x", "--provider", "cohere"}, "unknown provider", domain.ErrUnknownProvider},
		{"provider_failure", []string{"generate", "--age", "30", "--tastes", "music", "--api-key", "sk-x", "--provider", "mistral"}, "quota_exceeded", nil},
		{"missing_required_flag", []string{"generate", "--age", "30"}, "tastes", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, d := newFixture(t)

			err := f.run(d, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.isErr != nil {
				assert.ErrorIs(t, err, tt.isErr)
			}
			assert.Empty(t, f.stdout.String())
		})
	}
}

func TestGenerate_ConfigError(t *testing.T) {
	f, d := newFixture(t)
	d.loadConfig = func() (*config.Config, error) { return nil, errors.New("bad config") }

	err := f.run(d, "generate", "--age", "30", "--tastes", "music", "--api-key", "sk-x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestProviders(t *testing.T) {
	f, d := newFixture(t)

	require.NoError(t, f.run(d, "providers"))

	assert.Equal(t, "* openai\n  mistral\n", f.stdout.String())
}

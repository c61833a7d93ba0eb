package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/phrazzld/giftwise/internal/api"
	"github.com/phrazzld/giftwise/internal/bootstrap"
	"github.com/phrazzld/giftwise/internal/config"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
	"github.com/phrazzld/giftwise/internal/metrics"
	"github.com/phrazzld/giftwise/internal/platform/logger"
	"github.com/phrazzld/giftwise/internal/service"
	"github.com/spf13/cobra"
)

// APIKeyEnv supplies the credential when --api-key is omitted.
const APIKeyEnv = "GIFTWISE_API_KEY"

// deps lets tests replace configuration loading and service construction.
type deps struct {
	loadConfig   func() (*config.Config, error)
	buildService func(cfg *config.Config, logger *slog.Logger) (service.IdeaService, error)
	getenv       func(string) string
}

func defaultDeps() deps {
	return deps{
		loadConfig: config.Load,
		buildService: func(cfg *config.Config, logger *slog.Logger) (service.IdeaService, error) {
			return bootstrap.NewIdeaService(cfg, nil, metrics.NoopRecorder{}, logger)
		},
		getenv: os.Getenv,
	}
}

func newRootCommand(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "giftctl",
		Short:         "Ask an LLM provider for gift ideas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate gift ideas for a recipient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, d)
		},
	}
	generateCmd.Flags().Int("age", 0, "recipient age (1-150)")
	generateCmd.Flags().String("tastes", "", "recipient interests")
	generateCmd.Flags().String("provider", "", "provider id (openai, mistral, gemini); defaults to the configured provider")
	generateCmd.Flags().String("api-key", "", "provider API key (or set "+APIKeyEnv+")")
	_ = generateCmd.MarkFlagRequired("age")
	_ = generateCmd.MarkFlagRequired("tastes")

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "List the supported providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProviders(cmd, d)
		},
	}

	root.AddCommand(generateCmd, providersCmd)
	return root
}

func setup(cmd *cobra.Command, d deps) (service.IdeaService, error) {
	cfg, err := d.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.SetupWithWriter(cfg.Server, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return d.buildService(cfg, l)
}

func runGenerate(cmd *cobra.Command, d deps) error {
	age, _ := cmd.Flags().GetInt("age")
	tastes, _ := cmd.Flags().GetString("tastes")
	provider, _ := cmd.Flags().GetString("provider")
	apiKey, _ := cmd.Flags().GetString("api-key")
	if strings.TrimSpace(apiKey) == "" {
		apiKey = d.getenv(APIKeyEnv)
	}

	svc, err := setup(cmd, d)
	if err != nil {
		return err
	}
	if strings.TrimSpace(provider) == "" {
		provider = svc.DefaultProvider().String()
	}

	req, err := domain.NewIdeaRequest(age, tastes, apiKey, provider)
	if err != nil {
		return err
	}

	result, err := svc.Generate(cmd.Context(), req)
	if err != nil {
		var pErr *generation.ProviderError
		if errors.As(err, &pErr) {
			return fmt.Errorf("%s: %s", pErr.Kind, pErr.Message)
		}
		return err
	}

	return writeJSON(cmd.OutOrStdout(), api.IdeaResponse{
		Ideas:     result.Ideas,
		Provider:  result.Provider,
		Timestamp: result.GeneratedAt.UTC().Format(time.RFC3339),
	})
}

func runProviders(cmd *cobra.Command, d deps) error {
	svc, err := setup(cmd, d)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	def := svc.DefaultProvider()
	for _, p := range svc.Providers() {
		marker := " "
		if p == def {
			marker = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", marker, p); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

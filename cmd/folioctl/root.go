package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/backend"
	"finitefield.org/folio-web/internal/config"
	"finitefield.org/folio-web/internal/observability"
)

type rootOptions struct {
	apiURL  string
	verbose bool
}

// env is what every subcommand needs once flags are parsed.
type env struct {
	cfg    config.Config
	client *backend.Client
	log    *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "folioctl",
		Short: "Browse the portfolio lists from a terminal",
		Long: `folioctl pages through projects, experience, certifications, achievements
and publications using the same list controller as the web frontend.

With FOLIO_API_URL unset (and no --api-url) it serves built-in fixture data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "backend API root (overrides FOLIO_API_URL)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log backend calls to stderr")

	root.AddCommand(newListCmd(opts))
	root.AddCommand(newWalkCmd(opts))
	return root
}

func (o *rootOptions) load() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.apiURL != "" {
		cfg.API.URL = o.apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	logger := zap.NewNop()
	if o.verbose {
		if logger, err = observability.NewLogger("debug"); err != nil {
			return nil, err
		}
	}
	client := backend.NewClient(backend.Options{
		BaseURL:  cfg.API.URL,
		Timeout:  cfg.API.Timeout,
		RetryMax: cfg.API.RetryMax,
		Logger:   logger,
	})
	return &env{cfg: cfg, client: client, log: logger}, nil
}

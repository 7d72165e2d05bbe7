package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wonderland.co.zw/panels-web/internal/config"
	"wonderland.co.zw/panels-web/internal/observability"
	"wonderland.co.zw/panels-web/internal/secrets"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "web",
		Short: "Wonderland Panelbeaters website",
		Long: `Serves the Wonderland Panelbeaters marketing site.

Running without a subcommand is the same as "web serve".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file consulted after the process environment")

	root.AddCommand(
		newServeCmd(opts),
		newRoutesCmd(),
		newCheckCmd(),
	)
	return root
}

// bootstrap loads the configuration, resolving sm:// references through
// Secret Manager or the local fallback file, and builds the logger at the
// configured level.
func bootstrap(ctx context.Context, opts *rootOptions) (config.Config, *zap.Logger, error) {
	boot, err := observability.NewLogger("info")
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}

	resolver := secrets.NewResolver(ctx,
		secrets.WithProject(os.Getenv("GOOGLE_CLOUD_PROJECT")),
		secrets.WithLogger(boot.Named("secrets")),
	)
	defer func() {
		if err := resolver.Close(); err != nil {
			boot.Warn("secret resolver close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithEnvFile(opts.envFile),
		config.WithSecretResolver(resolver),
	)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	_ = boot.Sync()

	logger, err := observability.NewLogger(cfg.Telemetry.LogLevel, observability.Console(cfg.Site.DevMode))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger.Named("web").With(zap.String("env", cfg.Environment)), nil
}

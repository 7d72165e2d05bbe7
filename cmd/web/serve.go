package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wonderland.co.zw/panels-web/internal/delivery"
	"wonderland.co.zw/panels-web/internal/httpserver"
	"wonderland.co.zw/panels-web/internal/observability"
)

// contentDebounce coalesces the burst of events an editor save produces.
const contentDebounce = 250 * time.Millisecond

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	var metrics *observability.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	gateway, closeGateway, err := delivery.FromConfig(ctx, cfg, logger.Named("delivery"))
	if err != nil {
		return err
	}
	defer func() {
		if err := closeGateway(); err != nil {
			logger.Warn("contact gateway close error", zap.Error(err))
		}
	}()

	serverCfg := httpserver.FromConfig(cfg)
	serverCfg.Gateway = gateway
	serverCfg.Logger = logger
	serverCfg.Metrics = metrics
	site, err := httpserver.New(serverCfg)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("web listening",
			zap.String("addr", site.Server.Addr),
			zap.Bool("dev", cfg.Site.DevMode),
			zap.String("gateway", cfg.Contact.Gateway),
			zap.Bool("reviews", cfg.Features.Reviews),
		)
		if err := site.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return site.Intakes.Run(gctx, cfg.Contact.SweepInterval)
	})
	if cfg.Site.DevMode {
		g.Go(func() error {
			if err := site.Content.Watch(gctx, contentDebounce); err != nil {
				// the site keeps serving the last good content
				logger.Warn("content watch stopped", zap.Error(err))
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		if err := site.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"finboard/internal/cli"
	apphttp "finboard/internal/http"
	"finboard/internal/log"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Long: `Serve the dashboard over HTTP on $PORT.

In development mode /api/ is also reverse proxied to API_PROXY_TARGET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), cmd)
		},
	}
}

func (a *app) serve(parent context.Context, cmd *cobra.Command) error {
	logger := a.logger(cmd.OutOrStdout())
	cfg := a.cfg

	svc, err := a.service(logger)
	if err != nil {
		return err
	}

	opts := []apphttp.Option{
		apphttp.WithLogger(logger),
		apphttp.WithRateLimit(cfg.RateLimitPerMinute),
	}
	if cfg.IsDevelopment() {
		target, err := url.Parse(cfg.APIProxyTarget)
		if err != nil {
			return fmt.Errorf("parse proxy target: %w", err)
		}
		opts = append(opts, apphttp.WithAPIProxy(target, cfg.APIProxyStripPrefix))
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, svc, opts...)
	if err != nil {
		return err
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	if parent == nil {
		parent = context.Background()
	}
	_, done := cli.GracefulShutdown(parent, logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldOperation, log.OpShutdown, log.FieldError, err)
		}
	})

	logger.Info("Starting finboard server",
		log.FieldOperation, log.OpStartup,
		log.FieldPort, cfg.Port,
		log.FieldMode, cfg.Mode,
		log.FieldTarget, svc.Client().BaseURL(),
		"public_api_base_url", cfg.ResolveAPIBaseURL())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, log.FieldPort, cfg.Port)
		return err
	}

	<-done
	logger.Info("Server stopped gracefully")
	return nil
}

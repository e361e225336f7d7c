package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/api/router"
	"github.com/d60-Lab/yatube/pkg/auth"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/tracing"
)

func newServeCommand() *cobra.Command {
	flags := withConfigFlag(nil)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	sentryOn := cfg.Sentry.DSN != ""
	if sentryOn {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			AttachStacktrace: true,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	h := handler.NewHandler(a.users, a.groups, a.posts, a.feed, a.rel, a.images, tokens)
	h.SetSecureCookies(cfg.Server.Mode == gin.ReleaseMode)
	engine, err := router.Setup(h, router.Options{
		Mode:        cfg.Server.Mode,
		MediaRoot:   cfg.Media.Root,
		Tokens:      tokens,
		Users:       a.users,
		RateLimiter: middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Sentry:      sentryOn,
		Tracing:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error("http server failed", zap.Error(serveErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	return serveErr
}

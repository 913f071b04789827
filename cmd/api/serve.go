package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-analytics/internal/auth"
	"portfolio-analytics/internal/events/adapters/delivery"
	"portfolio-analytics/internal/events/adapters/environment"
	eventsHttp "portfolio-analytics/internal/events/adapters/http/fiber"
	"portfolio-analytics/internal/events/core/ports"
	eventsUsecase "portfolio-analytics/internal/events/core/usecase"
	"portfolio-analytics/internal/logger"
	metricsHttp "portfolio-analytics/internal/metrics/adapters/http/fiber"
	metricsUsecase "portfolio-analytics/internal/metrics/core/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 5 * time.Second

	loginAttemptsPerMinute = 5
	loginBurst             = 5
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the collector and the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	kv, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer releaseStore(closeStore)

	host := environment.NewHost(cfg.Site)
	timing := environment.NewTimingRecorder()
	var (
		sender ports.SenderPort
		beacon ports.BeaconPort
	)
	if cfg.Deliver.URL != "" {
		sender = delivery.NewHTTPSender(cfg.Deliver.URL, cfg.Deliver.Timeout, cfg.Deliver.Compress)
		beacon = delivery.NewBeacon(cfg.Deliver.URL, cfg.Deliver.Timeout)
	} else {
		logger.L().Warn("DELIVERY_URL is not set, events are kept in local storage only")
	}

	collector := eventsUsecase.NewCollector(ctx, kv, host, timing, sender, beacon, eventsUsecase.Options{
		FlushInterval: cfg.Deliver.FlushInterval,
		BeaconGrace:   cfg.Deliver.BeaconGrace,
	})
	dashboardUC := metricsUsecase.NewDashboardUseCase(collector.Store, time.Local)
	authSvc := auth.NewService(cfg.Admin)
	if cfg.Admin.Username == "" {
		logger.L().Warn("ADMIN_USERNAME is not set, dashboard login is disabled")
	}

	app := newApp(appDeps{
		track:              eventsHttp.NewTrackHandler(collector.Tracker, host, timing),
		consent:            eventsHttp.NewConsentHandler(collector.Consent, collector),
		dashboard:          metricsHttp.NewDashboardHandler(dashboardUC),
		auth:               authSvc,
		loginThrottle:      auth.NewLoginThrottle(loginAttemptsPerMinute, loginBurst),
		rateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	g, gctx := errgroup.WithContext(ctx)
	collector.Start(gctx)

	g.Go(func() error {
		addr := listenAddr(cfg.Port)
		logger.L().Info("server started", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("fiber stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.L().Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.L().Error("fiber shutdown error", zap.Error(err))
		}

		collector.Stop(shutdownCtx)
		return nil
	})

	err = g.Wait()
	logger.L().Info("server exiting")
	return err
}

func listenAddr(port int) string {
	return fmt.Sprintf(":%d", port)
}

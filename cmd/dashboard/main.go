package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/miasdk/job-finder-frontend/internal/api"
	"github.com/miasdk/job-finder-frontend/internal/config"
	"github.com/miasdk/job-finder-frontend/internal/events"
	"github.com/miasdk/job-finder-frontend/internal/listing"
	"github.com/miasdk/job-finder-frontend/internal/refresh"
	"github.com/miasdk/job-finder-frontend/internal/scheduler"
	"github.com/miasdk/job-finder-frontend/internal/server"
	"github.com/miasdk/job-finder-frontend/internal/store"
	"github.com/miasdk/job-finder-frontend/internal/store/memory"
	redisstore "github.com/miasdk/job-finder-frontend/internal/store/redis"
	"github.com/miasdk/job-finder-frontend/internal/telemetry"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func newStore(cfg *config.Config, logger *zap.Logger) store.Store {
	if cfg.RedisAddr == "" {
		logger.Info("no redis configured, using in-memory store")
		return memory.New()
	}
	return redisstore.New(store.Options{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
}

func newPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		logger.Info("no NATS configured, refresh events disabled")
		return events.NopPublisher{}, nil
	}
	return events.NewPublisher(logger, cfg)
}

func newController(client api.BackendClient, logger *zap.Logger) *listing.Controller {
	return listing.NewController(client, logger)
}

func newRefreshService(client api.BackendClient, st store.Store, publisher events.Publisher, controller *listing.Controller, logger *zap.Logger, cfg *config.Config) *refresh.Service {
	firstPage := refresh.ListingFunc(func(ctx context.Context) error {
		_, err := controller.ResetToFirstPage(ctx)
		return err
	})
	return refresh.NewService(client, st, publisher, firstPage, logger, cfg)
}

func newScheduler(svc *refresh.Service, logger *zap.Logger, cfg *config.Config) *scheduler.AutoRefreshScheduler {
	return scheduler.NewAutoRefreshScheduler(svc, logger, cfg.AutoRefreshInterval)
}

func run(lc fx.Lifecycle, srv *server.Server, sched *scheduler.AutoRefreshScheduler, cfg *config.Config, logger *zap.Logger) {
	var cancelScheduler context.CancelFunc
	var shutdownTracer func()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.OTLPCollectorURL != "" {
				shutdown, err := telemetry.InitTracer(ctx, "job-dashboard", cfg.OTLPCollectorURL)
				if err != nil {
					logger.Warn("failed to initialize tracing", zap.Error(err))
				} else {
					shutdownTracer = shutdown
				}
			}

			schedCtx, cancel := context.WithCancel(context.Background())
			cancelScheduler = cancel
			go func() {
				if err := sched.Start(schedCtx); err != nil && err != context.Canceled {
					logger.Error("auto-refresh scheduler stopped", zap.Error(err))
				}
			}()

			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("http server failed", zap.Error(err))
				}
			}()

			logger.Info("dashboard service started",
				zap.String("listen_addr", cfg.ListenAddr),
				zap.String("backend", cfg.BackendBaseURL))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancelScheduler != nil {
				cancelScheduler()
			}
			sched.Stop()
			if shutdownTracer != nil {
				shutdownTracer()
			}
			return srv.Shutdown(ctx)
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newStore,
			newPublisher,
			api.NewBackendClient,
			newController,
			newRefreshService,
			newScheduler,
			server.New,
		),
		fx.Invoke(run),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}

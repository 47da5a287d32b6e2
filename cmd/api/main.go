package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/inmohub/identity-service/internal/api/http"
	"github.com/inmohub/identity-service/internal/api/http/handlers"
	"github.com/inmohub/identity-service/internal/auth"
	"github.com/inmohub/identity-service/internal/config"
	"github.com/inmohub/identity-service/internal/events"
	"github.com/inmohub/identity-service/internal/observability"
	"github.com/inmohub/identity-service/internal/persistence"
	"github.com/inmohub/identity-service/internal/repository"
	"github.com/inmohub/identity-service/internal/service"
	"github.com/inmohub/identity-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	// Token signing is mandatory; the service must not come up without keys.
	keys, err := auth.NewKeyProvider(ctx, cfg.Auth)
	if err != nil {
		logger.Fatal("failed to load signing keys", zap.Error(err))
	}
	tokens := auth.NewTokenManager(keys, cfg.Auth.Issuer, cfg.Auth.TokenTTL())

	operatorRepo := repository.NewOperatorRepository(pg.Pool)
	staffRepo := repository.NewStaffRepository(pg.Pool)

	dispatcher := events.NewInMemoryDispatcher()

	staffService := service.NewStaffService(*cfg, service.StaffDependencies{
		StaffRepo:    staffRepo,
		OperatorRepo: operatorRepo,
		TokenManager: tokens,
		Dispatcher:   dispatcher,
		Cooldown:     redis,
	})
	operatorService := service.NewOperatorService(*cfg, service.OperatorDependencies{
		OperatorRepo: operatorRepo,
		StaffRepo:    staffRepo,
		TokenManager: tokens,
		Dispatcher:   dispatcher,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	gate := auth.NewGate(tokens)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Operators: handlers.NewOperatorHandler(operatorService),
		Staff:     handlers.NewStaffHandler(staffService),
		Gate:      gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/cms-service/internal/api/http"
	"github.com/spec-kit/cms-service/internal/api/http/handlers"
	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/internal/config"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/mail"
	"github.com/spec-kit/cms-service/internal/observability"
	"github.com/spec-kit/cms-service/internal/persistence"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/internal/service"
	"github.com/spec-kit/cms-service/internal/storage"
	"github.com/spec-kit/cms-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store, err := storage.NewClient(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	contactRepo := repository.NewContactRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	mailer := mail.NewSMTPMailer(cfg.Mail, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Storage:    store,
		Dispatcher: dispatcher,
	})
	projectService := service.NewProjectService(*cfg, projectRepo, store, dispatcher)
	teamService := service.NewTeamService(*cfg, teamRepo, store, dispatcher)
	contactService := service.NewContactService(contactRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger, *cfg)

	worker.StartNotificationWorker(notificationService)

	accessGate := auth.NewMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Storage.MaxUploadBytes()) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:        handlers.NewAuthHandler(authService),
		Projects:    handlers.NewProjectsHandler(projectService),
		Team:        handlers.NewTeamHandler(teamService),
		Contact:     handlers.NewContactHandler(contactService),
		AccessGate:  accessGate,
		RateLimiter: httptransport.NewRateLimiter(cfg.RateLimit, redis.Client, logger),
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

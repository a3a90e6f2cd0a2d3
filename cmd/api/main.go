package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-engine/internal/api/http"
	"github.com/spec-kit/support-engine/internal/api/http/handlers"
	"github.com/spec-kit/support-engine/internal/auth"
	"github.com/spec-kit/support-engine/internal/config"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/observability"
	"github.com/spec-kit/support-engine/internal/persistence"
	"github.com/spec-kit/support-engine/internal/realtime"
	"github.com/spec-kit/support-engine/internal/repository"
	"github.com/spec-kit/support-engine/internal/service"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	templateRepo := repository.NewTemplateRepository(redis.Client)
	settingsRepo := repository.NewSettingsRepository(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		MessageRepo: messageRepo,
		Dispatcher:  dispatcher,
	})

	registry := realtime.NewRegistry(ticketRepo, logger, metrics)
	presence := realtime.NewTracker(registry)
	realtime.NewBridge(registry).RegisterHandlers(dispatcher)

	throttler := service.NewThrottler(cfg.Support.Cooldown())
	responder := service.NewAutoResponder(ticketService, templateRepo, settingsRepo, throttler, cfg.Support, logger, metrics)
	responder.RegisterHandlers(dispatcher)

	authMiddleware := auth.NewAuthMiddleware(auth.NewTokenVerifier(cfg.Auth.JWTSecret))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:        handlers.NewTicketsHandler(ticketService, cfg.Support),
		Templates:      handlers.NewTemplatesHandler(templateRepo, settingsRepo),
		WS:             handlers.NewWSHandler(registry, presence, logger),
		AuthMiddleware: authMiddleware,
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

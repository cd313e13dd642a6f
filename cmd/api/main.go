package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewTicketCommentRepository(pool)
	attachmentRepo := repository.NewTicketAttachmentRepository(pool)
	historyRepo := repository.NewAssignmentHistoryRepository(pool)
	activityRepo := repository.NewActivityLogRepository(pool)
	itemRepo := repository.NewInventoryItemRepository(pool)
	serialRepo := repository.NewSerialNumberRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	if cfg.Seed.Enabled {
		if err := persistence.Seed(ctx, cfg.Seed, cfg.Auth.BcryptCost, roleRepo, userRepo, logger); err != nil {
			logger.Fatal("failed to seed defaults", zap.Error(err))
		}
	}

	roleCache := persistence.NewRoleCache(redis, roleRepo, cfg.Redis.RoleCacheTTL(), logger)
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo, roleCache)

	dispatcher := events.NewInMemoryDispatcher()

	activityService := service.NewActivityService(activityRepo, logger)
	authService := service.NewAuthService(userRepo, roleRepo, resetRepo, tokenManager, dispatcher, cfg.Auth)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		AttachmentRepo: attachmentRepo,
		HistoryRepo:    historyRepo,
		UserRepo:       userRepo,
		Dispatcher:     dispatcher,
	})
	roleService := service.NewRoleService(roleRepo, userRepo, roleCache)
	userService := service.NewUserService(userRepo, roleRepo, cfg.Auth.BcryptCost)
	inventoryService := service.NewInventoryService(itemRepo, serialRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService, activityService),
		Tickets:        handlers.NewTicketsHandler(ticketService, activityService, cfg.Pagination),
		Roles:          handlers.NewRolesHandler(roleService, activityService, cfg.Pagination),
		Users:          handlers.NewUsersHandler(userService, activityService, cfg.Pagination),
		SerialNumbers:  handlers.NewSerialNumbersHandler(inventoryService, activityService, cfg.Pagination),
		InventoryItems: handlers.NewInventoryItemsHandler(inventoryService, activityService, cfg.Pagination),
		ActivityLogs:   handlers.NewActivityLogsHandler(activityService, cfg.Pagination),
		AuthMiddleware: authMiddleware,
	})
	httptransport.RegisterNotFound(app)

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

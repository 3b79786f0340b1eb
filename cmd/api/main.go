package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/checkpad/internal/api/http"
	"github.com/spec-kit/checkpad/internal/api/http/handlers"
	"github.com/spec-kit/checkpad/internal/config"
	"github.com/spec-kit/checkpad/internal/observability"
	"github.com/spec-kit/checkpad/internal/persistence"
	"github.com/spec-kit/checkpad/internal/repository"
	"github.com/spec-kit/checkpad/internal/service"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
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
	broker := syncstream.NewBroker(redis.Client, cfg.Sync.ChannelPrefix, logger)

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)
	caseRepo := repository.NewCaseRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)

	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo: staffRepo,
		Publisher: broker,
		Metrics:   metrics,
		Logger:    logger,
	})
	caseService := service.NewCaseService(service.CaseDependencies{
		CaseRepo:       caseRepo,
		AssignmentRepo: assignmentRepo,
		StaffRepo:      staffRepo,
		Publisher:      broker,
		Metrics:        metrics,
		Logger:         logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		AssignmentRepo: assignmentRepo,
		Publisher:      broker,
		Metrics:        metrics,
		Logger:         logger,
	})

	auditService := service.NewAuditService(auditRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Staff:       handlers.NewStaffHandler(staffService),
		Cases:       handlers.NewCasesHandler(caseService),
		Assignments: handlers.NewAssignmentsHandler(assignmentService),
		Calendar:    handlers.NewCalendarHandler(caseService),
		Audit:       handlers.NewAuditHandler(auditService),
		Sync:        handlers.NewSyncHandler(broker, staffService, caseService, assignmentService, logger),
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

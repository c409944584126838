package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/sla-monitor/internal/api/http"
	"github.com/spec-kit/sla-monitor/internal/api/http/handlers"
	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/events"
	"github.com/spec-kit/sla-monitor/internal/observability"
	"github.com/spec-kit/sla-monitor/internal/persistence"
	"github.com/spec-kit/sla-monitor/internal/reasoning"
	"github.com/spec-kit/sla-monitor/internal/repository"
	"github.com/spec-kit/sla-monitor/internal/service"
	"github.com/spec-kit/sla-monitor/internal/worker"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: agent <serve|worker|analyze|escalate|report>")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]

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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	delayRepo := repository.NewDelayRepository(pool)
	escalationRepo := repository.NewEscalationRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	service.NewNotificationService(logger).Register(dispatcher)
	kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
	kafkaPublisher.Register(dispatcher)
	defer kafkaPublisher.Close() //nolint:errcheck

	session := reasoning.NewSession(reasoning.SessionDependencies{
		Scoring:    cfg.Scoring,
		Escalation: cfg.Escalation,
		Logger:     logger,
	})

	escalationService := service.NewEscalationService(service.EscalationDependencies{
		EscalationRepo: escalationRepo,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger,
	})

	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo: reportRepo,
		Cache:      redis,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	monitorService := service.NewMonitorService(service.MonitorDependencies{
		TicketRepo:        ticketRepo,
		DelayRepo:         delayRepo,
		Session:           session,
		EscalationService: escalationService,
		ReportService:     reportService,
		Dispatcher:        dispatcher,
		Cache:             redis,
		App:               cfg.App,
		Scoring:           cfg.Scoring,
		Metrics:           metrics,
		Logger:            logger,
	})

	switch command {
	case "serve":
		serve(ctx, cfg, logger, metrics, pg, redis, httptransport.RouteConfig{
			Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
			Tickets:     handlers.NewTicketsHandler(ticketRepo),
			Analysis:    handlers.NewAnalysisHandler(monitorService, metrics),
			Escalations: handlers.NewEscalationsHandler(escalationService, monitorService),
			Reports:     handlers.NewReportsHandler(reportService),
		})
	case "worker":
		runWorker(ctx, cfg, logger, monitorService)
	case "analyze":
		result, err := monitorService.RunAnalysisCycle(ctx)
		if err != nil {
			logger.Fatal("analysis cycle failed", zap.Error(err))
		}
		printJSON(result)
	case "escalate":
		escalated, err := monitorService.CheckEscalations(ctx)
		if err != nil {
			logger.Fatal("escalation check failed", zap.Error(err))
		}
		printJSON(escalated)
	case "report":
		report, err := reportService.Latest(ctx)
		if err != nil {
			logger.Fatal("report fetch failed", zap.Error(err))
		}
		printJSON(report)
	default:
		usage()
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics, pg *persistence.Postgres, redis *persistence.Redis, routes httptransport.RouteConfig) {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func runWorker(ctx context.Context, cfg *config.Config, logger *zap.Logger, monitor *service.MonitorService) {
	workerCtx, stop := context.WithCancel(ctx)
	go func() {
		waitForShutdown(logger)
		stop()
	}()

	worker.NewMonitorWorker(monitor, cfg.App.RefreshInterval(), logger).Run(workerCtx)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	fmt.Println(string(data))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

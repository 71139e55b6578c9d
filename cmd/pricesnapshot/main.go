package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"pricing_history/internal/cache"
	"pricing_history/internal/config"
	"pricing_history/internal/dashboard"
	"pricing_history/internal/domain"
	"pricing_history/internal/httpapi"
	"pricing_history/internal/metrics"
	"pricing_history/internal/publisher"
	"pricing_history/internal/scheduler"
	"pricing_history/internal/service"
	"pricing_history/internal/source/retail"
	"pricing_history/internal/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	once := flag.Bool("once", false, "run a single snapshot and exit")
	migrateOnly := flag.Bool("migrate", false, "apply schema migrations and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	if err := postgres.Migrate(cfg.Database.URL()); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("database schema up to date")
	if *migrateOnly {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *once); err != nil {
		logger.Error("pricesnapshot stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, once bool) error {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("connected to database")

	var runPublisher service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		runPublisher = rabbitMQ
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	source := retail.New(retail.Config{
		BaseURL:    cfg.API.BaseURL,
		APIVersion: cfg.API.Version,
		Timeout:    cfg.API.Timeout,
		Retry:      retail.DefaultRetryPolicy(cfg.API.Retry.MaxAttempts, cfg.API.Retry.MaxBackoff),
	}, logger, retail.WithRetryRecorder(m))

	upserter := service.NewUpserter(
		postgres.NewPriceStore(db),
		postgres.NewTransactionManager(db),
		cfg.Snapshot.BatchSize,
		m,
		logger,
	)

	snapshotService := service.NewSnapshotService(
		source,
		upserter,
		postgres.NewRunStore(db),
		postgres.NewDiagnosticsStore(db),
		runPublisher,
		m,
		logger,
		cfg.Snapshot,
	)

	if once {
		report, err := snapshotService.Run(ctx, domain.TriggerManual)
		for _, line := range report.Lines() {
			fmt.Println(line)
		}
		return err
	}

	var dashCache dashboard.Cache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return err
		}
		defer redisCache.Close()
		dashCache = redisCache
		logger.Info("dashboard cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	dash := dashboard.NewService(postgres.NewDashboardStore(db), dashCache, logger)

	sched := scheduler.NewScheduler(snapshotService, scheduler.Config{
		Interval:   cfg.Snapshot.Interval,
		RunTimeout: cfg.Snapshot.RunTimeout,
		RunOnStart: cfg.Snapshot.RunOnStart,
	}, logger, scheduler.WithAfterRun(func(ctx context.Context, _ *domain.SnapshotReport, _ error) {
		dash.Invalidate(ctx)
	}))

	logger.Info("starting pricing snapshot service",
		"source", source.ID(),
		"currencies", cfg.Snapshot.Currencies,
		"interval", cfg.Snapshot.Interval,
		"batch_size", cfg.Snapshot.BatchSize,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := sched.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler: %w", err)
		}
		return nil
	})

	if cfg.HTTP.Enabled {
		server := httpapi.NewServer(dash, sched, logger, httpapi.WithHealthCheck(db.PingContext))

		g.Go(func() error {
			if err := server.Listen(cfg.HTTP.Addr); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

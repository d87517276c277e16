package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomdesk/internal/api"
	"roomdesk/internal/config"
	"roomdesk/internal/database"
	"roomdesk/internal/events"
	"roomdesk/internal/export"
	"roomdesk/internal/logging"
	"roomdesk/internal/metrics"
	"roomdesk/internal/repository"
	"roomdesk/internal/service"
	"roomdesk/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := initAvailabilityCache(cfg, redisClient, &logger)
	eventBus := events.NewEventBus()
	notifyWorker := initNotifyWorker(cfg, db, redisClient, &logger)
	go notifyWorker.Start(ctx)

	backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
	go backupService.Start(ctx)

	clock := service.SystemClock{}
	bookingService := service.NewBookingService(
		db, eventBus, notifyWorker, cache, clock,
		cfg.Booking.MaxTitleLength, cfg.Booking.HorizonDays, &logger,
	)
	roomService := service.NewRoomService(db, clock, &logger)
	userService := service.NewUserService(db, &logger)
	statsService := service.NewStatsService(db, &logger)
	exporter := export.NewExporter(db)

	httpServer := api.NewHTTPServer(
		cfg.API, bookingService, roomService, userService, statsService, exporter, &logger,
	)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	if err := db.SeedRooms(context.Background(), cfg.Rooms); err != nil {
		logger.Error().Err(err).Msg("seed rooms")
		return nil, err
	}
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initAvailabilityCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) *repository.FailoverAvailabilityCache {
	ttl := time.Duration(cfg.Booking.AvailabilityTTL) * time.Second
	memory := repository.NewMemoryAvailabilityCache(ttl)

	if redisClient == nil {
		return repository.NewFailoverAvailabilityCache(memory, memory, logger)
	}

	primary := repository.NewRedisAvailabilityCache(redisClient, ttl)
	return repository.NewFailoverAvailabilityCache(primary, memory, logger)
}

func initNotifyWorker(cfg *config.Config, db *database.DB, redisClient *redis.Client, logger *zerolog.Logger) *worker.NotifyWorker {
	var notifier worker.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = worker.NewWebhookNotifier(cfg.Notify.WebhookURL)
	} else {
		notifier = worker.NewLogNotifier(logger)
	}

	retry := worker.RetryPolicy{
		MaxRetries:    cfg.Notify.MaxRetries,
		BackoffFactor: cfg.Notify.BackoffFactor,
	}
	if d, err := time.ParseDuration(cfg.Notify.InitialDelay); err == nil {
		retry.InitialDelay = d
	}
	if d, err := time.ParseDuration(cfg.Notify.MaxDelay); err == nil {
		retry.MaxDelay = d
	}

	return worker.NewNotifyWorker(db, notifier, redisClient, retry, stdlog.Default())
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

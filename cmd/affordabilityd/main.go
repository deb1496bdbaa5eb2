package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jip-jung/jipjung-backend-sub000/internal/application/usecase"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/port"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/service"
	"github.com/jip-jung/jipjung-backend-sub000/internal/infrastructure/codec"
	"github.com/jip-jung/jipjung-backend-sub000/internal/infrastructure/config"
	"github.com/jip-jung/jipjung-backend-sub000/internal/infrastructure/kafka"
	"github.com/jip-jung/jipjung-backend-sub000/internal/infrastructure/lock"
	"github.com/jip-jung/jipjung-backend-sub000/internal/infrastructure/metrics"
	pgRepo "github.com/jip-jung/jipjung-backend-sub000/internal/infrastructure/postgres"
	grpcPresentation "github.com/jip-jung/jipjung-backend-sub000/internal/presentation/grpc"
	"github.com/jip-jung/jipjung-backend-sub000/internal/presentation/rest"
	"github.com/jip-jung/jipjung-backend-sub000/pkg/auth"
	pkgkafka "github.com/jip-jung/jipjung-backend-sub000/pkg/kafka"
	"github.com/jip-jung/jipjung-backend-sub000/pkg/observability"
	pkgpostgres "github.com/jip-jung/jipjung-backend-sub000/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("affordability-service exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Attrs:  []slog.Attr{slog.String("service", cfg.ServiceName)},
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting affordability-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"policy_version", cfg.PolicyVersion,
	)

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck

	// Database connection and migrations.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Infrastructure adapters.
	kafkaProducer, err := pkgkafka.NewProducer(pkgkafka.Config{
		ClientID:      cfg.ServiceName,
		Brokers:       cfg.Kafka.Brokers,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer kafkaProducer.Close()
	publisher := kafka.NewKafkaEventPublisher(kafkaProducer, cfg.Kafka.Topic, logger)

	locker, closeLocker := newUserLocker(cfg.Redis, logger)
	defer closeLocker()

	recorder, err := metrics.NewCalculationRecorder(meterProvider.Meter(cfg.ServiceName))
	if err != nil {
		return fmt.Errorf("create metrics recorder: %w", err)
	}

	// Domain services.
	catalog, err := service.NewBuiltinPolicyCatalog(cfg.PolicyVersion)
	if err != nil {
		return fmt.Errorf("load policy catalog: %w", err)
	}
	calculator := service.NewAffordabilityCalculator()
	rewards := service.NewGameRewardCalculator(service.RewardRule{
		UnitAmount:    cfg.Product.ExpUnitAmount,
		PointsPerUnit: cfg.Product.ExpPerUnit,
		MaxPerEvent:   cfg.Product.ExpMaxPerEvent,
	})
	snapshotCodec := codec.NewJSONCodec()

	// Use cases.
	estimateQuickUC := usecase.NewEstimateQuickUseCase(
		pgRepo.NewProfileRepo(pool),
		catalog,
		calculator,
		usecase.QuickDefaults{
			MedianAnnualIncome: cfg.Product.MedianAnnualIncome,
			DefaultAge:         cfg.Product.DefaultAge,
			NominalRate:        cfg.Product.QuickNominalRate,
			MaturityYears:      cfg.Product.QuickMaturityYears,
		},
		recorder,
		logger,
	)
	simulateDetailedUC := usecase.NewSimulateDetailedUseCase(
		pgRepo.NewUnitOfWork(pool),
		locker,
		publisher,
		snapshotCodec,
		catalog,
		calculator,
		rewards,
		recorder,
		logger,
	)
	getLatestUC := usecase.NewGetLatestSimulationUseCase(pgRepo.NewSimulationHistoryRepo(pool), snapshotCodec)
	getStressRateUC := usecase.NewGetStressRateUseCase(catalog, calculator)

	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	// gRPC server.
	handler := grpcPresentation.NewAffordabilityHandler(estimateQuickUC, simulateDetailedUC, getLatestUC, getStressRateUC, logger)
	grpcServer, err := grpcPresentation.NewServer(handler, logger, jwtSvc, grpcPresentation.ServerOptions{
		HealthService: cfg.ServiceName,
		CertFile:      cfg.TLS.CertFile,
		KeyFile:       cfg.TLS.KeyFile,
		ClientCAFile:  cfg.TLS.CAFile,
		Reflection:    cfg.Reflection,
	})
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, pool, metricsHandler, logger).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("affordability-service stopped")
	return serveErr
}

// newUserLocker uses Redis when configured so instances share one lock per
// user. Without Redis the lock only covers this process.
func newUserLocker(cfg config.RedisConfig, logger *slog.Logger) (port.UserLocker, func()) {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR not set, per-user lock is process-local")
		return lock.NewMemoryLocker(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	logger.Info("using redis user lock", "addr", cfg.Addr, "ttl", cfg.LockTTL)
	return lock.NewRedisLocker(client, cfg.LockTTL, cfg.LockWait, logger), func() { _ = client.Close() }
}

// newJWTService prefers a public key and falls back to the shared secret.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer}
	switch {
	case cfg.PublicKeyPEM != "":
		jwtCfg.PublicKeyPEM = cfg.PublicKeyPEM
	case cfg.PublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Secret
	}
	return auth.NewJWTService(jwtCfg)
}

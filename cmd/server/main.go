package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/sh2nam/bree-takehome-nam/internal/adapter/http"
	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/handler"
	csvRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/csv"
	postgresRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/postgres"
	redisRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/redis"
	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/feature"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/config"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/logger"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/metrics"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/postgres"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/redis"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.SetGlobalLevel(cfg.LogLevel)
	log.Logger = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  os.Stderr,
		Service: "featurestore",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("source", cfg.FeatureSource).Msg("starting server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// app owns the HTTP server and the connections behind it.
type app struct {
	server *http.Server
	pool   *pgxpool.Pool
	redis  *goredis.Client
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{}

	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		logger.Info().Msg("connected to postgres")
	} else {
		logger.Warn().Msg("DATABASE_URL not set, feature rows are not persisted")
	}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, redis.ClientConfig{URL: cfg.RedisURL})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		logger.Info().Msg("connected to redis")
	}

	assembler, err := feature.NewAssembler(cfg.Feature())
	if err != nil {
		a.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	retrier := postgresRepo.NewRetrier(logger)

	var source usecase.EventSource = csvRepo.NewEventSource(cfg.DataDir, logger)
	var store usecase.FeatureStore = postgresRepo.NewNullFeatureStore()
	var cache usecase.FeatureCache = redisRepo.NewNullFeatureCache()
	var idempotency usecase.IdempotencyStore
	var pgPinger, redisPinger handler.Pinger

	if a.pool != nil {
		store = postgresRepo.NewFeatureStore(a.pool)
		pgPinger = a.pool
		if cfg.FeatureSource == domain.SourcePostgres {
			source = postgresRepo.NewEventStore(a.pool, retrier, logger)
		}
	}
	if a.redis != nil {
		cache = redisRepo.NewFeatureCache(a.redis)
		idempotency = redisRepo.NewIdempotencyStore(a.redis)
		redisPinger = handler.RedisPinger(a.redis)
	}

	assemblyUC := usecase.NewAssemblyUseCase(source, assembler, store, cache, retrier, postgresRepo.NewRunIDGenerator(), m, logger)
	assemblyUC.SetCacheTTL(cfg.FeatureCacheTTL)
	featureUC := usecase.NewFeatureUseCase(store, cache, m, logger)
	qualityUC := usecase.NewQualityUseCase(source, assembler, quality.NewRunner(cfg.Quality()), m, logger)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		FeatureHandler:   handler.NewFeatureHandler(featureUC),
		RunHandler:       handler.NewRunHandler(assemblyUC, featureUC, qualityUC),
		QualityHandler:   handler.NewQualityHandler(qualityUC),
		HealthHandler:    handler.NewHealthHandler(pgPinger, redisPinger),
		IdempotencyStore: idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Metrics:          m,
		Gatherer:         reg,
		Logger:           logger,
	})

	a.server = &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}

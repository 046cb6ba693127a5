package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	csvRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/csv"
	postgresRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/postgres"
	redisRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/redis"
	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/feature"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/config"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/logger"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/postgres"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/redis"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase"
)

// cli carries the state shared by every command.
type cli struct {
	cfg    *config.Config
	logger zerolog.Logger
	out    io.Writer

	// Flag overrides; empty keeps the environment value.
	dataDir  string
	outDir   string
	source   string
	logLevel string
}

func (c *cli) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if c.dataDir != "" {
		cfg.DataDir = c.dataDir
	}
	if c.outDir != "" {
		cfg.OutputDir = c.outDir
	}
	if c.source != "" {
		cfg.FeatureSource = c.source
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	logger.SetGlobalLevel(cfg.LogLevel)
	c.logger = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  os.Stderr,
		Service: "featurectl",
	})
	return nil
}

// deps holds the optional backing services. Nil fields are disabled.
type deps struct {
	pool  *pgxpool.Pool
	redis *goredis.Client
}

func (c *cli) connect(ctx context.Context) (*deps, error) {
	d := &deps{}

	if c.cfg.DatabaseURL != "" {
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    c.cfg.DatabaseURL,
			MaxConns:       c.cfg.DatabaseMaxConns,
			MinConns:       c.cfg.DatabaseMinConns,
			ConnectTimeout: c.cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		d.pool = pool
		c.logger.Debug().Msg("connected to postgres")
	}

	if c.cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, redis.ClientConfig{URL: c.cfg.RedisURL})
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		d.redis = client
		c.logger.Debug().Msg("connected to redis")
	}

	return d, nil
}

func (d *deps) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.redis != nil {
		d.redis.Close()
	}
}

func (c *cli) eventSource(d *deps) usecase.EventSource {
	if c.cfg.FeatureSource == domain.SourcePostgres {
		return postgresRepo.NewEventStore(d.pool, postgresRepo.NewRetrier(c.logger), c.logger)
	}
	return csvRepo.NewEventSource(c.cfg.DataDir, c.logger)
}

func (c *cli) featureStore(d *deps) usecase.FeatureStore {
	if d.pool == nil {
		return postgresRepo.NewNullFeatureStore()
	}
	return postgresRepo.NewFeatureStore(d.pool)
}

func (c *cli) featureCache(d *deps) usecase.FeatureCache {
	if d.redis == nil {
		return redisRepo.NewNullFeatureCache()
	}
	return redisRepo.NewFeatureCache(d.redis)
}

func (c *cli) assemblyUseCase(d *deps, assembler *feature.Assembler) *usecase.AssemblyUseCase {
	uc := usecase.NewAssemblyUseCase(
		c.eventSource(d),
		assembler,
		c.featureStore(d),
		c.featureCache(d),
		postgresRepo.NewRetrier(c.logger),
		postgresRepo.NewRunIDGenerator(),
		usecase.NopObserver{},
		c.logger,
	)
	uc.SetCacheTTL(c.cfg.FeatureCacheTTL)
	return uc
}

func (c *cli) qualityUseCase(d *deps, assembler *feature.Assembler) *usecase.QualityUseCase {
	return usecase.NewQualityUseCase(
		c.eventSource(d),
		assembler,
		quality.NewRunner(c.cfg.Quality()),
		usecase.NopObserver{},
		c.logger,
	)
}

func (c *cli) printJSON(v any) error {
	return jsonEncoder(c.out).Encode(v)
}

func jsonEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}

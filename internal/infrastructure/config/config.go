package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/feature"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
)

// Config holds all application configuration.
type Config struct {
	// Database. Empty disables the postgres feature store.
	DatabaseURL      string        `env:"DATABASE_URL"`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	DatabaseMinConns int           `env:"DATABASE_MIN_CONNS" envDefault:"2"`
	DatabaseTimeout  time.Duration `env:"DATABASE_TIMEOUT"   envDefault:"30s"`
	MigrationsPath   string        `env:"MIGRATIONS_PATH"    envDefault:"internal/infrastructure/postgres/migrations"`

	// Redis. Empty disables the feature cache and idempotency keys.
	RedisURL string `env:"REDIS_URL"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"5m"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Feature assembly
	DataDir                 string        `env:"DATA_DIR"                   envDefault:"data"`
	OutputDir               string        `env:"OUTPUT_DIR"                 envDefault:"output"`
	FeatureSource           string        `env:"FEATURE_SOURCE"             envDefault:"csv"`
	FeatureWorkers          int           `env:"FEATURE_WORKERS"            envDefault:"0"`
	FeatureWindows          []int         `env:"FEATURE_WINDOWS"            envDefault:"14,30" envSeparator:","`
	PayrollGapLookbackDays  int           `env:"PAYROLL_GAP_LOOKBACK_DAYS"  envDefault:"180"`
	PayrollLastLookbackDays int           `env:"PAYROLL_LAST_LOOKBACK_DAYS" envDefault:"120"`
	FeatureCacheTTL         time.Duration `env:"FEATURE_CACHE_TTL"          envDefault:"6h"`

	// Data quality thresholds
	QualityMinDefaultRate      float64 `env:"QUALITY_MIN_DEFAULT_RATE"       envDefault:"0.01"`
	QualityMaxDefaultRate      float64 `env:"QUALITY_MAX_DEFAULT_RATE"       envDefault:"0.40"`
	QualityMaxNoPayrollShare   float64 `env:"QUALITY_MAX_NO_PAYROLL_SHARE"   envDefault:"0.50"`
	QualityMaxFlaggedRowsShare float64 `env:"QUALITY_MAX_FLAGGED_ROWS_SHARE" envDefault:"0.01"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values env cannot express as types.
func (c *Config) Validate() error {
	if err := domain.ValidateSource(c.FeatureSource); err != nil {
		return err
	}
	if c.FeatureSource == domain.SourcePostgres && c.DatabaseURL == "" {
		return fmt.Errorf("FEATURE_SOURCE=postgres requires DATABASE_URL")
	}
	if c.FeatureWorkers < 0 {
		return fmt.Errorf("FEATURE_WORKERS must not be negative, got %d", c.FeatureWorkers)
	}
	return c.Feature().Validate()
}

// Feature returns the assembler configuration.
func (c *Config) Feature() feature.Config {
	workers := c.FeatureWorkers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return feature.Config{
		Windows: c.FeatureWindows,
		Cadence: feature.CadenceConfig{
			GapLookbackDays:  c.PayrollGapLookbackDays,
			LastLookbackDays: c.PayrollLastLookbackDays,
		},
		Workers: workers,
	}
}

// Quality returns the data-quality thresholds.
func (c *Config) Quality() quality.Config {
	return quality.Config{
		MinDefaultRate:      c.QualityMinDefaultRate,
		MaxDefaultRate:      c.QualityMaxDefaultRate,
		MaxNoPayrollShare:   c.QualityMaxNoPayrollShare,
		MaxFlaggedRowsShare: c.QualityMaxFlaggedRowsShare,
	}
}

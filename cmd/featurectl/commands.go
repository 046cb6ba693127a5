package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/dto"
	csvRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/csv"
	postgresRepo "github.com/sh2nam/bree-takehome-nam/internal/adapter/repository/postgres"
	"github.com/sh2nam/bree-takehome-nam/internal/feature"
	"github.com/sh2nam/bree-takehome-nam/internal/generator"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/postgres"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
)

const violationsFile = "violations.json"

func (c *cli) generateCmd() *cobra.Command {
	gen := generator.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic event store to the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := generator.New(gen).Generate(cmd.Context())
			if err != nil {
				return err
			}
			if err := csvRepo.WriteDataset(c.cfg.DataDir, ds); err != nil {
				return err
			}

			c.logger.Info().
				Str("dir", c.cfg.DataDir).
				Int("users", len(ds.Users)).
				Int("transactions", len(ds.Transactions)).
				Int("loans", len(ds.Loans)).
				Msg("dataset written")

			return c.printJSON(map[string]any{
				"data_dir":     c.cfg.DataDir,
				"users":        len(ds.Users),
				"transactions": len(ds.Transactions),
				"loans":        len(ds.Loans),
				"assignments":  len(ds.Assignments),
			})
		},
	}

	cmd.Flags().IntVar(&gen.Users, "users", gen.Users, "number of users")
	cmd.Flags().Uint64Var(&gen.Seed, "seed", gen.Seed, "random seed")
	cmd.Flags().Float64Var(&gen.TransactionUserShare, "txn-share", gen.TransactionUserShare, "share of users with transactions")

	return cmd
}

func (c *cli) assembleCmd() *cobra.Command {
	var withQuality bool

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble feature rows and write features.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assembler, err := feature.NewAssembler(c.cfg.Feature())
			if err != nil {
				return err
			}

			d, err := c.connect(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			out, err := c.assemblyUseCase(d, assembler).Run(ctx)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
				return err
			}
			featuresPath := filepath.Join(c.cfg.OutputDir, csvRepo.FeaturesFile)
			if err := csvRepo.WriteFeaturesFile(featuresPath, out.Result.Rows, assembler.Windows()); err != nil {
				return fmt.Errorf("write features: %w", err)
			}
			if err := writeJSONFile(filepath.Join(c.cfg.OutputDir, violationsFile), out.Result.Violations); err != nil {
				return fmt.Errorf("write violations: %w", err)
			}

			summary := dto.RunFromDomain(out.Run)
			var report *quality.Report
			if withQuality {
				report = c.qualityUseCase(d, assembler).Evaluate(out)
				summary.Quality = dto.QualitySummaryFromReport(report)
			}

			if err := c.printJSON(summary); err != nil {
				return err
			}
			if report != nil && !report.Passed() {
				return errQualityFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withQuality, "quality", false, "evaluate the quality suite on the assembled rows")

	return cmd
}

func (c *cli) qualityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quality",
		Short: "Run the data quality suite and write its reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assembler, err := feature.NewAssembler(c.cfg.Feature())
			if err != nil {
				return err
			}

			d, err := c.connect(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			report, err := c.qualityUseCase(d, assembler).Run(ctx)
			if err != nil {
				return err
			}

			if err := c.writeQualityReports(report); err != nil {
				return err
			}
			if err := c.printJSON(dto.QualitySummaryFromReport(report)); err != nil {
				return err
			}
			if !report.Passed() {
				return errQualityFailed
			}
			return nil
		},
	}
}

func (c *cli) writeQualityReports(report *quality.Report) error {
	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return err
	}

	stamp := report.ExecutedAt.UTC().Format("20060102T150405Z")

	jsonPath := filepath.Join(c.cfg.OutputDir, "data_quality_report_"+stamp+".json")
	jf, err := os.Create(jsonPath)
	if err != nil {
		return err
	}
	defer jf.Close()
	if err := quality.WriteJSON(jf, report); err != nil {
		return fmt.Errorf("write quality report: %w", err)
	}

	csvPath := filepath.Join(c.cfg.OutputDir, "failed_checks_"+stamp+".csv")
	cf, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer cf.Close()
	failed, err := quality.WriteFailedCSV(cf, report)
	if err != nil {
		return fmt.Errorf("write failed checks: %w", err)
	}

	c.logger.Info().
		Str("report", jsonPath).
		Str("failed_checks", csvPath).
		Int("failed", failed).
		Str("status", string(report.OverallStatus)).
		Msg("quality reports written")
	return nil
}

func (c *cli) loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Bulk-load the CSV event store into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.cfg.DatabaseURL == "" {
				return errors.New("load requires DATABASE_URL")
			}

			ds, err := csvRepo.NewEventSource(c.cfg.DataDir, c.logger).Load(ctx)
			if err != nil {
				return err
			}

			d, err := c.connect(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			report, err := postgresRepo.NewLoader(d.pool, c.logger).Load(ctx, ds)
			if err != nil {
				return err
			}
			return c.printJSON(report)
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the event and feature store schema",
	}

	migrator := func() (*postgres.Migrator, error) {
		if c.cfg.DatabaseURL == "" {
			return nil, errors.New("migrate requires DATABASE_URL")
		}
		return postgres.NewMigrator(c.cfg.DatabaseURL, c.cfg.MigrationsPath, c.logger), nil
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			return m.Down(steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				return m.Up()
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				return c.printJSON(map[string]any{"version": version, "dirty": dirty})
			},
		},
	)

	return cmd
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := jsonEncoder(f)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Sync()
}

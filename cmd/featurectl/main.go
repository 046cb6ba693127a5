// Command featurectl generates event data, assembles loan feature rows and
// runs the data quality suite from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errQualityFailed is returned when the quality suite reports FAIL.
var errQualityFailed = errors.New("data quality checks failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errQualityFailed):
		return 1
	default:
		return 2
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	c := &cli{out: stdout}

	root := &cobra.Command{
		Use:           "featurectl",
		Short:         "Loan feature store tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.dataDir, "data-dir", "", "directory holding the event CSV files (env DATA_DIR)")
	flags.StringVar(&c.outDir, "out-dir", "", "directory for generated artifacts (env OUTPUT_DIR)")
	flags.StringVar(&c.source, "source", "", "event source: csv or postgres (env FEATURE_SOURCE)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (env LOG_LEVEL)")

	root.AddCommand(
		c.generateCmd(),
		c.assembleCmd(),
		c.qualityCmd(),
		c.loadCmd(),
		c.migrateCmd(),
	)

	return root
}

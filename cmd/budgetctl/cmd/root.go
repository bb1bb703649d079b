// Package cmd provides the budgetctl commands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"budgettracker/internal/budget"
	"budgettracker/internal/cli"
	"budgettracker/internal/config"
	"budgettracker/internal/log"
)

// options is shared by every subcommand. cfg and logger are set in the
// root's PersistentPreRunE.
type options struct {
	envFile string
	debug   bool

	cfg    *config.Config
	logger *log.Logger
	now    func() time.Time
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	opts := &options{now: now}

	root := &cobra.Command{
		Use:   "budgetctl",
		Short: "Inspect and maintain budget tracker data",
		Long: `budgetctl works directly on the budget tracker's configured storage
backend (DATA_BACKEND, DATA_DIR, SQLITE_DB_PATH).

It supports:
- Monthly summaries and insights
- Processing due recurring payments
- Seeding sample data
- Exporting a month to Google Sheets
- Rendering charts to PNG

Example:
  budgetctl summary --month 2025-05
  budgetctl export-sheets --month 2025-05`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile != "" {
				cli.LoadEnvFile(opts.envFile)
			} else {
				cli.LoadEnvFile()
			}
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			level := cfg.LogLevel
			if opts.debug {
				level = "debug"
			}
			opts.cfg = cfg
			opts.logger = cli.SetupLoggerTo(cmd.ErrOrStderr(), level).WithComponent(log.ComponentCLI)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file to load (default is .env)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newSummaryCmd(opts),
		newInsightsCmd(opts),
		newProcessRecurringCmd(opts),
		newSeedCmd(opts),
		newExportCmd(opts),
		newChartCmd(opts),
	)
	return root
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

// withRuntime opens the configured backend for the duration of fn.
func (o *options) withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *cli.Runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := cli.OpenRuntime(ctx, o.cfg, o.logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer rt.Close()
	return fn(ctx, rt)
}

// month parses a --month flag value, defaulting to the current month.
func (o *options) month(v string) (budget.Month, error) {
	if v == "" {
		return budget.MonthOf(o.now()), nil
	}
	m, err := budget.ParseMonth(v)
	if err != nil {
		return budget.Month{}, fmt.Errorf("--month %q: %w", v, err)
	}
	return m, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"budgettracker/internal/cli"
	"budgettracker/internal/core"
)

func newProcessRecurringCmd(o *options) *cobra.Command {
	var date string
	c := &cobra.Command{
		Use:   "process-recurring",
		Short: "Create transactions for recurring payments due today",
		Long: `Runs the same pass as the server's scheduler once. Each active payment
due on the given day is recorded at most once per day.`,
		Example: "  budgetctl process-recurring\n  budgetctl process-recurring --date 2025-05-15",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := o.now()
			if date != "" {
				d, err := core.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date %q: %w", date, err)
				}
				// Noon keeps the day stable in any local zone offset.
				now = d.Add(12 * time.Hour)
			}
			return o.withRuntime(cmd, func(ctx context.Context, rt *cli.Runtime) error {
				created, err := rt.Processor.ProcessDue(ctx, now)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created %d transaction(s)\n", len(created))
				for _, t := range created {
					fmt.Fprintf(out, "  %s  %-30s %s\n", t.Date, t.Description, t.Amount.Format(o.cfg.CurrencySymbol))
				}
				return nil
			})
		},
	}
	c.Flags().StringVar(&date, "date", "", "process as of this day, YYYY-MM-DD (default today)")
	return c
}

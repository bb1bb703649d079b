package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"budgettracker/internal/cli"
	"budgettracker/internal/worker"
)

func newExportCmd(o *options) *cobra.Command {
	var (
		monthFlag string
		verify    bool
	)
	c := &cobra.Command{
		Use:   "export-sheets",
		Short: "Export a month's summary and transactions to Google Sheets",
		Long: `Writes the month to its own tab of GOOGLE_SPREADSHEET_ID. Without a
spreadsheet configured the export goes to memory, which is useful to check
the rows that would be written.`,
		Example: "  budgetctl export-sheets --month 2025-05 --verify",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := o.month(monthFlag)
			if err != nil {
				return err
			}
			return o.withRuntime(cmd, func(ctx context.Context, rt *cli.Runtime) error {
				target, err := cli.OpenSheets(ctx, o.cfg, o.logger)
				if err != nil {
					return err
				}
				ref, err := worker.NewExportWorker(rt.Store, target, o.logger).ExportMonth(ctx, month)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Exported %s to %s\n", month, ref)
				if !verify {
					return nil
				}
				got, err := target.ReadMonthSummary(ctx, month)
				if err != nil {
					return fmt.Errorf("read back %s: %w", month, err)
				}
				fmt.Fprintf(out, "Sheet total: %s spent of %s across %d categories\n",
					got.TotalSpent.Format(o.cfg.CurrencySymbol), got.TotalBudget.Format(o.cfg.CurrencySymbol), len(got.Categories))
				return nil
			})
		},
	}
	c.Flags().StringVar(&monthFlag, "month", "", "month as YYYY-MM (default current month)")
	c.Flags().BoolVar(&verify, "verify", false, "read the summary back after writing")
	return c
}

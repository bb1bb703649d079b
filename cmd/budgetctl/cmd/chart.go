package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"budgettracker/internal/budget"
	"budgettracker/internal/charts"
	"budgettracker/internal/cli"
)

func newChartCmd(o *options) *cobra.Command {
	var (
		kind      string
		year      int
		monthFlag string
		out       string
	)
	c := &cobra.Command{
		Use:   "chart",
		Short: "Render a chart to a PNG file",
		Long: `Kinds:
  monthly     income, expenses and net per month of --year
  categories  all-time spending of the top categories
  budget      budget against spending per category for --month`,
		Example: "  budgetctl chart --kind monthly --year 2025 --out trend.png",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = o.now().Year()
			}
			month, err := o.month(monthFlag)
			if err != nil {
				return err
			}
			if out == "" {
				out = kind + ".png"
			}
			return o.withRuntime(cmd, func(ctx context.Context, rt *cli.Runtime) error {
				gen := charts.NewGenerator(o.cfg.CurrencySymbol)
				snap := rt.Store.Snapshot()

				var png []byte
				switch kind {
				case "monthly":
					png, err = gen.MonthlyTrend(budget.MonthlyTotals(snap.Transactions, year), year)
				case "categories":
					png, err = gen.CategoryPie(budget.CategorySpending(snap.Categories, snap.Transactions, budget.DefaultTopCategories))
				case "budget":
					png, err = gen.BudgetBars(budget.ComputeBudgetSummary(snap.Categories, snap.Transactions, month), month)
				default:
					return fmt.Errorf("unknown chart kind %q: must be monthly, categories or budget", kind)
				}
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, png, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(png))
				return nil
			})
		},
	}
	c.Flags().StringVar(&kind, "kind", "monthly", "chart kind: monthly, categories or budget")
	c.Flags().IntVar(&year, "year", 0, "year for the monthly chart (default current year)")
	c.Flags().StringVar(&monthFlag, "month", "", "month for the budget chart as YYYY-MM (default current month)")
	c.Flags().StringVar(&out, "out", "", "output file (default <kind>.png)")
	return c
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"budgettracker/internal/budget"
	"budgettracker/internal/cli"
	"budgettracker/internal/core"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	overStyle   = cellStyle.Foreground(lipgloss.Color("#F44336"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func newSummaryCmd(o *options) *cobra.Command {
	var (
		monthFlag string
		asJSON    bool
	)
	c := &cobra.Command{
		Use:     "summary",
		Short:   "Show budget against spending for a month",
		Example: "  budgetctl summary --month 2025-05",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := o.month(monthFlag)
			if err != nil {
				return err
			}
			return o.withRuntime(cmd, func(ctx context.Context, rt *cli.Runtime) error {
				snap := rt.Store.Snapshot()
				summary := budget.ComputeBudgetSummary(snap.Categories, snap.Transactions, month)
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), summary)
				}
				printSummary(cmd.OutOrStdout(), month, summary, o.cfg.CurrencySymbol)
				return nil
			})
		},
	}
	c.Flags().StringVar(&monthFlag, "month", "", "month as YYYY-MM (default current month)")
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return c
}

func newInsightsCmd(o *options) *cobra.Command {
	var (
		monthFlag string
		asJSON    bool
	)
	c := &cobra.Command{
		Use:     "insights",
		Short:   "Show spending velocity, projection and health score",
		Example: "  budgetctl insights --month 2025-05",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := o.month(monthFlag)
			if err != nil {
				return err
			}
			return o.withRuntime(cmd, func(ctx context.Context, rt *cli.Runtime) error {
				snap := rt.Store.Snapshot()
				summary := budget.ComputeBudgetSummary(snap.Categories, snap.Transactions, month)
				ins := budget.ComputeInsights(summary, budget.DaysElapsed(o.now(), month), month)
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), ins)
				}
				printInsights(cmd.OutOrStdout(), month, ins, o.cfg.CurrencySymbol)
				return nil
			})
		},
	}
	c.Flags().StringVar(&monthFlag, "month", "", "month as YYYY-MM (default current month)")
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return c
}

func printSummary(w io.Writer, month budget.Month, s core.BudgetSummary, symbol string) {
	rows := make([][]string, 0, len(s.CategorySummaries))
	for _, cs := range s.CategorySummaries {
		rows = append(rows, []string{
			cs.CategoryName,
			cs.Budget.Format(symbol),
			cs.Spent.Format(symbol),
			signed(cs.Remaining, symbol),
			strconv.FormatFloat(cs.PercentageUsed, 'f', 1, 64) + "%",
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Category", "Budget", "Spent", "Remaining", "Used").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(s.CategorySummaries) && s.CategorySummaries[row].IsOverBudget:
				return overStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintln(w, titleStyle.Render("Budget "+month.Label()))
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Total: %s of %s spent, %s remaining (%d%%, %s)\n",
		s.TotalSpent.Format(symbol), s.TotalBudget.Format(symbol), signed(s.Remaining, symbol),
		s.UsagePercent(), s.Status())
}

func printInsights(w io.Writer, month budget.Month, ins core.Insights, symbol string) {
	fmt.Fprintln(w, titleStyle.Render("Insights "+month.Label()))
	fmt.Fprintf(w, "Days elapsed:        %d of %d\n", ins.DaysElapsed, ins.TotalDaysInMonth)
	fmt.Fprintf(w, "Daily spending:      %s\n", core.FromFloat(ins.DailySpendingRate).Format(symbol))
	fmt.Fprintf(w, "Daily budget:        %s\n", core.FromFloat(ins.DailyBudgetRate).Format(symbol))
	fmt.Fprintf(w, "Projected month:     %s\n", core.FromFloat(ins.ProjectedMonthlySpending).Format(symbol))
	fmt.Fprintf(w, "Velocity:            %.2f (%s)\n", ins.SpendingVelocity, core.VelocityLabel(ins.SpendingVelocity))
	fmt.Fprintf(w, "Health score:        %d (%s)\n", ins.BudgetHealthScore, core.HealthLabel(ins.BudgetHealthScore))
	fmt.Fprintf(w, "Trend:               %s\n", ins.SpendingTrend)
	for i, cs := range ins.TopSpendingCategories {
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, cs.CategoryName, cs.Spent.Format(symbol))
	}
}

func signed(m core.Money, symbol string) string {
	if m.Cents < 0 {
		return "-" + m.Format(symbol)
	}
	return m.Format(symbol)
}

// Package budget computes budget summaries, dashboard insights and chart
// series from a snapshot of categories and transactions. Every function is
// pure: same inputs, same output, no clock reads.
package budget

import (
	"budgettracker/internal/core"
)

// MonthTransactions returns the transactions dated within month, in input order.
func MonthTransactions(txns []core.Transaction, month Month) []core.Transaction {
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if month.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// ComputeCategorySummary sums the category's expenses dated within month.
// Income recorded against the category never offsets spend.
func ComputeCategorySummary(cat core.Category, txns []core.Transaction, month Month) core.CategorySummary {
	var spent int64
	for _, t := range txns {
		if t.CategoryID != cat.ID || t.Type != core.Expense || !month.Contains(t.Date) {
			continue
		}
		spent += t.Amount.Cents
	}
	return newCategorySummary(cat, spent)
}

func newCategorySummary(cat core.Category, spent int64) core.CategorySummary {
	var pct float64
	if cat.Budget.Cents > 0 {
		pct = float64(spent) / float64(cat.Budget.Cents) * 100
	}
	return core.CategorySummary{
		CategoryID:     cat.ID,
		CategoryName:   cat.Name,
		Budget:         cat.Budget,
		Spent:          core.Money{Cents: spent},
		Remaining:      core.Money{Cents: cat.Budget.Cents - spent},
		PercentageUsed: pct,
		IsOverBudget:   spent > cat.Budget.Cents,
	}
}

// ComputeBudgetSummary maps ComputeCategorySummary over cats, preserving their
// order, and totals the result. Expenses whose category is not in cats are not
// counted anywhere.
func ComputeBudgetSummary(cats []core.Category, txns []core.Transaction, month Month) core.BudgetSummary {
	// Single pass over transactions; equivalent to calling
	// ComputeCategorySummary once per category.
	spentByCategory := make(map[string]int64, len(cats))
	for _, t := range txns {
		if t.Type == core.Expense && month.Contains(t.Date) {
			spentByCategory[t.CategoryID] += t.Amount.Cents
		}
	}

	summary := core.BudgetSummary{
		CategorySummaries: make([]core.CategorySummary, 0, len(cats)),
	}
	for _, c := range cats {
		cs := newCategorySummary(c, spentByCategory[c.ID])
		summary.CategorySummaries = append(summary.CategorySummaries, cs)
		summary.TotalBudget.Cents += c.Budget.Cents
		summary.TotalSpent.Cents += cs.Spent.Cents
	}
	summary.Remaining = core.Money{Cents: summary.TotalBudget.Cents - summary.TotalSpent.Cents}
	return summary
}

package sheets

import (
	"sort"
	"time"

	"budgettracker/internal/budget"
	"budgettracker/internal/core"
)

// ReportTransaction is a transaction with its category resolved to a name.
type ReportTransaction struct {
	Date        core.Date
	Description string
	Category    string
	Type        core.TransactionType
	Amount      core.Money
}

// MonthReport is everything written for one month.
type MonthReport struct {
	Month        budget.Month
	Summary      core.BudgetSummary
	Transactions []ReportTransaction
	GeneratedAt  time.Time
}

// BuildMonthReport summarises month and lists its transactions oldest first.
func BuildMonthReport(cats []core.Category, txns []core.Transaction, month budget.Month, now time.Time) MonthReport {
	monthTxns := budget.MonthTransactions(txns, month)
	rows := make([]ReportTransaction, 0, len(monthTxns))
	for _, t := range monthTxns {
		rows = append(rows, ReportTransaction{
			Date:        t.Date,
			Description: t.Description,
			Category:    core.CategoryName(cats, t.CategoryID),
			Type:        t.Type,
			Amount:      t.Amount,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date.Time) })

	return MonthReport{
		Month:        month,
		Summary:      budget.ComputeBudgetSummary(cats, txns, month),
		Transactions: rows,
		GeneratedAt:  now,
	}
}

// SheetName is the tab a month is exported to, e.g. "Budget 2025-05".
func SheetName(base string, month budget.Month) string {
	return base + " " + month.String()
}

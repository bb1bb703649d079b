package budget

import (
	"sort"
	"time"

	"budgettracker/internal/core"
)

const defaultCategoryIcon = "💰"

// MonthlyPoint is one month of the yearly income/expense series.
type MonthlyPoint struct {
	Month    time.Month `json:"month"`
	Label    string     `json:"label"`
	Income   core.Money `json:"income"`
	Expenses core.Money `json:"expenses"`
	Net      core.Money `json:"net"`
}

// CategorySpend is the all-time expense total of one known category.
type CategorySpend struct {
	CategoryID string     `json:"categoryId"`
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	Icon       string     `json:"icon"`
	Amount     core.Money `json:"amount"`
}

// MonthlyTotals returns twelve points, January first, with income, expenses
// and net for every month of year. Transactions of any category count.
func MonthlyTotals(txns []core.Transaction, year int) []MonthlyPoint {
	points := make([]MonthlyPoint, 12)
	for i := range points {
		m := time.Month(i + 1)
		points[i] = MonthlyPoint{Month: m, Label: m.String()[:3]}
	}
	for _, t := range txns {
		if t.Date.IsZero() || t.Date.Year() != year {
			continue
		}
		p := &points[t.Date.Month()-1]
		switch t.Type {
		case core.Income:
			p.Income.Cents += t.Amount.Cents
		case core.Expense:
			p.Expenses.Cents += t.Amount.Cents
		}
	}
	for i := range points {
		points[i].Net = core.Money{Cents: points[i].Income.Cents - points[i].Expenses.Cents}
	}
	return points
}

// DefaultTopCategories is how many categories spending breakdowns show when
// the caller does not ask for a limit.
const DefaultTopCategories = 10

// CategorySpending totals expenses per known category across all dates,
// largest first, truncated to limit (limit <= 0 keeps everything). Ties keep
// category order.
func CategorySpending(cats []core.Category, txns []core.Transaction, limit int) []CategorySpend {
	totals := make(map[string]int64, len(cats))
	for _, t := range txns {
		if t.Type == core.Expense {
			totals[t.CategoryID] += t.Amount.Cents
		}
	}
	out := make([]CategorySpend, 0, len(cats))
	for _, c := range cats {
		amount, ok := totals[c.ID]
		if !ok {
			continue
		}
		icon := c.Icon
		if icon == "" {
			icon = defaultCategoryIcon
		}
		out = append(out, CategorySpend{
			CategoryID: c.ID,
			Name:       c.Name,
			Color:      c.Color,
			Icon:       icon,
			Amount:     core.Money{Cents: amount},
		})
		delete(totals, c.ID)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecentTransactions returns the n most recent transactions by date. Same-day
// transactions keep their later-recorded-first order.
func RecentTransactions(txns []core.Transaction, n int) []core.Transaction {
	out := make([]core.Transaction, len(txns))
	for i := range txns {
		out[i] = txns[len(txns)-1-i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

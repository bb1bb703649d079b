package budget

import (
	"time"

	"budgettracker/internal/core"
)

const recentTransactionsLimit = 5

// Dashboard is the read-only view model of the dashboard page.
type Dashboard struct {
	Month              string             `json:"month"`
	MonthLabel         string             `json:"monthLabel"`
	Current            core.BudgetSummary `json:"currentMonth"`
	Previous           core.BudgetSummary `json:"previousMonth"`
	Insights           core.Insights      `json:"insights"`
	UsagePercent       int                `json:"usagePercent"`
	Status             core.BudgetStatus  `json:"status"`
	HealthLabel        string             `json:"healthLabel"`
	VelocityLabel      string             `json:"velocityLabel"`
	RecentTransactions []core.Transaction `json:"recentTransactions"`
}

// BuildDashboard assembles the dashboard for month as seen on today. today is
// only used to derive the elapsed days of month. Recent transactions are the
// latest of month only.
func BuildDashboard(cats []core.Category, txns []core.Transaction, month Month, today time.Time) Dashboard {
	current := ComputeBudgetSummary(cats, txns, month)
	insights := ComputeInsights(current, DaysElapsed(today, month), month)
	return Dashboard{
		Month:              month.String(),
		MonthLabel:         month.Label(),
		Current:            current,
		Previous:           ComputeBudgetSummary(cats, txns, month.Prev()),
		Insights:           insights,
		UsagePercent:       current.UsagePercent(),
		Status:             current.Status(),
		HealthLabel:        core.HealthLabel(insights.BudgetHealthScore),
		VelocityLabel:      core.VelocityLabel(insights.SpendingVelocity),
		RecentTransactions: RecentTransactions(MonthTransactions(txns, month), recentTransactionsLimit),
	}
}

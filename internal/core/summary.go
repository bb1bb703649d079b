package core

import "math"

// CategorySummary is budget-vs-actual for one category over one month.
type CategorySummary struct {
	CategoryID     string  `json:"categoryId"`
	CategoryName   string  `json:"categoryName"`
	Budget         Money   `json:"budget"`
	Spent          Money   `json:"spent"`
	Remaining      Money   `json:"remaining"`
	PercentageUsed float64 `json:"percentageUsed"`
	IsOverBudget   bool    `json:"isOverBudget"`
}

// BudgetSummary aggregates CategorySummaries in category input order.
type BudgetSummary struct {
	TotalBudget       Money             `json:"totalBudget"`
	TotalSpent        Money             `json:"totalSpent"`
	Remaining         Money             `json:"remaining"`
	CategorySummaries []CategorySummary `json:"categorySummaries"`
}

type SpendingTrend string

const (
	TrendIncreasing SpendingTrend = "increasing"
	TrendDecreasing SpendingTrend = "decreasing"
)

// Insights are the dashboard metrics derived from a BudgetSummary.
type Insights struct {
	DaysElapsed              int               `json:"daysElapsed"`
	TotalDaysInMonth         int               `json:"totalDaysInMonth"`
	DailySpendingRate        float64           `json:"dailySpendingRate"`
	ProjectedMonthlySpending float64           `json:"projectedMonthlySpending"`
	DailyBudgetRate          float64           `json:"dailyBudgetRate"`
	SpendingVelocity         float64           `json:"spendingVelocity"`
	BudgetHealthScore        int               `json:"budgetHealthScore"`
	TopSpendingCategories    []CategorySummary `json:"topSpendingCategories"`
	IsOverSpending           bool              `json:"isOverSpending"`
	SpendingTrend            SpendingTrend     `json:"spendingTrend"`
}

type BudgetStatus string

const (
	StatusOverBudget BudgetStatus = "over_budget"
	StatusNearLimit  BudgetStatus = "near_limit"
	StatusOnTrack    BudgetStatus = "on_track"
)

// UsagePercent is TotalSpent/TotalBudget as a rounded percentage, 0 without a budget.
func (s BudgetSummary) UsagePercent() int {
	if s.TotalBudget.Cents <= 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalSpent.Cents) / float64(s.TotalBudget.Cents) * 100))
}

// Status classifies overall usage; above 80% of the budget is near the limit.
func (s BudgetSummary) Status() BudgetStatus {
	if s.TotalSpent.Cents > s.TotalBudget.Cents {
		return StatusOverBudget
	}
	if s.TotalBudget.Cents > 0 && float64(s.TotalSpent.Cents)/float64(s.TotalBudget.Cents) > 0.8 {
		return StatusNearLimit
	}
	return StatusOnTrack
}

// HealthLabel buckets a health score the way the dashboard presents it.
func HealthLabel(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "poor"
	}
}

// VelocityLabel buckets a spending velocity ratio.
func VelocityLabel(v float64) string {
	switch {
	case v > 1.2:
		return "too_fast"
	case v > 1:
		return "slightly_fast"
	default:
		return "on_track"
	}
}

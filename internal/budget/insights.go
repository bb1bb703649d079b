package budget

import (
	"math"
	"sort"
	"time"

	"budgettracker/internal/core"
)

const topSpendingLimit = 3

// DaysElapsed is the number of days of month that have passed as of today:
// today's day for the current month (capped at the month length), the whole
// month for past months and zero for future months.
func DaysElapsed(today time.Time, month Month) int {
	current := MonthOf(today)
	switch {
	case current == month:
		return min(today.Day(), month.Days())
	case month.Before(current):
		return month.Days()
	default:
		return 0
	}
}

// ComputeInsights derives the dashboard metrics for summary over month.
// daysElapsed is supplied by the caller (see DaysElapsed) and clamped to
// [0, days in month]. Every ratio with a zero denominator is defined as 0.
func ComputeInsights(summary core.BudgetSummary, daysElapsed int, month Month) core.Insights {
	totalDays := month.Days()
	daysElapsed = max(0, min(daysElapsed, totalDays))

	totalSpent := summary.TotalSpent.Float()
	totalBudget := summary.TotalBudget.Float()

	dailySpending := safeDiv(totalSpent, float64(daysElapsed))
	projected := dailySpending * float64(totalDays)
	dailyBudget := safeDiv(totalBudget, float64(totalDays))

	trend := core.TrendDecreasing
	if projected > totalBudget {
		trend = core.TrendIncreasing
	}

	return core.Insights{
		DaysElapsed:              daysElapsed,
		TotalDaysInMonth:         totalDays,
		DailySpendingRate:        dailySpending,
		ProjectedMonthlySpending: projected,
		DailyBudgetRate:          dailyBudget,
		SpendingVelocity:         safeDiv(dailySpending, dailyBudget),
		BudgetHealthScore:        HealthScore(summary),
		TopSpendingCategories:    TopSpendingCategories(summary.CategorySummaries, topSpendingLimit),
		IsOverSpending:           dailySpending > dailyBudget,
		SpendingTrend:            trend,
	}
}

// HealthScore is 100 minus the rounded percentage of budget consumed, clamped
// to [0, 100]. Without any budget the score is 100.
func HealthScore(summary core.BudgetSummary) int {
	if summary.TotalBudget.Cents <= 0 {
		return 100
	}
	used := math.Round(float64(summary.TotalSpent.Cents) / float64(summary.TotalBudget.Cents) * 100)
	return int(max(0, min(100, 100-used)))
}

// TopSpendingCategories returns up to limit summaries with a budget, ordered by
// spent descending. Ties keep input order.
func TopSpendingCategories(summaries []core.CategorySummary, limit int) []core.CategorySummary {
	top := make([]core.CategorySummary, 0, len(summaries))
	for _, s := range summaries {
		if s.Budget.Cents > 0 {
			top = append(top, s)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Spent.Cents > top[j].Spent.Cents
	})
	if limit >= 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

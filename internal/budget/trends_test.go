package budget

import (
	"testing"
	"time"

	"budgettracker/internal/core"
)

func TestMonthlyTotals(t *testing.T) {
	txns := []core.Transaction{
		income("salary", "c1", 500000, core.NewDate(2025, 1, 1)),
		expense("rent", "c1", 200000, core.NewDate(2025, 1, 2)),
		expense("orphan", "gone", 1000, core.NewDate(2025, 3, 9)),
		expense("last year", "c1", 99999, core.NewDate(2024, 12, 31)),
	}

	got := MonthlyTotals(txns, 2025)
	if len(got) != 12 {
		t.Fatalf("expected 12 points, got %d", len(got))
	}
	if got[0].Label != "Jan" || got[0].Month != time.January {
		t.Fatalf("unexpected first point %+v", got[0])
	}
	if got[0].Income.Cents != 500000 || got[0].Expenses.Cents != 200000 || got[0].Net.Cents != 300000 {
		t.Fatalf("unexpected january totals %+v", got[0])
	}
	if got[2].Net.Cents != -1000 {
		t.Fatalf("expected orphan expense in march net, got %+v", got[2])
	}
	if got[11].Expenses.Cents != 0 {
		t.Fatalf("previous year leaked into december: %+v", got[11])
	}
}

func TestCategorySpending(t *testing.T) {
	cats := []core.Category{
		{ID: "a", Name: "Food", Color: "#1"},
		{ID: "b", Name: "Rent", Icon: "🏠"},
		{ID: "c", Name: "Idle"},
		{ID: "d", Name: "Fun"},
	}
	txns := []core.Transaction{
		expense("t1", "a", 300, core.NewDate(2024, 1, 1)),
		expense("t2", "b", 900, core.NewDate(2025, 2, 1)),
		expense("t3", "d", 300, core.NewDate(2025, 3, 1)),
		income("t4", "c", 5000, core.NewDate(2025, 3, 1)),
		expense("t5", "gone", 99999, core.NewDate(2025, 3, 1)),
	}

	got := CategorySpending(cats, txns, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 categories with expenses, got %+v", got)
	}
	if got[0].CategoryID != "b" || got[1].CategoryID != "a" || got[2].CategoryID != "d" {
		t.Fatalf("unexpected order %+v", got)
	}
	if got[1].Icon != defaultCategoryIcon || got[0].Icon != "🏠" {
		t.Fatalf("unexpected icons %+v", got)
	}

	if limited := CategorySpending(cats, txns, 1); len(limited) != 1 || limited[0].CategoryID != "b" {
		t.Fatalf("limit not applied: %+v", limited)
	}
}

func TestRecentTransactions(t *testing.T) {
	txns := []core.Transaction{
		expense("old", "c", 1, core.NewDate(2025, 1, 1)),
		expense("same-day-first", "c", 1, core.NewDate(2025, 5, 1)),
		expense("same-day-second", "c", 1, core.NewDate(2025, 5, 1)),
		expense("newest", "c", 1, core.NewDate(2025, 6, 1)),
	}

	got := RecentTransactions(txns, 3)
	want := []string{"newest", "same-day-second", "same-day-first"}
	if len(got) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
	if txns[0].ID != "old" {
		t.Fatalf("input slice was mutated")
	}
}

func TestBuildDashboard(t *testing.T) {
	cats := []core.Category{{ID: "c1", Name: "Food", Budget: core.Money{Cents: 10000}}}
	txns := []core.Transaction{
		expense("now", "c1", 9000, core.NewDate(2025, 5, 3)),
		expense("before", "c1", 4000, core.NewDate(2025, 4, 20)),
	}
	today := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	d := BuildDashboard(cats, txns, MonthOf(today), today)
	if d.Month != "2025-05" {
		t.Fatalf("unexpected month %q", d.Month)
	}
	if d.Current.TotalSpent.Cents != 9000 || d.Previous.TotalSpent.Cents != 4000 {
		t.Fatalf("unexpected summaries %+v / %+v", d.Current, d.Previous)
	}
	if d.UsagePercent != 90 || d.Status != core.StatusNearLimit {
		t.Fatalf("unexpected usage %d %s", d.UsagePercent, d.Status)
	}
	if d.Insights.DaysElapsed != 10 || d.HealthLabel != "poor" || d.VelocityLabel != "too_fast" {
		t.Fatalf("unexpected insights %+v %s %s", d.Insights, d.HealthLabel, d.VelocityLabel)
	}
	if len(d.RecentTransactions) != 1 || d.RecentTransactions[0].ID != "now" {
		t.Fatalf("unexpected recent transactions %+v", d.RecentTransactions)
	}

	april := BuildDashboard(cats, txns, Month{Year: 2025, Month: time.April}, today)
	if len(april.RecentTransactions) != 1 || april.RecentTransactions[0].ID != "before" {
		t.Errorf("April dashboard recent transactions = %+v, want only April's", april.RecentTransactions)
	}
}

// Package sample generates a realistic starter ledger for demos.
package sample

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"budgettracker/internal/budget"
	"budgettracker/internal/core"
	"budgettracker/internal/store"
)

// Data is one generated ledger.
type Data struct {
	Categories        []core.Category
	Transactions      []core.Transaction
	RecurringPayments []core.RecurringPayment
}

type categorySeed struct {
	name   string
	budget int64
}

var categorySeeds = []categorySeed{
	{"Groceries", 800},
	{"Food & Dining", 400},
	{"Transport", 300},
	{"Entertainment", 200},
	{"Shopping", 250},
	{"Utilities", 150},
	{"Healthcare", 100},
	{"Savings", 500},
}

// monthsOfHistory is the number of months, the current one included, that
// receive transactions.
const monthsOfHistory = 3

// Generate builds eight categories, transactions for the current and two
// previous months of now, and four recurring payments. Amounts are drawn from
// rng; every record passes validation.
func Generate(now time.Time, rng *rand.Rand) Data {
	cats := make([]core.Category, 0, len(categorySeeds))
	byName := make(map[string]string, len(categorySeeds))
	for _, seed := range categorySeeds {
		c := core.Category{ID: core.NewID(), Name: seed.name, Budget: whole(seed.budget)}
		if s, ok := core.FindSuggestion(seed.name); ok {
			c.Color, c.Icon = s.Color, s.Icon
		} else {
			c.Color = core.RandomColor()
		}
		cats = append(cats, c)
		byName[seed.name] = c.ID
	}

	g := generator{rng: rng, cats: byName}
	month := budget.MonthOf(now)
	for i := 0; i < monthsOfHistory; i++ {
		g.month(month)
		month = month.Prev()
	}

	return Data{
		Categories:        cats,
		Transactions:      g.txns,
		RecurringPayments: recurringPayments(byName),
	}
}

type generator struct {
	rng  *rand.Rand
	cats map[string]string
	txns []core.Transaction
}

func (g *generator) month(m budget.Month) {
	g.add(m, "Savings", "Salary", 15, core.Income, 3500, 1000)
	for i := 0; i < 8; i++ {
		g.add(m, "Groceries", fmt.Sprintf("Grocery shopping %d", i+1), 5+i*3, core.Expense, 20, 80)
	}
	for i := 0; i < 6; i++ {
		g.add(m, "Food & Dining", fmt.Sprintf("Restaurant %d", i+1), 2+i*4, core.Expense, 15, 35)
	}
	for i := 0; i < 4; i++ {
		g.add(m, "Transport", fmt.Sprintf("Fuel %d", i+1), 7+i*7, core.Expense, 25, 25)
	}
	for i := 0; i < 3; i++ {
		g.add(m, "Entertainment", fmt.Sprintf("Movie night %d", i+1), 10+i*8, core.Expense, 30, 70)
	}
	for i := 0; i < 2; i++ {
		g.add(m, "Shopping", fmt.Sprintf("Shopping %d", i+1), 12+i*15, core.Expense, 50, 100)
	}
	g.add(m, "Utilities", "Electricity bill", 25, core.Expense, 120, 30)
	if g.rng.Float64() > 0.7 {
		g.add(m, "Healthcare", "Doctor visit", 20+g.rng.IntN(10), core.Expense, 80, 120)
	}
}

// add records a whole amount in [base, base+spread). Days past the end of
// the month land on its last day.
func (g *generator) add(m budget.Month, category, desc string, day int, typ core.TransactionType, base, spread int64) {
	g.txns = append(g.txns, core.Transaction{
		ID:          core.NewID(),
		Amount:      whole(base + g.rng.Int64N(spread)),
		CategoryID:  g.cats[category],
		Description: desc,
		Date:        core.NewDate(m.Year, int(m.Month), min(day, m.Days())),
		Type:        typ,
	})
}

func recurringPayments(cats map[string]string) []core.RecurringPayment {
	seeds := []struct {
		category, desc string
		amount         int64
		day            int
	}{
		{"Savings", "Rent", 1200, 1},
		{"Utilities", "Internet & Phone", 150, 15},
		{"Transport", "Car Insurance", 80, 20},
		{"Entertainment", "Netflix & Spotify", 25, 28},
	}
	out := make([]core.RecurringPayment, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, core.RecurringPayment{
			ID:             core.NewID(),
			Amount:         whole(s.amount),
			CategoryID:     cats[s.category],
			Description:    s.desc,
			RecurrenceDate: s.day,
			IsActive:       true,
		})
	}
	return out
}

func whole(units int64) core.Money {
	return core.Money{Cents: units * 100}
}

// Load replaces the store contents with generated data.
func Load(ctx context.Context, s *store.Store, now time.Time, rng *rand.Rand) (Data, error) {
	d := Generate(now, rng)
	if err := s.Replace(ctx, d.Categories, d.Transactions, d.RecurringPayments); err != nil {
		return Data{}, fmt.Errorf("load sample data: %w", err)
	}
	return d, nil
}

// LoadIfEmpty loads sample data only into a store with no categories,
// transactions or recurring payments.
func LoadIfEmpty(ctx context.Context, s *store.Store, now time.Time, rng *rand.Rand) (bool, error) {
	snap := s.Snapshot()
	if len(snap.Categories)+len(snap.Transactions)+len(snap.RecurringPayments) > 0 {
		return false, nil
	}
	if _, err := Load(ctx, s, now, rng); err != nil {
		return false, err
	}
	return true, nil
}

package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"budgettracker/internal/core"
	"budgettracker/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.Repository) {
	t.Helper()
	repo := storage.NewRepository(storage.NewMemoryKV(), nil)
	return New(repo), repo
}

func ptr[T any](v T) *T { return &v }

func food() core.Category {
	return core.Category{Name: "Food", Budget: core.Money{Cents: 10000}, Color: "#FF9800"}
}

func lunch(catID string) core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: 3000},
		CategoryID:  catID,
		Description: "Lunch",
		Date:        core.NewDate(2025, 5, 3),
		Type:        core.Expense,
	}
}

// failingRepo accepts reads and fails every write.
type failingRepo struct{}

func (failingRepo) Categories(context.Context) []core.Category { return []core.Category{} }
func (failingRepo) Transactions(context.Context) []core.Transaction {
	return []core.Transaction{}
}
func (failingRepo) RecurringPayments(context.Context) []core.RecurringPayment {
	return []core.RecurringPayment{}
}
func (failingRepo) SaveCategories(context.Context, []core.Category) error {
	return errors.New("quota exceeded")
}
func (failingRepo) SaveTransactions(context.Context, []core.Transaction) error {
	return errors.New("quota exceeded")
}
func (failingRepo) SaveRecurringPayments(context.Context, []core.RecurringPayment) error {
	return errors.New("quota exceeded")
}
func (failingRepo) ClearAll(context.Context) error { return errors.New("quota exceeded") }

func TestAddCategoryPersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)

	var events []Event
	unsubscribe := s.Subscribe(func(e Event) { events = append(events, e) })

	c, err := s.AddCategory(ctx, core.Category{Name: "  Food  ", Budget: core.Money{Cents: 10000}})
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if c.ID == "" || c.Name != "Food" || c.Color == "" {
		t.Fatalf("unexpected category %+v", c)
	}
	if got := repo.Categories(ctx); len(got) != 1 || got[0] != c {
		t.Fatalf("category not persisted: %+v", got)
	}
	if len(events) != 1 || events[0].Type != CategoryCreated || events[0].ID != c.ID || events[0].Revision != 1 {
		t.Fatalf("unexpected events %+v", events)
	}

	unsubscribe()
	unsubscribe()
	if _, err := s.AddCategory(ctx, food()); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("listener called after unsubscribe")
	}
	if s.Revision() != 2 {
		t.Fatalf("expected revision 2, got %d", s.Revision())
	}
}

func TestValidationFailureDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	notified := false
	s.Subscribe(func(Event) { notified = true })

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"empty category name", func() error {
			_, err := s.AddCategory(ctx, core.Category{Name: "  "})
			return err
		}, core.ErrEmptyName},
		{"negative budget", func() error {
			_, err := s.AddCategory(ctx, core.Category{Name: "X", Budget: core.Money{Cents: -1}})
			return err
		}, core.ErrInvalidBudget},
		{"zero amount", func() error {
			tx := lunch("c")
			tx.Amount = core.Money{}
			_, err := s.AddTransaction(ctx, tx)
			return err
		}, core.ErrInvalidAmount},
		{"bad type", func() error {
			tx := lunch("c")
			tx.Type = "transfer"
			_, err := s.AddTransaction(ctx, tx)
			return err
		}, core.ErrInvalidType},
		{"recurrence day 32", func() error {
			_, err := s.AddRecurringPayment(ctx, core.RecurringPayment{
				Amount: core.Money{Cents: 100}, CategoryID: "c", Description: "Gym", RecurrenceDate: 32,
			})
			return err
		}, core.ErrInvalidRecurrenceDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}

	snap := s.Snapshot()
	if len(snap.Categories)+len(snap.Transactions)+len(snap.RecurringPayments) != 0 || snap.Revision != 0 {
		t.Fatalf("store mutated on validation failure: %+v", snap)
	}
	if notified {
		t.Fatal("listener notified on validation failure")
	}
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)
	c, _ := s.AddCategory(ctx, food())

	updated, err := s.UpdateCategory(ctx, c.ID, core.CategoryPatch{Budget: &core.Money{Cents: 25000}})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if updated.Budget.Cents != 25000 || updated.Name != "Food" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if got := repo.Categories(ctx); got[0].Budget.Cents != 25000 {
		t.Fatalf("update not persisted %+v", got)
	}

	if _, err := s.UpdateCategory(ctx, c.ID, core.CategoryPatch{Name: ptr("")}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if got, _ := s.Category(c.ID); got.Name != "Food" {
		t.Fatalf("failed patch changed category: %+v", got)
	}
	if _, err := s.UpdateCategory(ctx, "missing", core.CategoryPatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCategoryKeepsTransactions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	c, _ := s.AddCategory(ctx, food())
	tx, _ := s.AddTransaction(ctx, lunch(c.ID))

	if err := s.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if len(s.Categories()) != 0 {
		t.Fatal("category not deleted")
	}
	got, err := s.Transaction(tx.ID)
	if err != nil {
		t.Fatalf("transaction lost: %v", err)
	}
	if name := core.CategoryName(s.Categories(), got.CategoryID); name != core.UncategorizedLabel {
		t.Fatalf("expected dangling reference to render uncategorized, got %q", name)
	}
	if err := s.DeleteCategory(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)

	tx, err := s.AddTransaction(ctx, lunch("food"))
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	updated, err := s.UpdateTransaction(ctx, tx.ID, core.TransactionPatch{Description: ptr("Dinner")})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if updated.Description != "Dinner" || updated.Amount != tx.Amount {
		t.Fatalf("unexpected update %+v", updated)
	}
	if _, err := s.UpdateTransaction(ctx, tx.ID, core.TransactionPatch{Amount: &core.Money{Cents: -5}}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if len(repo.Transactions(ctx)) != 0 {
		t.Fatal("delete not persisted")
	}
}

func TestRecurringPaymentLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	stale := time.Now()

	p, err := s.AddRecurringPayment(ctx, core.RecurringPayment{
		Amount: core.Money{Cents: 64900}, CategoryID: "fun", Description: "Netflix",
		RecurrenceDate: 28, IsActive: true, LastProcessed: &stale,
	})
	if err != nil {
		t.Fatalf("AddRecurringPayment: %v", err)
	}
	if p.LastProcessed != nil {
		t.Fatal("new payments start unprocessed")
	}

	processed := time.Date(2025, 5, 28, 8, 0, 0, 0, time.UTC)
	updated, err := s.UpdateRecurringPayment(ctx, p.ID, core.RecurringPaymentPatch{LastProcessed: &processed, IsActive: ptr(false)})
	if err != nil {
		t.Fatalf("UpdateRecurringPayment: %v", err)
	}
	if updated.IsActive || updated.LastProcessed == nil || !updated.LastProcessed.Equal(processed) {
		t.Fatalf("unexpected update %+v", updated)
	}

	*updated.LastProcessed = time.Time{}
	if got, _ := s.RecurringPayment(p.ID); !got.LastProcessed.Equal(processed) {
		t.Fatal("returned payment aliases store state")
	}

	if err := s.DeleteRecurringPayment(ctx, p.ID); err != nil {
		t.Fatalf("DeleteRecurringPayment: %v", err)
	}
	if _, err := s.RecurringPayment(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPersistenceFailureIsNotPropagated(t *testing.T) {
	ctx := context.Background()
	s := New(failingRepo{})

	c, err := s.AddCategory(ctx, food())
	if err != nil {
		t.Fatalf("persistence failure must not surface: %v", err)
	}
	if _, err := s.Category(c.ID); err != nil {
		t.Fatalf("in-memory state lost: %v", err)
	}
	s.Reset(ctx)
	if len(s.Categories()) != 0 {
		t.Fatal("reset should clear memory even when storage fails")
	}
}

func TestLoadAndReset(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewRepository(storage.NewMemoryKV(), nil)
	first := New(repo)
	c, _ := first.AddCategory(ctx, food())
	first.AddTransaction(ctx, lunch(c.ID))

	second := New(repo)
	var loaded bool
	second.Subscribe(func(e Event) { loaded = loaded || e.Type == StoreLoaded })
	second.Load(ctx)
	if !loaded {
		t.Fatal("expected StoreLoaded event")
	}
	snap := second.Snapshot()
	if len(snap.Categories) != 1 || len(snap.Transactions) != 1 {
		t.Fatalf("unexpected loaded snapshot %+v", snap)
	}

	second.Reset(ctx)
	if len(repo.Categories(ctx)) != 0 || len(repo.Transactions(ctx)) != 0 {
		t.Fatal("reset did not clear storage")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.AddCategory(ctx, food())

	snap := s.Snapshot()
	snap.Categories[0].Name = "Hacked"
	if s.Categories()[0].Name != "Food" {
		t.Fatal("snapshot aliases store state")
	}
}

func TestQuickAddAndSuggestions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	before := len(s.AvailableSuggestions())
	if before != len(core.DefaultCategories) {
		t.Fatalf("expected all suggestions, got %d", before)
	}

	c, err := s.QuickAddCategory(ctx, "Groceries")
	if err != nil {
		t.Fatalf("QuickAddCategory: %v", err)
	}
	if c.Budget.Cents != 0 || c.Icon != "🛒" || c.Color != "#4CAF50" {
		t.Fatalf("unexpected quick-add category %+v", c)
	}
	if got := len(s.AvailableSuggestions()); got != before-1 {
		t.Fatalf("expected %d suggestions, got %d", before-1, got)
	}
	if _, err := s.QuickAddCategory(ctx, "Groceries"); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := s.QuickAddCategory(ctx, "Yachts"); !errors.Is(err, ErrUnknownSuggestion) {
		t.Fatalf("expected ErrUnknownSuggestion, got %v", err)
	}
}

func TestConcurrentQuickAddCreatesOneCategory(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.QuickAddCategory(ctx, "Groceries")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrCategoryExists):
				dupes++
			default:
				t.Errorf("QuickAddCategory: %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 || dupes != workers-1 {
		t.Fatalf("created %d, duplicates %d; want 1 and %d", created, dupes, workers-1)
	}
	if got := len(s.Categories()); got != 1 {
		t.Fatalf("expected one stored category, got %d", got)
	}
}

func TestFilterTransactions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	add := func(desc, cat string, typ core.TransactionType, day int) {
		t.Helper()
		_, err := s.AddTransaction(ctx, core.Transaction{
			Amount: core.Money{Cents: 100}, CategoryID: cat, Description: desc,
			Date: core.NewDate(2025, 5, day), Type: typ,
		})
		if err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}
	add("Coffee beans", "food", core.Expense, 1)
	add("Salary", "work", core.Income, 2)
	add("Iced COFFEE", "food", core.Expense, 3)
	add("Bus ticket", "transport", core.Expense, 3)

	tests := []struct {
		name   string
		filter TransactionFilter
		want   []string
	}{
		{"all, newest first", TransactionFilter{}, []string{"Bus ticket", "Iced COFFEE", "Salary", "Coffee beans"}},
		{"search is case-insensitive", TransactionFilter{Search: "coffee"}, []string{"Iced COFFEE", "Coffee beans"}},
		{"by category", TransactionFilter{CategoryID: "transport"}, []string{"Bus ticket"}},
		{"by type", TransactionFilter{Type: core.Income}, []string{"Salary"}},
		{"no match", TransactionFilter{Search: "rent"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.FilterTransactions(tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Description != tt.want[i] {
					t.Errorf("result %d = %q, want %q", i, got[i].Description, tt.want[i])
				}
			}
		})
	}
}

func TestReplaceValidatesFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.AddCategory(ctx, food())

	err := s.Replace(ctx, []core.Category{{ID: "x", Name: ""}}, nil, nil)
	if !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if len(s.Categories()) != 1 {
		t.Fatal("failed replace mutated the store")
	}

	if err := s.Replace(ctx, []core.Category{{ID: "x", Name: "Rent", Color: "#fff"}}, []core.Transaction{lunch("x")}, nil); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Categories) != 1 || snap.Categories[0].ID != "x" || len(snap.Transactions) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddTransaction(ctx, lunch("food")); err != nil {
				t.Errorf("AddTransaction: %v", err)
			}
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	if n := len(s.Transactions()); n != 50 {
		t.Fatalf("expected 50 transactions, got %d", n)
	}
	if n := len(repo.Transactions(ctx)); n != 50 {
		t.Fatalf("expected 50 persisted transactions, got %d", n)
	}
	if s.Revision() != 50 {
		t.Fatalf("expected revision 50, got %d", s.Revision())
	}
}

package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"budgettracker/internal/core"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileKV(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	sqlite, err := NewSQLiteKV(filepath.Join(dir, "db", "budget.db"))
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]KV{
		"memory": NewMemoryKV(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	processed := time.Date(2025, 5, 15, 9, 30, 0, 0, time.UTC)

	var cats []core.Category
	for i := 0; i < 25; i++ {
		cats = append(cats, core.Category{
			ID:     fmt.Sprintf("cat-%02d", i),
			Name:   fmt.Sprintf("Category %d", i),
			Budget: core.Money{Cents: int64(i) * 1234},
			Color:  "#4CAF50",
			Icon:   "🛒",
		})
	}
	txns := []core.Transaction{
		{ID: "t1", Amount: core.Money{Cents: 1250}, CategoryID: "cat-01", Description: "Lunch", Date: core.NewDate(2025, 5, 3), Type: core.Expense},
		{ID: "t2", Amount: core.Money{Cents: 500000}, CategoryID: "cat-02", Description: "Salary", Date: core.NewDate(2025, 5, 1), Type: core.Income},
	}
	payments := []core.RecurringPayment{
		{ID: "r1", Amount: core.Money{Cents: 1500000}, CategoryID: "cat-03", Description: "Rent", RecurrenceDate: 1, IsActive: true},
		{ID: "r2", Amount: core.Money{Cents: 64900}, CategoryID: "cat-04", Description: "Netflix", RecurrenceDate: 28, IsActive: false, LastProcessed: &processed},
	}

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewRepository(kv, nil)
			if err := repo.SaveCategories(ctx, cats); err != nil {
				t.Fatalf("SaveCategories: %v", err)
			}
			if err := repo.SaveTransactions(ctx, txns); err != nil {
				t.Fatalf("SaveTransactions: %v", err)
			}
			if err := repo.SaveRecurringPayments(ctx, payments); err != nil {
				t.Fatalf("SaveRecurringPayments: %v", err)
			}

			if got := repo.Categories(ctx); !reflect.DeepEqual(got, cats) {
				t.Fatalf("categories round trip mismatch:\n got %+v\nwant %+v", got, cats)
			}
			if got := repo.Transactions(ctx); !reflect.DeepEqual(got, txns) {
				t.Fatalf("transactions round trip mismatch:\n got %+v\nwant %+v", got, txns)
			}
			got := repo.RecurringPayments(ctx)
			if len(got) != 2 || got[1].LastProcessed == nil || !got[1].LastProcessed.Equal(processed) {
				t.Fatalf("recurring payments round trip mismatch: %+v", got)
			}
			if got[0].LastProcessed != nil || got[0].Description != "Rent" || got[0].Amount.Cents != 1500000 {
				t.Fatalf("unexpected first payment %+v", got[0])
			}

			if err := repo.ClearAll(ctx); err != nil {
				t.Fatalf("ClearAll: %v", err)
			}
			if n := len(repo.Categories(ctx)); n != 0 {
				t.Fatalf("expected no categories after ClearAll, got %d", n)
			}
		})
	}
}

func TestRepositoryMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	repo := NewRepository(kv, nil)

	if got := repo.Transactions(ctx); got == nil || len(got) != 0 {
		t.Fatalf("missing key should yield empty non-nil slice, got %#v", got)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"id":"x"}`},
		{"null", "null"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := kv.Set(ctx, KeyCategories, []byte(tt.raw)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got := repo.Categories(ctx)
			if got == nil || len(got) != 0 {
				t.Fatalf("expected empty slice, got %#v", got)
			}
		})
	}
}

func TestRepositoryPersistedFormat(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	repo := NewRepository(kv, nil)

	err := repo.SaveTransactions(ctx, []core.Transaction{
		{ID: "t1", Amount: core.Money{Cents: 1250}, CategoryID: "c", Description: "Tea", Date: core.NewDate(2025, 1, 9), Type: core.Expense},
	})
	if err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}
	raw, found, _ := kv.Get(ctx, KeyTransactions)
	if !found {
		t.Fatal("expected key to be written")
	}
	want := `[{"id":"t1","amount":12.5,"categoryId":"c","description":"Tea","date":"2025-01-09","type":"expense"}]`
	if string(raw) != want {
		t.Fatalf("persisted form = %s, want %s", raw, want)
	}
}

func TestRepositorySaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := NewRepository(kv, nil).SaveCategories(ctx, nil); err != nil {
		t.Fatalf("SaveCategories: %v", err)
	}
	raw, _, _ := kv.Get(ctx, KeyCategories)
	if string(raw) != "[]" {
		t.Fatalf("expected [], got %s", raw)
	}
}

func TestFileKVRejectsPathKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	if err := kv.Set(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatal("expected error for key with path separator")
	}
	if err := kv.Delete(context.Background(), "never-written"); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
}

func TestMemoryKVClosed(t *testing.T) {
	kv := NewMemoryKV()
	kv.Close()
	if _, _, err := kv.Get(context.Background(), "k"); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

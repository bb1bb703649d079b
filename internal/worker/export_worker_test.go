package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgettracker/internal/amqp"
	"budgettracker/internal/budget"
	"budgettracker/internal/core"
	"budgettracker/internal/sheets"
	"budgettracker/internal/sheets/memory"
	"budgettracker/internal/storage"
	"budgettracker/internal/store"
)

type recordingExporter struct {
	months []string
	err    error
}

func (r *recordingExporter) ExportMonth(_ context.Context, rep sheets.MonthReport) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.months = append(r.months, rep.Month.String())
	return "ref:" + rep.Month.String(), nil
}

func newWorker(t *testing.T, exp sheets.Exporter) (*ExportWorker, *storage.Repository) {
	t.Helper()
	repo := storage.NewRepository(storage.NewMemoryKV(), nil)
	w := NewExportWorker(store.New(repo), exp, nil)
	w.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }
	return w, repo
}

func TestHandleChangeMonthSelection(t *testing.T) {
	tests := []struct {
		name string
		msg  amqp.ChangeMessage
		want []string
	}{
		{"transaction month", amqp.ChangeMessage{Type: "transaction.created", Month: "2025-04"}, []string{"2025-04"}},
		{"no month uses current", amqp.ChangeMessage{Type: "category.updated"}, []string{"2025-06"}},
		{"invalid month is dropped", amqp.ChangeMessage{Type: "transaction.updated", Month: "04/2025"}, nil},
		{"moved transaction refreshes both months", amqp.ChangeMessage{Type: "transaction.updated", Month: "2025-05", PreviousMonth: "2025-04"}, []string{"2025-04", "2025-05"}},
		{"invalid previous month is dropped", amqp.ChangeMessage{Type: "transaction.updated", Month: "2025-05", PreviousMonth: "April"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := &recordingExporter{}
			w, _ := newWorker(t, exp)
			if err := w.HandleChange(context.Background(), &tt.msg); err != nil {
				t.Fatalf("HandleChange() error = %v", err)
			}
			if len(exp.months) != len(tt.want) {
				t.Fatalf("exported %v, want %v", exp.months, tt.want)
			}
			for i := range tt.want {
				if exp.months[i] != tt.want[i] {
					t.Errorf("exported %v, want %v", exp.months, tt.want)
				}
			}
		})
	}
}

func TestExportMonthReloadsPersistedState(t *testing.T) {
	ctx := context.Background()
	exp := memory.New("Budget")
	w, repo := newWorker(t, exp)

	// Written by another process after the worker started.
	cats := []core.Category{{ID: "c", Name: "Food", Budget: core.Money{Cents: 10000}}}
	txns := []core.Transaction{{ID: "t", Amount: core.Money{Cents: 700}, CategoryID: "c", Description: "Tea", Date: core.NewDate(2025, 6, 2), Type: core.Expense}}
	if err := repo.SaveCategories(ctx, cats); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveTransactions(ctx, txns); err != nil {
		t.Fatal(err)
	}

	june := budget.Month{Year: 2025, Month: time.June}
	if _, err := w.ExportMonth(ctx, june); err != nil {
		t.Fatalf("ExportMonth() error = %v", err)
	}
	got, err := exp.ReadMonthSummary(ctx, june)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalSpent.Cents != 700 {
		t.Errorf("TotalSpent = %d, want 700", got.TotalSpent.Cents)
	}
}

func TestExportFailures(t *testing.T) {
	boom := errors.New("quota exceeded")
	w, _ := newWorker(t, &recordingExporter{err: boom})

	if err := w.HandleChange(context.Background(), &amqp.ChangeMessage{Month: "2025-06"}); !errors.Is(err, boom) {
		t.Errorf("HandleChange() error = %v, want %v", err, boom)
	}
	if err := w.StartupExport(context.Background()); !errors.Is(err, boom) {
		t.Errorf("StartupExport() error = %v, want %v", err, boom)
	}
}

func TestStartupExport(t *testing.T) {
	exp := &recordingExporter{}
	w, _ := newWorker(t, exp)
	if err := w.StartupExport(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(exp.months) != 2 || exp.months[0] != "2025-05" || exp.months[1] != "2025-06" {
		t.Errorf("exported %v", exp.months)
	}
}

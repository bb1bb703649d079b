package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil || d != NewDate(2024, 2, 29) {
		t.Fatalf("unexpected date %v (err=%v)", d, err)
	}
	d, err = ParseDate("2024-03-05T18:30:00.000Z")
	if err != nil || d != NewDate(2024, 3, 5) {
		t.Fatalf("timestamp should truncate to date, got %v (err=%v)", d, err)
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Fatalf("expected error for month 13")
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 7, 4))
	if err != nil || string(b) != `"2025-07-04"` {
		t.Fatalf("unexpected json %s (err=%v)", b, err)
	}
	var d Date
	if err := json.Unmarshal(b, &d); err != nil || d != NewDate(2025, 7, 4) {
		t.Fatalf("unexpected date %v (err=%v)", d, err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "t1",
		Amount:      Money{Cents: 100},
		CategoryID:  "c1",
		Description: "ok",
		Date:        NewDate(2025, 1, 1),
		Type:        Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.CategoryID = " " }, ErrEmptyCategory},
		{func(tx *Transaction) { tx.Description = "" }, ErrEmptyDescription},
		{func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
	}
	for i, b := range bads {
		tx := good
		b.mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, b.want) {
			t.Fatalf("case %d expected %v, got %v", i, b.want, err)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Rent"}).Validate(); err != nil {
		t.Fatalf("zero budget should be valid, got %v", err)
	}
	if err := (Category{Name: "Rent", Budget: Money{Cents: -1}}).Validate(); err != ErrInvalidBudget {
		t.Fatalf("expected ErrInvalidBudget, got %v", err)
	}
	if err := (Category{Name: "  "}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestRecurringPaymentValidate(t *testing.T) {
	p := RecurringPayment{Amount: Money{Cents: 500}, CategoryID: "c1", Description: "Rent", RecurrenceDate: 31, IsActive: true}
	if err := p.Validate(); err != nil {
		t.Fatalf("day 31 should be accepted, got %v", err)
	}
	for _, day := range []int{0, 32, -1} {
		p.RecurrenceDate = day
		if err := p.Validate(); err != ErrInvalidRecurrenceDay {
			t.Fatalf("day %d expected ErrInvalidRecurrenceDay, got %v", day, err)
		}
	}
}

func TestCategoryPatchApply(t *testing.T) {
	orig := Category{ID: "c1", Name: "Food", Budget: Money{Cents: 1000}, Color: "#fff"}
	name := " Groceries "
	budget := Money{Cents: 2500}
	got, err := CategoryPatch{Name: &name, Budget: &budget}.Apply(orig)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Name != "Groceries" || got.Budget.Cents != 2500 || got.Color != "#fff" || got.ID != "c1" {
		t.Fatalf("unexpected merge %+v", got)
	}
	if orig.Name != "Food" {
		t.Fatalf("original must not change")
	}

	neg := Money{Cents: -1}
	if _, err := (CategoryPatch{Budget: &neg}).Apply(orig); err != ErrInvalidBudget {
		t.Fatalf("expected ErrInvalidBudget, got %v", err)
	}
}

func TestTransactionPatchRejectsInvalidType(t *testing.T) {
	tx := Transaction{ID: "t", Amount: Money{Cents: 1}, CategoryID: "c", Description: "d", Date: NewDate(2025, 1, 1), Type: Expense}
	bad := TransactionType("gift")
	if _, err := (TransactionPatch{Type: &bad}).Apply(tx); err != ErrInvalidType {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	income := Income
	got, err := TransactionPatch{Type: &income}.Apply(tx)
	if err != nil || got.Type != Income {
		t.Fatalf("unexpected %+v (err=%v)", got, err)
	}
}

func TestCategoryName(t *testing.T) {
	cats := []Category{{ID: "c1", Name: "Rent"}}
	if got := CategoryName(cats, "c1"); got != "Rent" {
		t.Fatalf("got %q", got)
	}
	if got := CategoryName(cats, "gone"); got != UncategorizedLabel {
		t.Fatalf("dangling reference should be uncategorized, got %q", got)
	}
}

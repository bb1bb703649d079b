// Package store holds the in-memory entity collections, applies validated
// mutations, persists every change and notifies subscribers.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"budgettracker/internal/core"
	"budgettracker/internal/log"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownSuggestion = errors.New("unknown category suggestion")
	ErrCategoryExists    = errors.New("category already exists")
)

// Persistence is the subset of storage.Repository the store needs.
type Persistence interface {
	Categories(ctx context.Context) []core.Category
	Transactions(ctx context.Context) []core.Transaction
	RecurringPayments(ctx context.Context) []core.RecurringPayment
	SaveCategories(ctx context.Context, cats []core.Category) error
	SaveTransactions(ctx context.Context, txns []core.Transaction) error
	SaveRecurringPayments(ctx context.Context, payments []core.RecurringPayment) error
	ClearAll(ctx context.Context) error
}

// Snapshot is a consistent copy of all collections at one revision.
type Snapshot struct {
	Categories        []core.Category         `json:"categories"`
	Transactions      []core.Transaction      `json:"transactions"`
	RecurringPayments []core.RecurringPayment `json:"recurringPayments"`
	Revision          uint64                  `json:"revision"`
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is safe for concurrent use. Collections are replaced on write, never
// mutated in place, so snapshots handed out earlier stay valid.
type Store struct {
	mu       sync.RWMutex
	repo     Persistence
	logger   *log.Logger
	now      func() time.Time
	subs     listeners
	revision uint64

	categories []core.Category
	txns       []core.Transaction
	payments   []core.RecurringPayment
}

func New(repo Persistence, opts ...Option) *Store {
	s := &Store{
		repo:       repo,
		logger:     log.Discard(),
		now:        time.Now,
		categories: []core.Category{},
		txns:       []core.Transaction{},
		payments:   []core.RecurringPayment{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for every successful mutation and returns a function
// that removes it. Calling the returned function more than once is a no-op.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	return s.subs.add(fn)
}

// Load replaces the in-memory collections with the persisted ones.
func (s *Store) Load(ctx context.Context) {
	cats := s.repo.Categories(ctx)
	txns := s.repo.Transactions(ctx)
	payments := s.repo.RecurringPayments(ctx)

	s.mu.Lock()
	s.categories, s.txns, s.payments = cats, txns, payments
	ev := s.event(StoreLoaded, "", nil)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Store loaded",
		"categories", len(cats), "transactions", len(txns), "recurring_payments", len(payments))
	s.subs.notify(ev)
}

// Revision increases by one on every successful mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Categories:        slices.Clone(s.categories),
		Transactions:      slices.Clone(s.txns),
		RecurringPayments: clonePayments(s.payments),
		Revision:          s.revision,
	}
}

func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.txns)
}

func (s *Store) RecurringPayments() []core.RecurringPayment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePayments(s.payments)
}

func (s *Store) Category(id string) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.categories, id, categoryID); i >= 0 {
		return s.categories[i], nil
	}
	return core.Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
}

func (s *Store) Transaction(id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.txns, id, transactionID); i >= 0 {
		return s.txns[i], nil
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
}

func (s *Store) RecurringPayment(id string) (core.RecurringPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.payments, id, paymentID); i >= 0 {
		return clonePayment(s.payments[i]), nil
	}
	return core.RecurringPayment{}, fmt.Errorf("recurring payment %s: %w", id, ErrNotFound)
}

// Reset empties every collection and clears storage.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.categories = []core.Category{}
	s.txns = []core.Transaction{}
	s.payments = []core.RecurringPayment{}
	if err := s.repo.ClearAll(ctx); err != nil {
		s.persistFailed(ctx, "all", err)
	}
	ev := s.event(StoreReset, "", nil)
	s.mu.Unlock()

	s.subs.notify(ev)
}

// Replace swaps in whole collections, e.g. generated sample data. Records are
// validated first; on failure nothing changes.
func (s *Store) Replace(ctx context.Context, cats []core.Category, txns []core.Transaction, payments []core.RecurringPayment) error {
	for _, c := range cats {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("category %q: %w", c.Name, err)
		}
	}
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %q: %w", t.Description, err)
		}
	}
	for _, p := range payments {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("recurring payment %q: %w", p.Description, err)
		}
	}

	s.mu.Lock()
	s.categories = append([]core.Category{}, cats...)
	s.txns = append([]core.Transaction{}, txns...)
	s.payments = clonePayments(payments)
	s.persistCategories(ctx)
	s.persistTransactions(ctx)
	s.persistPayments(ctx)
	ev := s.event(StoreReplaced, "", nil)
	s.mu.Unlock()

	s.subs.notify(ev)
	return nil
}

// event bumps the revision and builds the notification. Callers hold mu.
func (s *Store) event(t EventType, id string, data any) Event {
	s.revision++
	return Event{Type: t, ID: id, Revision: s.revision, Timestamp: s.now(), Data: data}
}

func (s *Store) persistCategories(ctx context.Context) {
	if err := s.repo.SaveCategories(ctx, s.categories); err != nil {
		s.persistFailed(ctx, "categories", err)
	}
}

func (s *Store) persistTransactions(ctx context.Context) {
	if err := s.repo.SaveTransactions(ctx, s.txns); err != nil {
		s.persistFailed(ctx, "transactions", err)
	}
}

func (s *Store) persistPayments(ctx context.Context) {
	if err := s.repo.SaveRecurringPayments(ctx, s.payments); err != nil {
		s.persistFailed(ctx, "recurring_payments", err)
	}
}

// persistFailed logs; the in-memory state stays authoritative.
func (s *Store) persistFailed(ctx context.Context, collection string, err error) {
	s.logger.ErrorContext(ctx, "Failed to persist collection",
		log.FieldEntity, collection, log.FieldOperation, log.OpPersist, log.FieldError, err)
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	return slices.IndexFunc(items, func(item T) bool { return key(item) == id })
}

func categoryID(c core.Category) string        { return c.ID }
func transactionID(t core.Transaction) string  { return t.ID }
func paymentID(p core.RecurringPayment) string { return p.ID }

func clonePayment(p core.RecurringPayment) core.RecurringPayment {
	if p.LastProcessed != nil {
		ts := *p.LastProcessed
		p.LastProcessed = &ts
	}
	return p
}

func clonePayments(ps []core.RecurringPayment) []core.RecurringPayment {
	out := make([]core.RecurringPayment, len(ps))
	for i, p := range ps {
		out[i] = clonePayment(p)
	}
	return out
}

// without returns a copy of items lacking index i.
func without[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// replaced returns a copy of items with index i set to v.
func replaced[T any](items []T, i int, v T) []T {
	out := slices.Clone(items)
	out[i] = v
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"budgettracker/internal/core"
)

// AddTransaction stores t under a fresh id. The category is not required to
// exist.
func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = core.NewID()
	t.Description = strings.TrimSpace(t.Description)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	s.txns = append(s.txns[:len(s.txns):len(s.txns)], t)
	s.persistTransactions(ctx)
	ev := s.event(TransactionCreated, t.ID, t)
	s.mu.Unlock()

	s.subs.notify(ev)
	return t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	i := indexOf(s.txns, id, transactionID)
	if i < 0 {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	previous := s.txns[i]
	updated, err := patch.Apply(previous)
	if err != nil {
		s.mu.Unlock()
		return core.Transaction{}, err
	}
	s.txns = replaced(s.txns, i, updated)
	s.persistTransactions(ctx)
	ev := s.event(TransactionUpdated, id, updated)
	ev.Previous = previous
	s.mu.Unlock()

	s.subs.notify(ev)
	return updated, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	i := indexOf(s.txns, id, transactionID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	removed := s.txns[i]
	s.txns = without(s.txns, i)
	s.persistTransactions(ctx)
	ev := s.event(TransactionDeleted, id, removed)
	s.mu.Unlock()

	s.subs.notify(ev)
	return nil
}

// TransactionFilter narrows FilterTransactions. Zero fields match everything.
type TransactionFilter struct {
	Search     string
	CategoryID string
	Type       core.TransactionType
}

// FilterTransactions returns the matching transactions, most recent date
// first. Search is a case-insensitive substring match on the description.
func (s *Store) FilterTransactions(f TransactionFilter) []core.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	s.mu.RLock()
	matched := make([]core.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		matched = append(matched, t)
	}
	s.mu.RUnlock()

	sortByDateDesc(matched)
	return matched
}

// sortByDateDesc orders by date, later-recorded first within a day.
func sortByDateDesc(txns []core.Transaction) {
	for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
		txns[i], txns[j] = txns[j], txns[i]
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date.Time)
	})
}

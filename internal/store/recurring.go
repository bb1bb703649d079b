package store

import (
	"context"
	"fmt"
	"strings"

	"budgettracker/internal/core"
)

// AddRecurringPayment stores p under a fresh id. LastProcessed is cleared.
func (s *Store) AddRecurringPayment(ctx context.Context, p core.RecurringPayment) (core.RecurringPayment, error) {
	p.ID = core.NewID()
	p.Description = strings.TrimSpace(p.Description)
	p.LastProcessed = nil
	if err := p.Validate(); err != nil {
		return core.RecurringPayment{}, err
	}

	s.mu.Lock()
	s.payments = append(clonePayments(s.payments), p)
	s.persistPayments(ctx)
	ev := s.event(RecurringCreated, p.ID, p)
	s.mu.Unlock()

	s.subs.notify(ev)
	return p, nil
}

func (s *Store) UpdateRecurringPayment(ctx context.Context, id string, patch core.RecurringPaymentPatch) (core.RecurringPayment, error) {
	s.mu.Lock()
	i := indexOf(s.payments, id, paymentID)
	if i < 0 {
		s.mu.Unlock()
		return core.RecurringPayment{}, fmt.Errorf("recurring payment %s: %w", id, ErrNotFound)
	}
	previous := clonePayment(s.payments[i])
	updated, err := patch.Apply(clonePayment(previous))
	if err != nil {
		s.mu.Unlock()
		return core.RecurringPayment{}, err
	}
	s.payments = replaced(clonePayments(s.payments), i, updated)
	s.persistPayments(ctx)
	ev := s.event(RecurringUpdated, id, clonePayment(updated))
	ev.Previous = previous
	s.mu.Unlock()

	s.subs.notify(ev)
	return clonePayment(updated), nil
}

func (s *Store) DeleteRecurringPayment(ctx context.Context, id string) error {
	s.mu.Lock()
	i := indexOf(s.payments, id, paymentID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("recurring payment %s: %w", id, ErrNotFound)
	}
	removed := clonePayment(s.payments[i])
	s.payments = without(s.payments, i)
	s.persistPayments(ctx)
	ev := s.event(RecurringDeleted, id, removed)
	s.mu.Unlock()

	s.subs.notify(ev)
	return nil
}

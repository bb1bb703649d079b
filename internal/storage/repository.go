package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"budgettracker/internal/core"
	"budgettracker/internal/log"
)

// Storage keys. The names are part of the persisted format.
const (
	KeyCategories        = "budget_categories"
	KeyTransactions      = "budget_transactions"
	KeyRecurringPayments = "budget_recurring_payments"
)

// Repository maps the three entity collections onto a KV. Reads never fail:
// a missing or unparsable value yields an empty collection. Writes return
// their error so the caller decides whether to propagate it.
type Repository struct {
	kv     KV
	logger *log.Logger
}

func NewRepository(kv KV, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.Discard()
	}
	return &Repository{kv: kv, logger: logger.WithComponent(log.ComponentStorage)}
}

func (r *Repository) Categories(ctx context.Context) []core.Category {
	return load[core.Category](ctx, r, KeyCategories)
}

func (r *Repository) Transactions(ctx context.Context) []core.Transaction {
	return load[core.Transaction](ctx, r, KeyTransactions)
}

func (r *Repository) RecurringPayments(ctx context.Context) []core.RecurringPayment {
	return load[core.RecurringPayment](ctx, r, KeyRecurringPayments)
}

func (r *Repository) SaveCategories(ctx context.Context, cats []core.Category) error {
	return save(ctx, r, KeyCategories, cats)
}

func (r *Repository) SaveTransactions(ctx context.Context, txns []core.Transaction) error {
	return save(ctx, r, KeyTransactions, txns)
}

func (r *Repository) SaveRecurringPayments(ctx context.Context, payments []core.RecurringPayment) error {
	return save(ctx, r, KeyRecurringPayments, payments)
}

// ClearAll removes every collection key.
func (r *Repository) ClearAll(ctx context.Context) error {
	for _, key := range []string{KeyCategories, KeyTransactions, KeyRecurringPayments} {
		if err := r.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// Close releases the underlying backend.
func (r *Repository) Close() error {
	return r.kv.Close()
}

func load[T any](ctx context.Context, r *Repository, key string) []T {
	out := []T{}
	raw, found, err := r.kv.Get(ctx, key)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to read collection",
			log.FieldKey, key, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return out
	}
	if !found || len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		r.logger.WarnContext(ctx, "Discarding unparsable collection",
			log.FieldKey, key, log.FieldOperation, log.OpParse, log.FieldError, err)
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

func save[T any](ctx context.Context, r *Repository, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	r.logger.DebugContext(ctx, "Collection persisted", log.FieldKey, key, log.FieldCount, len(items))
	return nil
}

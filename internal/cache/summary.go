package cache

import (
	"fmt"
	"time"

	"budgettracker/internal/budget"
	"budgettracker/internal/core"
	"budgettracker/internal/store"
)

// SnapshotSource is the read side of the store.
type SnapshotSource interface {
	Revision() uint64
	Snapshot() store.Snapshot
}

// SummaryCache memoises monthly budget summaries. Entries are keyed by store
// revision, so any mutation makes older entries unreachable; they age out
// through the LRU.
type SummaryCache struct {
	src SnapshotSource
	lru *LRUCache[core.BudgetSummary]
}

func NewSummaryCache(src SnapshotSource, size int, ttl time.Duration) *SummaryCache {
	return &SummaryCache{src: src, lru: NewLRUCache[core.BudgetSummary](size, ttl)}
}

// Summary returns the budget summary of month at the current revision.
func (c *SummaryCache) Summary(month budget.Month) core.BudgetSummary {
	if s, ok := c.lru.Get(summaryKey(c.src.Revision(), month)); ok {
		return s
	}
	snap := c.src.Snapshot()
	s := budget.ComputeBudgetSummary(snap.Categories, snap.Transactions, month)
	c.lru.Set(summaryKey(snap.Revision, month), s)
	return s
}

// Cleaner exposes the underlying LRU to a Manager.
func (c *SummaryCache) Cleaner() Cleaner { return c.lru }

func (c *SummaryCache) Size() int { return c.lru.Size() }

func summaryKey(rev uint64, month budget.Month) string {
	return fmt.Sprintf("%d:%s", rev, month)
}

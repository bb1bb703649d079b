// Package memory is an in-process sheets exporter for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgettracker/internal/budget"
	"budgettracker/internal/sheets"
)

// Exporter keeps the rendered rows of every exported month.
type Exporter struct {
	mu      sync.Mutex
	base    string
	tabs    map[string][][]any
	exports int
}

var (
	_ sheets.Exporter      = (*Exporter)(nil)
	_ sheets.SummaryReader = (*Exporter)(nil)
)

func New(base string) *Exporter {
	if base == "" {
		base = "Budget"
	}
	return &Exporter{base: base, tabs: map[string][][]any{}}
}

func (e *Exporter) ExportMonth(ctx context.Context, r sheets.MonthReport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := sheets.SheetName(e.base, r.Month)
	rows := sheets.SummaryRows(r)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tabs[name] = rows
	e.exports++
	return fmt.Sprintf("mem:%s!A1:F%d", name, len(rows)), nil
}

func (e *Exporter) ReadMonthSummary(_ context.Context, month budget.Month) (sheets.SheetSummary, error) {
	e.mu.Lock()
	rows, ok := e.tabs[sheets.SheetName(e.base, month)]
	e.mu.Unlock()
	if !ok {
		return sheets.SheetSummary{}, fmt.Errorf("no export for %s", month)
	}
	return sheets.ParseSummaryRows(rows)
}

// Exports counts ExportMonth calls.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}

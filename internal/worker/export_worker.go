// Package worker keeps the spreadsheet export in step with the ledger.
package worker

import (
	"context"
	"fmt"
	"time"

	"budgettracker/internal/amqp"
	"budgettracker/internal/budget"
	"budgettracker/internal/log"
	"budgettracker/internal/sheets"
	"budgettracker/internal/store"
)

// Source is reloaded before every export so the worker sees what the
// server last persisted.
type Source interface {
	Load(ctx context.Context)
	Snapshot() store.Snapshot
}

// ExportWorker re-exports the months touched by change messages.
type ExportWorker struct {
	src      Source
	exporter sheets.Exporter
	logger   *log.Logger
	now      func() time.Time
}

func NewExportWorker(src Source, exporter sheets.Exporter, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportWorker{
		src:      src,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentSheets),
		now:      time.Now,
	}
}

// HandleChange processes a single change message from AMQP. Messages without
// a month refresh the current month. A previous month, set when a
// transaction moved between months, is exported first.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	months := make([]budget.Month, 0, 2)
	for _, raw := range []string{msg.PreviousMonth, msg.Month} {
		if raw == "" {
			continue
		}
		m, err := budget.ParseMonth(raw)
		if err != nil {
			// Redelivering a malformed message cannot succeed.
			w.logger.WarnContext(ctx, "Dropping change message with invalid month",
				"type", msg.Type, log.FieldMonth, raw)
			return nil
		}
		months = append(months, m)
	}
	if msg.Month == "" {
		months = append(months, budget.MonthOf(w.now()))
	}

	for _, month := range months {
		w.logger.InfoContext(ctx, "Processing change message",
			"type", msg.Type, log.FieldEntityID, msg.ID, log.FieldRevision, msg.Revision, log.FieldMonth, month.String())
		if _, err := w.ExportMonth(ctx, month); err != nil {
			return err
		}
	}
	return nil
}

// ExportMonth reloads the ledger and writes month's report.
func (w *ExportWorker) ExportMonth(ctx context.Context, month budget.Month) (string, error) {
	w.src.Load(ctx)
	snap := w.src.Snapshot()
	report := sheets.BuildMonthReport(snap.Categories, snap.Transactions, month, w.now())

	ref, err := w.exporter.ExportMonth(ctx, report)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to export month",
			log.FieldMonth, month.String(), log.FieldError, err)
		return "", fmt.Errorf("export %s: %w", month, err)
	}

	w.logger.InfoContext(ctx, "Successfully exported month",
		log.FieldMonth, month.String(), "sheets_ref", ref, log.FieldCount, len(report.Transactions))
	return ref, nil
}

// StartupExport refreshes the previous and current month. It covers changes
// made while the worker was down.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	current := budget.MonthOf(w.now())
	for _, m := range []budget.Month{current.Prev(), current} {
		if _, err := w.ExportMonth(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Package sheets exports monthly budget reports to spreadsheets.
package sheets

import (
	"context"

	"budgettracker/internal/budget"
)

// Ports for outbound adapters.
type (
	// Exporter writes one month's report, replacing any earlier export of
	// the same month. It returns a reference to the written range.
	Exporter interface {
		ExportMonth(ctx context.Context, report MonthReport) (ref string, err error)
	}

	// SummaryReader reads back the summary block of an exported month.
	SummaryReader interface {
		ReadMonthSummary(ctx context.Context, month budget.Month) (SheetSummary, error)
	}
)

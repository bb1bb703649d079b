package cli

import (
	"context"

	"budgettracker/internal/config"
	"budgettracker/internal/log"
	"budgettracker/internal/sheets"
	gsheet "budgettracker/internal/sheets/google"
	"budgettracker/internal/sheets/memory"
)

// SheetsTarget can both write month reports and read them back.
type SheetsTarget interface {
	sheets.Exporter
	sheets.SummaryReader
}

// OpenSheets returns the Google Sheets client when a spreadsheet is
// configured and an in-memory target otherwise.
func OpenSheets(ctx context.Context, cfg *config.Config, logger *log.Logger) (SheetsTarget, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled, exporting to memory", "reason", "no GOOGLE_SPREADSHEET_ID")
		return memory.New(cfg.GoogleSheetName), nil
	}
	client, err := gsheet.New(ctx, gsheet.ConfigFromApp(cfg), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}

// Package google exports budget reports to a Google spreadsheet using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budgettracker/internal/budget"
	"budgettracker/internal/config"
	"budgettracker/internal/log"
	"budgettracker/internal/sheets"
)

var (
	_ sheets.Exporter      = (*Client)(nil)
	_ sheets.SummaryReader = (*Client)(nil)
)

// Config selects the spreadsheet and credentials.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountFile string
	ServiceAccountJSON string
	// Endpoint points the client at an emulator; no credentials are sent.
	Endpoint string
}

// ConfigFromApp maps the application configuration.
func ConfigFromApp(cfg *config.Config) Config {
	return Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
	}
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
	logger        *log.Logger
}

// New creates a Sheets client authenticated with the configured service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	logger.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", cfg.SpreadsheetID)
	return newClient(svc, cfg, logger), nil
}

func newClient(svc *gsheet.Service, cfg Config, logger *log.Logger) *Client {
	base := strings.TrimSpace(cfg.SheetName)
	if base == "" {
		base = "Budget"
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetBase: base, logger: logger}
}

func clientOptions(cfg Config) ([]goption.ClientOption, error) {
	if cfg.Endpoint != "" {
		return []goption.ClientOption{
			goption.WithEndpoint(cfg.Endpoint),
			goption.WithHTTPClient(&http.Client{}),
			goption.WithoutAuthentication(),
		}, nil
	}
	creds, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}
	return []goption.ClientOption{
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}, nil
}

// credentialsJSON resolves inline JSON first, then the file, then
// GOOGLE_APPLICATION_CREDENTIALS.
func credentialsJSON(cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	file := strings.TrimSpace(cfg.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// ExportMonth replaces the month's tab with the summary block in column A and
// the transaction list in column H.
func (c *Client) ExportMonth(ctx context.Context, r sheets.MonthReport) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	name := sheets.SheetName(c.sheetBase, r.Month)

	if err := c.ensureSheet(ctx, name); err != nil {
		return "", err
	}
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, name+"!A:L", &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", name, err)
	}

	summary := sheets.SummaryRows(r)
	txns := sheets.TransactionRows(r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.writeBlock(gctx, fmt.Sprintf("%s!%s1", name, sheets.SummaryColumn), summary)
	})
	g.Go(func() error {
		return c.writeBlock(gctx, fmt.Sprintf("%s!%s1", name, sheets.TransactionColumn), txns)
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	ref := fmt.Sprintf("%s!A1:L%d", name, max(len(summary), len(txns)))
	c.logger.InfoContext(ctx, "Month exported to sheets",
		log.FieldMonth, r.Month.String(), "ref", ref, log.FieldCount, len(r.Transactions))
	return ref, nil
}

func (c *Client) writeBlock(ctx context.Context, rng string, rows [][]any) error {
	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) ensureSheet(ctx context.Context, name string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	if hasSheet(ss, name) {
		return nil
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{
		{AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: name}}},
	}}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}
	c.logger.InfoContext(ctx, "Sheet created", "sheet", name)
	return nil
}

func hasSheet(ss *gsheet.Spreadsheet, name string) bool {
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == name {
			return true
		}
	}
	return false
}

// ReadMonthSummary reads the summary block of an exported month.
func (c *Client) ReadMonthSummary(ctx context.Context, month budget.Month) (sheets.SheetSummary, error) {
	if c.svc == nil {
		return sheets.SheetSummary{}, errors.New("sheets service not initialized")
	}
	rng := sheets.SheetName(c.sheetBase, month) + "!A:F"
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return sheets.SheetSummary{}, fmt.Errorf("read %s: %w", rng, err)
	}
	return sheets.ParseSummaryRows(resp.Values)
}

package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"budgettracker/internal/core"
)

var (
	summaryHeader     = []any{"Category", "Budget", "Spent", "Remaining", "Used %", "Status"}
	transactionHeader = []any{"Date", "Description", "Category", "Type", "Amount"}
)

const (
	// SummaryColumn and TransactionColumn are where the two blocks start.
	SummaryColumn     = "A"
	TransactionColumn = "H"
	totalLabel        = "Total"
)

// CategoryTotal is one summary row read back from a sheet.
type CategoryTotal struct {
	Name   string
	Budget core.Money
	Spent  core.Money
}

// SheetSummary is the summary block read back from a sheet.
type SheetSummary struct {
	Categories  []CategoryTotal
	TotalBudget core.Money
	TotalSpent  core.Money
}

// SummaryRows renders the header, one row per category and a total row.
func SummaryRows(r MonthReport) [][]any {
	rows := make([][]any, 0, len(r.Summary.CategorySummaries)+2)
	rows = append(rows, summaryHeader)
	for _, cs := range r.Summary.CategorySummaries {
		status := "ok"
		if cs.IsOverBudget {
			status = "over"
		}
		rows = append(rows, []any{
			cs.CategoryName,
			cs.Budget.Float(),
			cs.Spent.Float(),
			cs.Remaining.Float(),
			roundPercent(cs.PercentageUsed),
			status,
		})
	}
	rows = append(rows, []any{
		totalLabel,
		r.Summary.TotalBudget.Float(),
		r.Summary.TotalSpent.Float(),
		r.Summary.Remaining.Float(),
		r.Summary.UsagePercent(),
		string(r.Summary.Status()),
	})
	return rows
}

// TransactionRows renders the header and one row per transaction.
func TransactionRows(r MonthReport) [][]any {
	rows := make([][]any, 0, len(r.Transactions)+1)
	rows = append(rows, transactionHeader)
	for _, t := range r.Transactions {
		rows = append(rows, []any{t.Date.String(), t.Description, t.Category, string(t.Type), t.Amount.Float()})
	}
	return rows
}

// ParseSummaryRows reads a summary block as written by SummaryRows. Columns
// are located by header name; rows with an unparsable amount are skipped.
func ParseSummaryRows(values [][]any) (SheetSummary, error) {
	if len(values) == 0 {
		return SheetSummary{}, nil
	}
	headers := toStrings(values[0])
	colName := indexOf(headers, "Category")
	colBudget := indexOf(headers, "Budget")
	colSpent := indexOf(headers, "Spent")
	if colName == -1 || colBudget == -1 || colSpent == -1 {
		return SheetSummary{}, fmt.Errorf("unexpected summary header: %v", headers)
	}

	var out SheetSummary
	for _, row := range values[1:] {
		cols := toStrings(row)
		name := safeGet(cols, colName)
		if name == "" {
			continue
		}
		budget, okBudget := parseAmountToCents(safeGet(cols, colBudget))
		spent, okSpent := parseAmountToCents(safeGet(cols, colSpent))
		if !okBudget || !okSpent {
			continue
		}
		if strings.EqualFold(name, totalLabel) {
			out.TotalBudget = core.Money{Cents: budget}
			out.TotalSpent = core.Money{Cents: spent}
			continue
		}
		out.Categories = append(out.Categories, CategoryTotal{
			Name:   name,
			Budget: core.Money{Cents: budget},
			Spent:  core.Money{Cents: spent},
		})
	}
	return out, nil
}

func roundPercent(p float64) float64 {
	return float64(int64(p*10+0.5)) / 10
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if f, ok := v.(float64); ok {
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// parseAmountToCents reads a non-negative budget or spent cell.
func parseAmountToCents(s string) (int64, bool) {
	cents, err := core.ParseBudgetToCents(s)
	if err != nil {
		return 0, false
	}
	return cents, true
}

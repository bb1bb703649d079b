// Package charts renders dashboard charts as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"budgettracker/internal/budget"
	"budgettracker/internal/core"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

// ContentType of every rendered chart.
const ContentType = "image/png"

var background = chart.Style{
	Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
	FillColor: chart.ColorWhite,
}

var axisStyle = chart.Style{FontSize: 12, FontColor: chart.ColorBlack}

// Generator renders charts with amounts labelled in one currency.
type Generator struct {
	symbol string
}

func NewGenerator(currencySymbol string) *Generator {
	if currencySymbol == "" {
		currencySymbol = core.DefaultCurrencySymbol
	}
	return &Generator{symbol: currencySymbol}
}

func (g *Generator) money(v any) string {
	f, _ := v.(float64)
	return fmt.Sprintf("%s%.0f", g.symbol, f)
}

// MonthlyTrend plots income, expenses and net for the twelve points of a year.
func (g *Generator) MonthlyTrend(points []budget.MonthlyPoint, year int) ([]byte, error) {
	if !hasActivity(points) {
		return nil, ErrNoData
	}

	x := make([]float64, len(points))
	income := make([]float64, len(points))
	expenses := make([]float64, len(points))
	net := make([]float64, len(points))
	ticks := make([]chart.Tick, len(points))
	for i, p := range points {
		x[i] = float64(p.Month)
		income[i] = p.Income.Float()
		expenses[i] = p.Expenses.Float()
		net[i] = p.Net.Float()
		ticks[i] = chart.Tick{Value: x[i], Label: p.Label}
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("Income and expenses %d", year),
		Width:      1200,
		Height:     600,
		Background: background,
		XAxis:      chart.XAxis{Ticks: ticks, Style: axisStyle},
		YAxis:      chart.YAxis{ValueFormatter: g.money, Style: axisStyle},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Income", XValues: x, YValues: income,
				Style: chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name: "Expenses", XValues: x, YValues: expenses,
				Style: chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name: "Net", XValues: x, YValues: net,
				Style: chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 3, StrokeDashArray: []float64{5.0, 5.0}},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, axisStyle)}

	return render("monthly trend", graph.Render)
}

func hasActivity(points []budget.MonthlyPoint) bool {
	for _, p := range points {
		if p.Income.Cents != 0 || p.Expenses.Cents != 0 {
			return true
		}
	}
	return false
}

// CategoryPie plots each category's share of spending in its own color.
// Categories without spend are left out.
func (g *Generator) CategoryPie(spend []budget.CategorySpend) ([]byte, error) {
	var total float64
	for _, s := range spend {
		total += s.Amount.Float()
	}
	if total <= 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(spend))
	for _, s := range spend {
		if s.Amount.Cents <= 0 {
			continue
		}
		amount := s.Amount.Float()
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", s.Name, s.Amount.Format(g.symbol), amount/total*100),
			Value: amount,
			Style: chart.Style{FillColor: hexColor(s.Color), FontSize: 12, FontColor: chart.ColorBlack},
		})
	}

	pie := chart.PieChart{
		Title:      "Spending by category",
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background,
	}
	return render("category pie", pie.Render)
}

// BudgetBars plots spend per category for one month; categories over
// budget are drawn red.
func (g *Generator) BudgetBars(summary core.BudgetSummary, month budget.Month) ([]byte, error) {
	if summary.TotalSpent.Cents <= 0 {
		return nil, ErrNoData
	}

	// An explicit range from zero keeps a single bar from collapsing the axis.
	var top float64
	bars := make([]chart.Value, 0, len(summary.CategorySummaries))
	for _, cs := range summary.CategorySummaries {
		top = max(top, cs.Spent.Float(), cs.Budget.Float())
		color := chart.ColorBlue
		if cs.IsOverBudget {
			color = chart.ColorRed
		}
		bars = append(bars, chart.Value{
			Label: cs.CategoryName,
			Value: cs.Spent.Float(),
			Style: chart.Style{StrokeColor: color, FillColor: color, FontSize: 12, FontColor: chart.ColorBlack},
		})
	}

	graph := chart.BarChart{
		Title:      "Spending " + month.Label(),
		TitleStyle: chart.Style{FontSize: 14, FontColor: chart.ColorBlack},
		Width:      1200,
		Height:     600,
		BarWidth:   60,
		Background: background,
		YAxis: chart.YAxis{
			ValueFormatter: g.money,
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	return render("budget bars", graph.Render)
}

func render(name string, fn func(chart.RendererProvider, io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// hexColor parses "#RRGGBB", falling back to grey.
func hexColor(s string) drawing.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return chart.ColorAlternateGray
	}
	return drawing.ColorFromHex(s)
}

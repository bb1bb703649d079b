package http

import (
	"errors"
	"net/http"

	"budgettracker/internal/budget"
	"budgettracker/internal/charts"
	"budgettracker/internal/core"
)

type insightsResponse struct {
	Month         string        `json:"month"`
	Insights      core.Insights `json:"insights"`
	HealthLabel   string        `json:"healthLabel"`
	VelocityLabel string        `json:"velocityLabel"`
}

type trendsResponse struct {
	Year       int                    `json:"year"`
	Monthly    []budget.MonthlyPoint  `json:"monthly"`
	Categories []budget.CategorySpend `json:"categories"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r, s.now())
	if err != nil {
		fail(w, r, "summary", err)
		return
	}
	writeJSON(w, http.StatusOK, s.summaries.Summary(month))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	month, err := parseMonth(r, now)
	if err != nil {
		fail(w, r, "insights", err)
		return
	}
	ins := budget.ComputeInsights(s.summaries.Summary(month), budget.DaysElapsed(now, month), month)
	writeJSON(w, http.StatusOK, insightsResponse{
		Month:         month.String(),
		Insights:      ins,
		HealthLabel:   core.HealthLabel(ins.BudgetHealthScore),
		VelocityLabel: core.VelocityLabel(ins.SpendingVelocity),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	month, err := parseMonth(r, now)
	if err != nil {
		fail(w, r, "dashboard", err)
		return
	}
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, budget.BuildDashboard(snap.Categories, snap.Transactions, month, now))
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r, s.now())
	if err != nil {
		fail(w, r, "trends", err)
		return
	}
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, trendsResponse{
		Year:       year,
		Monthly:    budget.MonthlyTotals(snap.Transactions, year),
		Categories: budget.CategorySpending(snap.Categories, snap.Transactions, parseLimit(r, "limit", budget.DefaultTopCategories)),
	})
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r, s.now())
	if err != nil {
		fail(w, r, "monthly_chart", err)
		return
	}
	png, err := s.charts.MonthlyTrend(budget.MonthlyTotals(s.store.Transactions(), year), year)
	s.writeChart(w, r, "monthly_chart", png, err)
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	spend := budget.CategorySpending(snap.Categories, snap.Transactions, parseLimit(r, "limit", budget.DefaultTopCategories))
	png, err := s.charts.CategoryPie(spend)
	s.writeChart(w, r, "category_chart", png, err)
}

func (s *Server) handleBudgetChart(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r, s.now())
	if err != nil {
		fail(w, r, "budget_chart", err)
		return
	}
	png, err := s.charts.BudgetBars(s.summaries.Summary(month), month)
	s.writeChart(w, r, "budget_chart", png, err)
}

func (s *Server) writeChart(w http.ResponseWriter, r *http.Request, op string, png []byte, err error) {
	if errors.Is(err, charts.ErrNoData) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writePNG(w, png)
}

package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"budgettracker/internal/budget"
)

// parseMonth reads the month query parameter (YYYY-MM), defaulting to the
// month containing now.
func parseMonth(r *http.Request, now time.Time) (budget.Month, error) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		return budget.MonthOf(now), nil
	}
	return budget.ParseMonth(v)
}

// parseYear reads the year query parameter, defaulting to now's year.
func parseYear(r *http.Request, now time.Time) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("year"))
	if v == "" {
		return now.Year(), nil
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < 1 || y > 9999 {
		return 0, budget.ErrInvalidMonth
	}
	return y, nil
}

// parseLimit reads a positive integer query parameter, falling back to def.
func parseLimit(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func sanitizePtr(s *string) {
	if s != nil {
		*s = sanitizeInput(*s)
	}
}

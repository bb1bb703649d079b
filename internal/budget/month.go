package budget

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"budgettracker/internal/core"
)

const monthLayout = "2006-01"

var ErrInvalidMonth = errors.New("invalid month")

// Month identifies a calendar month. The aggregation interval is the closed
// range [FirstDay, LastDay] at day granularity.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t, in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

func (m Month) FirstDay() core.Date {
	return core.NewDate(m.Year, int(m.Month), 1)
}

func (m Month) LastDay() core.Date {
	return core.NewDate(m.Year, int(m.Month), m.Days())
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Month) Contains(d core.Date) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(m.FirstDay().Time) && !d.After(m.LastDay().Time)
}

func (m Month) Prev() Month {
	return MonthOf(time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC))
}

func (m Month) Next() Month {
	return MonthOf(time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC))
}

func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label renders the month for display, e.g. "March 2025".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

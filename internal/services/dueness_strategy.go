// Package services holds the recurring payment scheduler.
//
// Which calendar days a payment falls due on is a pluggable strategy: the
// default fires only on the exact day of month, the month-end variant also
// fires on the last day of months too short to contain that day.
package services

import (
	"fmt"
	"strings"
	"time"
)

// DuenessChecker decides whether a payment with the given day of month falls
// due on the calendar day of now.
type DuenessChecker interface {
	FallsOn(recurrenceDay int, now time.Time) bool
}

// ExactDayChecker matches only when today's day equals the recurrence day.
// A payment on the 31st never fires in a 30-day month.
type ExactDayChecker struct{}

func (ExactDayChecker) FallsOn(recurrenceDay int, now time.Time) bool {
	return now.Day() == recurrenceDay
}

// MonthEndChecker behaves like ExactDayChecker but moves days past the end of
// the month onto its last day.
type MonthEndChecker struct{}

func (MonthEndChecker) FallsOn(recurrenceDay int, now time.Time) bool {
	target := min(recurrenceDay, daysIn(now))
	return now.Day() == target
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

const (
	PolicyExactDay = "exact"
	PolicyMonthEnd = "month_end"
)

var duenessStrategies = map[string]DuenessChecker{
	PolicyExactDay: ExactDayChecker{},
	PolicyMonthEnd: MonthEndChecker{},
}

// GetDuenessChecker returns the checker registered for policy.
func GetDuenessChecker(policy string) (DuenessChecker, error) {
	checker, ok := duenessStrategies[strings.ToLower(strings.TrimSpace(policy))]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence policy: %s", policy)
	}
	return checker, nil
}

// NextOccurrence is the first calendar day on or after now's day on which
// checker fires for recurrenceDay.
func NextOccurrence(checker DuenessChecker, recurrenceDay int, now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Two months always contain a matching day for recurrenceDay <= 31:
	// of any two consecutive months at least one has 31 days.
	for i := 0; i < 62; i++ {
		if checker.FallsOn(recurrenceDay, day) {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// Ordinal renders a day of month as "1st", "22nd", "13th".
func Ordinal(day int) string {
	suffix := "th"
	if day%100 < 11 || day%100 > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and decimal representations.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

type Money struct {
	Cents int64
}

// DefaultCurrencySymbol is used when CURRENCY_SYMBOL is not configured.
const DefaultCurrencySymbol = "₹"

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseBudgetToCents converts a non-negative decimal string to cents. Dot and
// comma separators are both accepted and the third decimal rounds half-up, so
// "12,345" is 1235. Zero is valid since a category may have no ceiling.
func ParseBudgetToCents(s string) (int64, error) {
	cents, err := parseUnsignedCents(s)
	if err != nil {
		return 0, ErrInvalidBudget
	}
	return cents, nil
}

func parseUnsignedCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	if iv > (math.MaxInt64-fracCents)/100 {
		return 0, ErrInvalidAmount
	}
	return iv*100 + fracCents, nil
}

// FromFloat converts a decimal value to Money, rounding half away from zero.
// Values outside the int64 cent range saturate and NaN becomes zero.
func FromFloat(v float64) Money {
	m, err := fromFloat(v)
	if err == nil {
		return m
	}
	switch {
	case v > 0:
		return Money{Cents: math.MaxInt64}
	case v < 0:
		return Money{Cents: math.MinInt64}
	}
	return Money{}
}

// maxCentsFloat is 2^63, the first float64 above the int64 range.
const maxCentsFloat = float64(1 << 63)

func fromFloat(v float64) (Money, error) {
	c := math.Round(v * 100)
	if math.IsNaN(c) || c >= maxCentsFloat || c < -maxCentsFloat {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: int64(c)}, nil
}

// Float returns the decimal value for display and ratio computations.
// Use cents for sums to avoid floating-point drift.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount as a plain decimal with two places, e.g. "-12.50".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + twoDigits(cents%100)
}

// Format renders the absolute amount with a currency symbol, e.g. "₹12.50".
// The sign is dropped; callers decide how to present overruns.
func (m Money) Format(symbol string) string {
	cents := m.Cents
	if cents < 0 {
		cents = -cents
	}
	return symbol + Money{Cents: cents}.String()
}

// MarshalJSON writes the amount as a JSON number with at most two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	s := m.String()
	s = strings.TrimSuffix(s, ".00")
	if strings.Contains(s, ".") {
		s = strings.TrimSuffix(s, "0")
	}
	return []byte(s), nil
}

// UnmarshalJSON accepts a JSON number (or numeric string) in decimal units.
func (m *Money) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	raw := strings.TrimSpace(n.String())
	neg := strings.HasPrefix(raw, "-")
	cents, err := parseUnsignedCents(strings.TrimPrefix(raw, "-"))
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return ErrInvalidAmount
		}
		v, ferr := fromFloat(f)
		if ferr != nil {
			return ferr
		}
		*m = v
		return nil
	}
	if neg {
		cents = -cents
	}
	m.Cents = cents
	return nil
}

func twoDigits(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}

package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

type (
	TransactionType string

	Category struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Budget Money  `json:"budget"`
		Color  string `json:"color"`
		Icon   string `json:"icon,omitempty"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		Amount      Money           `json:"amount"`
		CategoryID  string          `json:"categoryId"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		Type        TransactionType `json:"type"`
	}

	RecurringPayment struct {
		ID             string     `json:"id"`
		Amount         Money      `json:"amount"`
		CategoryID     string     `json:"categoryId"`
		Description    string     `json:"description"`
		RecurrenceDate int        `json:"recurrenceDate"` // day of month, 1-31
		IsActive       bool       `json:"isActive"`
		LastProcessed  *time.Time `json:"lastProcessed,omitempty"`
	}
)

const maxDescriptionLen = 200

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidBudget        = errors.New("invalid budget")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidRecurrenceDay = errors.New("invalid recurrence day")
	ErrEmptyName            = errors.New("empty name")
	ErrEmptyDescription     = errors.New("empty description")
	ErrEmptyCategory        = errors.New("empty category")
	ErrDescriptionTooLong   = fmt.Errorf("description too long (max %d characters)", maxDescriptionLen)
)

// UncategorizedLabel is shown for records whose category no longer exists.
const UncategorizedLabel = "Uncategorized"

func (t TransactionType) Validate() error {
	switch t {
	case Expense, Income:
		return nil
	default:
		return ErrInvalidType
	}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Budget.Cents < 0 {
		return ErrInvalidBudget
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return t.Type.Validate()
}

func (p RecurringPayment) Validate() error {
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if err := validateDescription(p.Description); err != nil {
		return err
	}
	return ValidateRecurrenceDay(p.RecurrenceDate)
}

// ValidateRecurrenceDay accepts any day of month in [1,31]. Days past the end of
// a short month are accepted and simply never fall due in that month.
func ValidateRecurrenceDay(day int) error {
	if day < 1 || day > 31 {
		return ErrInvalidRecurrenceDay
	}
	return nil
}

func validateDescription(desc string) error {
	if strings.TrimSpace(desc) == "" {
		return ErrEmptyDescription
	}
	if len(desc) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

// CategoryName resolves a category id against cats, falling back to
// UncategorizedLabel for dangling references.
func CategoryName(cats []Category, id string) string {
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return UncategorizedLabel
}

package core

import (
	"strings"
	"time"
)

// Patch types replace free-form partial updates: a nil field is left
// untouched. Apply validates every set field before merging; callers must
// discard the returned record when the error is non-nil.

type CategoryPatch struct {
	Name   *string `json:"name,omitempty"`
	Budget *Money  `json:"budget,omitempty"`
	Color  *string `json:"color,omitempty"`
	Icon   *string `json:"icon,omitempty"`
}

func (p CategoryPatch) Apply(c Category) (Category, error) {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return c, ErrEmptyName
		}
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Budget != nil {
		if p.Budget.Cents < 0 {
			return c, ErrInvalidBudget
		}
		c.Budget = *p.Budget
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	return c, c.Validate()
}

type TransactionPatch struct {
	Amount      *Money           `json:"amount,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        *Date            `json:"date,omitempty"`
	Type        *TransactionType `json:"type,omitempty"`
}

func (p TransactionPatch) Apply(t Transaction) (Transaction, error) {
	if p.Amount != nil {
		if err := p.Amount.Validate(); err != nil {
			return t, err
		}
		t.Amount = *p.Amount
	}
	if p.CategoryID != nil {
		if strings.TrimSpace(*p.CategoryID) == "" {
			return t, ErrEmptyCategory
		}
		t.CategoryID = *p.CategoryID
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		if err := validateDescription(desc); err != nil {
			return t, err
		}
		t.Description = desc
	}
	if p.Date != nil {
		if err := p.Date.Validate(); err != nil {
			return t, err
		}
		t.Date = *p.Date
	}
	if p.Type != nil {
		if err := p.Type.Validate(); err != nil {
			return t, err
		}
		t.Type = *p.Type
	}
	return t, t.Validate()
}

type RecurringPaymentPatch struct {
	Amount         *Money     `json:"amount,omitempty"`
	CategoryID     *string    `json:"categoryId,omitempty"`
	Description    *string    `json:"description,omitempty"`
	RecurrenceDate *int       `json:"recurrenceDate,omitempty"`
	IsActive       *bool      `json:"isActive,omitempty"`
	LastProcessed  *time.Time `json:"lastProcessed,omitempty"`
}

func (p RecurringPaymentPatch) Apply(rp RecurringPayment) (RecurringPayment, error) {
	if p.Amount != nil {
		if err := p.Amount.Validate(); err != nil {
			return rp, err
		}
		rp.Amount = *p.Amount
	}
	if p.CategoryID != nil {
		if strings.TrimSpace(*p.CategoryID) == "" {
			return rp, ErrEmptyCategory
		}
		rp.CategoryID = *p.CategoryID
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		if err := validateDescription(desc); err != nil {
			return rp, err
		}
		rp.Description = desc
	}
	if p.RecurrenceDate != nil {
		if err := ValidateRecurrenceDay(*p.RecurrenceDate); err != nil {
			return rp, err
		}
		rp.RecurrenceDate = *p.RecurrenceDate
	}
	if p.IsActive != nil {
		rp.IsActive = *p.IsActive
	}
	if p.LastProcessed != nil {
		ts := *p.LastProcessed
		rp.LastProcessed = &ts
	}
	return rp, rp.Validate()
}

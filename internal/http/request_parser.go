package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"budgettracker/internal/core"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// decodeJSON reads a single JSON object into dst. Unknown fields and
// trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: body exceeds %d bytes", errBadRequest, maxErr.Limit)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: empty body", errBadRequest)
		default:
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", errBadRequest)
	}
	return nil
}

type categoryRequest struct {
	Name   string     `json:"name"`
	Budget core.Money `json:"budget"`
	Color  string     `json:"color"`
	Icon   string     `json:"icon"`
}

type quickAddRequest struct {
	Name string `json:"name"`
}

type transactionRequest struct {
	Amount      core.Money           `json:"amount"`
	CategoryID  string               `json:"categoryId"`
	Description string               `json:"description"`
	Date        core.Date            `json:"date"`
	Type        core.TransactionType `json:"type"`
}

// recurringRequest defaults IsActive to true when omitted.
type recurringRequest struct {
	Amount         core.Money `json:"amount"`
	CategoryID     string     `json:"categoryId"`
	Description    string     `json:"description"`
	RecurrenceDate int        `json:"recurrenceDate"`
	IsActive       *bool      `json:"isActive"`
}

func (req categoryRequest) category() core.Category {
	return core.Category{
		Name:   sanitizeInput(req.Name),
		Budget: req.Budget,
		Color:  sanitizeInput(req.Color),
		Icon:   sanitizeInput(req.Icon),
	}
}

func (req transactionRequest) transaction() core.Transaction {
	return core.Transaction{
		Amount:      req.Amount,
		CategoryID:  sanitizeInput(req.CategoryID),
		Description: sanitizeInput(req.Description),
		Date:        req.Date,
		Type:        req.Type,
	}
}

func (req recurringRequest) payment() core.RecurringPayment {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return core.RecurringPayment{
		Amount:         req.Amount,
		CategoryID:     sanitizeInput(req.CategoryID),
		Description:    sanitizeInput(req.Description),
		RecurrenceDate: req.RecurrenceDate,
		IsActive:       active,
	}
}

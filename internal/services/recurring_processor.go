package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"budgettracker/internal/core"
	"budgettracker/internal/log"
)

// Ledger is what the processor needs from the entity store.
type Ledger interface {
	RecurringPayments() []core.RecurringPayment
	AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateRecurringPayment(ctx context.Context, id string, patch core.RecurringPaymentPatch) (core.RecurringPayment, error)
}

// State is where a payment stands on a given day.
type State string

const (
	StateIdle           State = "idle"
	StateDueToday       State = "due_today"
	StateProcessedToday State = "processed_today"
)

// RecurringProcessor turns due recurring payments into expense transactions.
type RecurringProcessor struct {
	mu      sync.Mutex
	ledger  Ledger
	checker DuenessChecker
	logger  *log.Logger
}

func NewRecurringProcessor(ledger Ledger, checker DuenessChecker, logger *log.Logger) *RecurringProcessor {
	if checker == nil {
		checker = ExactDayChecker{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &RecurringProcessor{
		ledger:  ledger,
		checker: checker,
		logger:  logger.WithComponent(log.ComponentScheduler),
	}
}

// Checker is the recurrence policy the processor fires on.
func (p *RecurringProcessor) Checker() DuenessChecker { return p.checker }

// PaymentState classifies p on now's calendar day.
func (p *RecurringProcessor) PaymentState(rp core.RecurringPayment, now time.Time) State {
	return PaymentState(p.checker, rp, now)
}

// PaymentState classifies rp on now's calendar day using checker. "Today"
// is the calendar day of now in now's location.
func PaymentState(checker DuenessChecker, rp core.RecurringPayment, now time.Time) State {
	if processedToday(rp, now) {
		return StateProcessedToday
	}
	if rp.IsActive && checker.FallsOn(rp.RecurrenceDate, now) {
		return StateDueToday
	}
	return StateIdle
}

func processedToday(rp core.RecurringPayment, now time.Time) bool {
	return rp.LastProcessed != nil && !rp.LastProcessed.Before(startOfDay(now))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ProcessDue emits one expense transaction, dated today, for every payment
// that is due today and not yet processed, then stamps LastProcessed with
// now. Calling it again on the same day emits nothing. Missed days are not
// backfilled. Failures on one payment do not stop the others; they are
// returned joined.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) ([]core.Transaction, error) {
	if p.ledger == nil {
		return nil, fmt.Errorf("processor not properly initialized")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	payments := p.ledger.RecurringPayments()
	emitted := []core.Transaction{}
	var errs []error

	for _, rp := range payments {
		if PaymentState(p.checker, rp, now) != StateDueToday {
			continue
		}

		tx, err := p.ledger.AddTransaction(ctx, core.Transaction{
			Amount:      rp.Amount,
			CategoryID:  rp.CategoryID,
			Description: rp.Description,
			Date:        core.DateOf(now),
			Type:        core.Expense,
		})
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to emit recurring transaction",
				log.FieldEntityID, rp.ID, log.FieldError, err)
			errs = append(errs, fmt.Errorf("recurring payment %s: %w", rp.ID, err))
			continue
		}

		stamp := now
		if _, err := p.ledger.UpdateRecurringPayment(ctx, rp.ID, core.RecurringPaymentPatch{LastProcessed: &stamp}); err != nil {
			// The transaction exists; report so the caller knows a rerun today could duplicate it.
			p.logger.ErrorContext(ctx, "Failed to mark recurring payment processed",
				log.FieldEntityID, rp.ID, log.FieldError, err)
			errs = append(errs, fmt.Errorf("mark recurring payment %s: %w", rp.ID, err))
		}

		emitted = append(emitted, tx)
		fields := log.NewFields().
			WithEntity("recurring_payment", rp.ID).
			WithTransaction(rp.Description, rp.Amount.Cents, rp.CategoryID).
			WithOperation(log.OpProcess)
		p.logger.InfoContext(ctx, "Created expense from recurring payment", fields.ToSlice()...)
	}

	p.logger.InfoContext(ctx, "Recurring payment processing complete",
		"processed", len(emitted),
		"total_checked", len(payments),
		"processing_date", core.DateOf(now).String())

	return emitted, errors.Join(errs...)
}

// TotalMonthlyRecurring sums the amounts of active payments.
func TotalMonthlyRecurring(payments []core.RecurringPayment) core.Money {
	var total int64
	for _, rp := range payments {
		if rp.IsActive {
			total += rp.Amount.Cents
		}
	}
	return core.Money{Cents: total}
}

package http

import (
	"net/http"
	"time"

	"budgettracker/internal/core"
	"budgettracker/internal/log"
	"budgettracker/internal/services"
)

// recurringView decorates a payment with its processing state as of now.
type recurringView struct {
	core.RecurringPayment
	State          services.State `json:"state"`
	NextOccurrence string         `json:"nextOccurrence,omitempty"`
	DayLabel       string         `json:"dayLabel"`
}

func (s *Server) recurringView(rp core.RecurringPayment, now time.Time) recurringView {
	var checker services.DuenessChecker = services.ExactDayChecker{}
	if s.processor != nil {
		checker = s.processor.Checker()
	}
	v := recurringView{
		RecurringPayment: rp,
		State:            services.PaymentState(checker, rp, now),
		DayLabel:         services.Ordinal(rp.RecurrenceDate),
	}
	if rp.IsActive {
		v.NextOccurrence = services.NextOccurrence(checker, rp.RecurrenceDate, now).Format(core.DateLayout)
	}
	return v
}

type recurringListResponse struct {
	Payments     []recurringView `json:"payments"`
	MonthlyTotal core.Money      `json:"monthlyTotal"`
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	payments := s.store.RecurringPayments()
	views := make([]recurringView, 0, len(payments))
	for _, rp := range payments {
		views = append(views, s.recurringView(rp, now))
	}
	writeJSON(w, http.StatusOK, recurringListResponse{
		Payments:     views,
		MonthlyTotal: services.TotalMonthlyRecurring(payments),
	})
}

func (s *Server) handleGetRecurring(w http.ResponseWriter, r *http.Request) {
	rp, err := s.store.RecurringPayment(r.PathValue("id"))
	if err != nil {
		fail(w, r, "get_recurring", err)
		return
	}
	writeJSON(w, http.StatusOK, s.recurringView(rp, s.now()))
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, "create_recurring", err)
		return
	}
	rp, err := s.store.AddRecurringPayment(r.Context(), req.payment())
	if err != nil {
		fail(w, r, "create_recurring", err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogMutation(r.Context(), "recurring_payment", "create", rp.ID)
	writeJSON(w, http.StatusCreated, s.recurringView(rp, s.now()))
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var patch core.RecurringPaymentPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		fail(w, r, "update_recurring", err)
		return
	}
	sanitizePtr(patch.CategoryID)
	sanitizePtr(patch.Description)
	rp, err := s.store.UpdateRecurringPayment(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, r, "update_recurring", err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogMutation(r.Context(), "recurring_payment", "update", rp.ID)
	writeJSON(w, http.StatusOK, s.recurringView(rp, s.now()))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteRecurringPayment(r.Context(), id); err != nil {
		fail(w, r, "delete_recurring", err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogMutation(r.Context(), "recurring_payment", "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

type processResponse struct {
	Created []core.Transaction `json:"created"`
}

// handleProcessRecurring runs the due-payment pass immediately.
func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	if s.processor == nil {
		writeError(w, http.StatusServiceUnavailable, "recurring processor not configured")
		return
	}
	created, err := s.processor.ProcessDue(r.Context(), s.now())
	if err != nil {
		fail(w, r, "process_recurring", err)
		return
	}
	if created == nil {
		created = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, processResponse{Created: created})
}

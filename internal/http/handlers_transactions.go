package http

import (
	"net/http"

	"budgettracker/internal/core"
	"budgettracker/internal/log"
	"budgettracker/internal/store"
)

// handleListTransactions supports search, categoryId and type filters.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.TransactionFilter{
		Search:     sanitizeInput(q.Get("search")),
		CategoryID: sanitizeInput(q.Get("categoryId")),
		Type:       core.TransactionType(sanitizeInput(q.Get("type"))),
	}
	if f.Type != "" {
		if err := f.Type.Validate(); err != nil {
			fail(w, r, "list_transactions", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.store.FilterTransactions(f))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Transaction(r.PathValue("id"))
	if err != nil {
		fail(w, r, "get_transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, "create_transaction", err)
		return
	}
	t, err := s.store.AddTransaction(r.Context(), req.transaction())
	if err != nil {
		fail(w, r, "create_transaction", err)
		return
	}
	logger := log.FromContext(r.Context())
	logger.InfoContext(r.Context(), "Transaction recorded",
		log.NewFields().WithTransaction(t.Description, t.Amount.Cents, t.CategoryID).ToSlice()...)
	log.NewStructuredLogger(logger).LogMutation(r.Context(), "transaction", "create", t.ID)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch core.TransactionPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		fail(w, r, "update_transaction", err)
		return
	}
	sanitizePtr(patch.CategoryID)
	sanitizePtr(patch.Description)
	t, err := s.store.UpdateTransaction(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, r, "update_transaction", err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogMutation(r.Context(), "transaction", "update", t.ID)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		fail(w, r, "delete_transaction", err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogMutation(r.Context(), "transaction", "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleClearAll wipes every collection.
func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	s.store.Reset(r.Context())
	log.FromContext(r.Context()).WarnContext(r.Context(), "All data cleared")
	w.WriteHeader(http.StatusNoContent)
}

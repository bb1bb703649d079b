package http

import (
	"net/http"

	"budgettracker/internal/core"
	"budgettracker/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Categories())
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Category(r.PathValue("id"))
	if err != nil {
		fail(w, r, "get_category", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, "create_category", err)
		return
	}
	c, err := s.store.AddCategory(r.Context(), req.category())
	if err != nil {
		fail(w, r, "create_category", err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogMutation(r.Context(), "category", "create", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleQuickAddCategory(w http.ResponseWriter, r *http.Request) {
	var req quickAddRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, "quick_add_category", err)
		return
	}
	c, err := s.store.QuickAddCategory(r.Context(), sanitizeInput(req.Name))
	if err != nil {
		fail(w, r, "quick_add_category", err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogMutation(r.Context(), "category", "quick_add", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch core.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		fail(w, r, "update_category", err)
		return
	}
	sanitizePtr(patch.Name)
	sanitizePtr(patch.Color)
	sanitizePtr(patch.Icon)
	c, err := s.store.UpdateCategory(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, r, "update_category", err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogMutation(r.Context(), "category", "update", c.ID)
	writeJSON(w, http.StatusOK, c)
}

// handleDeleteCategory leaves the category's transactions in place; they are
// reported as uncategorized.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		fail(w, r, "delete_category", err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogMutation(r.Context(), "category", "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.AvailableSuggestions())
}

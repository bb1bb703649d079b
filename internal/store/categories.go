package store

import (
	"context"
	"fmt"
	"strings"

	"budgettracker/internal/core"
)

// AddCategory stores c under a fresh id. A missing color is taken from the
// palette.
func (s *Store) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	return s.addCategory(ctx, c, false)
}

// QuickAddCategory adds the named default suggestion with a zero budget.
func (s *Store) QuickAddCategory(ctx context.Context, name string) (core.Category, error) {
	sug, ok := core.FindSuggestion(name)
	if !ok {
		return core.Category{}, fmt.Errorf("%q: %w", name, ErrUnknownSuggestion)
	}
	return s.addCategory(ctx, core.Category{Name: sug.Name, Color: sug.Color, Icon: sug.Icon}, true)
}

// addCategory inserts c. With unique set, the name check and the insert
// happen under the same write lock.
func (s *Store) addCategory(ctx context.Context, c core.Category, unique bool) (core.Category, error) {
	c.ID = core.NewID()
	c.Name = strings.TrimSpace(c.Name)
	if c.Color == "" {
		c.Color = core.RandomColor()
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	s.mu.Lock()
	if unique && s.hasCategoryNamed(c.Name) {
		s.mu.Unlock()
		return core.Category{}, fmt.Errorf("%q: %w", c.Name, ErrCategoryExists)
	}
	s.categories = append(s.categories[:len(s.categories):len(s.categories)], c)
	s.persistCategories(ctx)
	ev := s.event(CategoryCreated, c.ID, c)
	s.mu.Unlock()

	s.subs.notify(ev)
	return c, nil
}

// AvailableSuggestions lists default categories whose name is not yet used.
func (s *Store) AvailableSuggestions() []core.Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []core.Suggestion{}
	for _, sug := range core.DefaultCategories {
		if !s.hasCategoryNamed(sug.Name) {
			out = append(out, sug)
		}
	}
	return out
}

func (s *Store) hasCategoryNamed(name string) bool {
	want := normalizeName(name)
	for _, c := range s.categories {
		if normalizeName(c.Name) == want {
			return true
		}
	}
	return false
}

func (s *Store) UpdateCategory(ctx context.Context, id string, patch core.CategoryPatch) (core.Category, error) {
	s.mu.Lock()
	i := indexOf(s.categories, id, categoryID)
	if i < 0 {
		s.mu.Unlock()
		return core.Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	previous := s.categories[i]
	updated, err := patch.Apply(previous)
	if err != nil {
		s.mu.Unlock()
		return core.Category{}, err
	}
	s.categories = replaced(s.categories, i, updated)
	s.persistCategories(ctx)
	ev := s.event(CategoryUpdated, id, updated)
	ev.Previous = previous
	s.mu.Unlock()

	s.subs.notify(ev)
	return updated, nil
}

// DeleteCategory removes the category only. Transactions and recurring
// payments that reference it are kept and render as uncategorized.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	i := indexOf(s.categories, id, categoryID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	removed := s.categories[i]
	s.categories = without(s.categories, i)
	s.persistCategories(ctx)
	ev := s.event(CategoryDeleted, id, removed)
	s.mu.Unlock()

	s.subs.notify(ev)
	return nil
}

package core

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Suggestion is a quick-add category template.
type Suggestion struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var DefaultCategories = []Suggestion{
	{Name: "Groceries", Color: "#4CAF50", Icon: "🛒"},
	{Name: "Food & Dining", Color: "#FF9800", Icon: "🍽️"},
	{Name: "Maid & Services", Color: "#9C27B0", Icon: "🧹"},
	{Name: "Rent", Color: "#2196F3", Icon: "🏠"},
	{Name: "House & Maintenance", Color: "#795548", Icon: "🔧"},
	{Name: "Utilities", Color: "#607D8B", Icon: "⚡"},
	{Name: "Entertainment", Color: "#E91E63", Icon: "🎬"},
	{Name: "Transport", Color: "#00BCD4", Icon: "🚗"},
	{Name: "Savings", Color: "#8BC34A", Icon: "💰"},
	{Name: "Healthcare", Color: "#F44336", Icon: "🏥"},
	{Name: "Shopping", Color: "#FF5722", Icon: "🛍️"},
	{Name: "Education", Color: "#3F51B5", Icon: "📚"},
}

var CategoryColors = []string{
	"#4CAF50", "#FF9800", "#9C27B0", "#2196F3", "#795548",
	"#607D8B", "#E91E63", "#00BCD4", "#8BC34A", "#F44336",
	"#FF5722", "#3F51B5", "#009688", "#FFC107", "#673AB7",
}

// RandomColor picks a palette color for categories created without one.
func RandomColor() string {
	return CategoryColors[rand.IntN(len(CategoryColors))]
}

// NewID returns an opaque unique identifier for a new entity.
func NewID() string {
	return uuid.NewString()
}

// FindSuggestion returns the quick-add template with the given name.
func FindSuggestion(name string) (Suggestion, bool) {
	for _, s := range DefaultCategories {
		if s.Name == name {
			return s, true
		}
	}
	return Suggestion{}, false
}

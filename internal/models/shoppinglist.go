package models

import "time"

// ShoppingListItem is one line item on a shopping list. IDs are generated
// (collision-resistant); Checked is flipped from the shopping screen.
type ShoppingListItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Amount  string `json:"amount"`
	Unit    string `json:"unit,omitempty"`
	Checked bool   `json:"checked"`
}

// ShoppingCategory groups items under one category name. Category names are
// unique within a list and item names are unique (case-insensitive) within
// a category.
type ShoppingCategory struct {
	Category IngredientCategory `json:"category"`
	Items    []ShoppingListItem `json:"items"`
}

// ShoppingList holds all items for one week, partitioned into categories.
// One list exists per (week number, year) pair; a category with zero items
// is pruned from the list.
type ShoppingList struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	WeekNumber int                `json:"weekNumber"`
	Year       int                `json:"year"`
	Date       time.Time          `json:"date"`
	Categories []ShoppingCategory `json:"categories"`
}

// FindCategory returns the index of the named category, or -1
func (l *ShoppingList) FindCategory(name IngredientCategory) int {
	for i := range l.Categories {
		if l.Categories[i].Category == name {
			return i
		}
	}
	return -1
}

// ItemCount returns the total number of items across all categories
func (l *ShoppingList) ItemCount() int {
	n := 0
	for i := range l.Categories {
		n += len(l.Categories[i].Items)
	}
	return n
}

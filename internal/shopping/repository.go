// Package shopping owns the weekly shopping lists: create-per-week,
// ingredient merge with category resolution, and item-level edits.
package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/store"
	"github.com/chefchat/chefchat/internal/week"
	"go.uber.org/zap"
)

// ErrListNotFound is returned when an operation names a list id that does
// not exist in the stored collection
var ErrListNotFound = errors.New("shopping list not found")

// ErrItemNotFound is returned when an item id is absent from the given list
var ErrItemNotFound = errors.New("shopping list item not found")

// Repository owns the persisted shopping list collection. All mutations
// read the full collection, modify it, and write it back under a mutex.
type Repository struct {
	store  store.Store
	logger *zap.Logger
	merge  MergeStrategy
	now    func() time.Time
	mu     sync.Mutex
}

// NewRepository creates a shopping repository with the given merge strategy
func NewRepository(s store.Store, logger *zap.Logger, merge MergeStrategy) *Repository {
	return &Repository{
		store:  s,
		logger: logger,
		merge:  merge,
		now:    time.Now,
	}
}

// All returns every stored shopping list. A missing record is an empty
// collection, not an error.
func (r *Repository) All(ctx context.Context) ([]models.ShoppingList, error) {
	raw, err := r.store.Get(ctx, store.KeyShoppingLists)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed_to_load_shopping_lists", zap.Error(err))
		return nil, fmt.Errorf("failed to load shopping lists: %w", err)
	}

	var lists []models.ShoppingList
	if err := json.Unmarshal(raw, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode shopping lists: %w", err)
	}
	return lists, nil
}

func (r *Repository) save(ctx context.Context, lists []models.ShoppingList) error {
	raw, err := json.Marshal(lists)
	if err != nil {
		return fmt.Errorf("failed to encode shopping lists: %w", err)
	}
	if err := r.store.Set(ctx, store.KeyShoppingLists, raw); err != nil {
		r.logger.Error("failed_to_save_shopping_lists", zap.Error(err))
		return fmt.Errorf("failed to save shopping lists: %w", err)
	}
	return nil
}

// CreateForWeek returns the list for the week weeksAhead weeks from now,
// creating it when absent. Creation is idempotent per (week, year) key.
func (r *Repository) CreateForWeek(ctx context.Context, weeksAhead int) (*models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createForWeekLocked(ctx, weeksAhead)
}

func (r *Repository) createForWeekLocked(ctx context.Context, weeksAhead int) (*models.ShoppingList, error) {
	lists, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	target := r.now().AddDate(0, 0, weeksAhead*7)
	key := week.KeyFor(target)
	for i := range lists {
		if lists[i].WeekNumber == key.Week && lists[i].Year == key.Year {
			return &lists[i], nil
		}
	}

	list := models.ShoppingList{
		ID:         key.ID(),
		Name:       week.DisplayName(target),
		WeekNumber: key.Week,
		Year:       key.Year,
		Date:       target,
	}
	lists = append(lists, list)
	if err := r.save(ctx, lists); err != nil {
		return nil, err
	}
	r.logger.Info("shopping_list_created",
		zap.String("list_id", list.ID),
		zap.Int("week", key.Week),
		zap.Int("year", key.Year))
	return &list, nil
}

// AddIngredients merges the given ingredients into the current week's list
// (creating the list when needed) and returns the updated list. Items land
// in their normalized category; name matches within a category are merged
// per the configured strategy; categories stay sorted by name.
func (r *Repository) AddIngredients(ctx context.Context, ingredients []models.Ingredient) (*models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, err := r.createForWeekLocked(ctx, 0)
	if err != nil {
		return nil, err
	}
	return r.addIngredientsLocked(ctx, target.ID, ingredients)
}

// AddIngredientsToList merges ingredients into the named list
func (r *Repository) AddIngredientsToList(ctx context.Context, listID string, ingredients []models.Ingredient) (*models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addIngredientsLocked(ctx, listID, ingredients)
}

func (r *Repository) addIngredientsLocked(ctx context.Context, listID string, ingredients []models.Ingredient) (*models.ShoppingList, error) {
	lists, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findList(lists, listID)
	if idx < 0 {
		return nil, ErrListNotFound
	}
	list := &lists[idx]

	for _, ing := range ingredients {
		category := models.NormalizeCategory(string(ing.Category))
		ci := list.FindCategory(category)
		if ci < 0 {
			list.Categories = append(list.Categories, models.ShoppingCategory{Category: category})
			ci = len(list.Categories) - 1
		}
		mergeItem(&list.Categories[ci], ing, r.merge)
	}

	sort.Slice(list.Categories, func(i, j int) bool {
		return list.Categories[i].Category < list.Categories[j].Category
	})

	if err := r.save(ctx, lists); err != nil {
		return nil, err
	}
	r.logger.Info("ingredients_added",
		zap.String("list_id", listID),
		zap.Int("ingredient_count", len(ingredients)),
		zap.Int("item_count", list.ItemCount()))
	return list, nil
}

// mergeItem folds one ingredient into a category, matching existing items
// by case-insensitive name
func mergeItem(cat *models.ShoppingCategory, ing models.Ingredient, strategy MergeStrategy) {
	for i := range cat.Items {
		if strings.EqualFold(cat.Items[i].Name, ing.Name) {
			strategy.Merge(&cat.Items[i], ing)
			return
		}
	}
	cat.Items = append(cat.Items, models.ShoppingListItem{
		ID:     uuid.New().String(),
		Name:   ing.Name,
		Amount: ing.Amount,
		Unit:   ing.Unit,
	})
}

// ToggleItem flips the checked state of one item
func (r *Repository) ToggleItem(ctx context.Context, listID, itemID string) (*models.ShoppingList, error) {
	return r.updateItem(ctx, listID, itemID, func(item *models.ShoppingListItem) {
		item.Checked = !item.Checked
	})
}

func (r *Repository) updateItem(ctx context.Context, listID, itemID string, apply func(*models.ShoppingListItem)) (*models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findList(lists, listID)
	if idx < 0 {
		return nil, ErrListNotFound
	}
	list := &lists[idx]

	for ci := range list.Categories {
		for ii := range list.Categories[ci].Items {
			if list.Categories[ci].Items[ii].ID == itemID {
				apply(&list.Categories[ci].Items[ii])
				if err := r.save(ctx, lists); err != nil {
					return nil, err
				}
				return list, nil
			}
		}
	}
	return nil, ErrItemNotFound
}

// DeleteItem removes one item, pruning its category when it becomes empty
func (r *Repository) DeleteItem(ctx context.Context, listID, itemID string) (*models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findList(lists, listID)
	if idx < 0 {
		return nil, ErrListNotFound
	}
	list := &lists[idx]

	for ci := range list.Categories {
		items := list.Categories[ci].Items
		for ii := range items {
			if items[ii].ID == itemID {
				list.Categories[ci].Items = append(items[:ii], items[ii+1:]...)
				pruneEmptyCategories(list)
				if err := r.save(ctx, lists); err != nil {
					return nil, err
				}
				return list, nil
			}
		}
	}
	return nil, ErrItemNotFound
}

// DeleteAllItems empties the named list
func (r *Repository) DeleteAllItems(ctx context.Context, listID string) (*models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findList(lists, listID)
	if idx < 0 {
		return nil, ErrListNotFound
	}
	lists[idx].Categories = nil

	if err := r.save(ctx, lists); err != nil {
		return nil, err
	}
	return &lists[idx], nil
}

// MoveItemToCategory relocates an item into another category, creating the
// target category when absent and pruning the source when it empties. The
// item keeps its id, amount, unit, and checked state.
func (r *Repository) MoveItemToCategory(ctx context.Context, listID, itemID string, target models.IngredientCategory) (*models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findList(lists, listID)
	if idx < 0 {
		return nil, ErrListNotFound
	}
	list := &lists[idx]
	target = models.NormalizeCategory(string(target))

	var moved *models.ShoppingListItem
	for ci := range list.Categories {
		items := list.Categories[ci].Items
		for ii := range items {
			if items[ii].ID == itemID {
				item := items[ii]
				moved = &item
				list.Categories[ci].Items = append(items[:ii], items[ii+1:]...)
				break
			}
		}
		if moved != nil {
			break
		}
	}
	if moved == nil {
		return nil, ErrItemNotFound
	}

	ti := list.FindCategory(target)
	if ti < 0 {
		list.Categories = append(list.Categories, models.ShoppingCategory{Category: target})
		ti = len(list.Categories) - 1
	}
	list.Categories[ti].Items = append(list.Categories[ti].Items, *moved)

	pruneEmptyCategories(list)
	sort.Slice(list.Categories, func(i, j int) bool {
		return list.Categories[i].Category < list.Categories[j].Category
	})

	if err := r.save(ctx, lists); err != nil {
		return nil, err
	}
	return list, nil
}

func findList(lists []models.ShoppingList, id string) int {
	for i := range lists {
		if lists[i].ID == id {
			return i
		}
	}
	return -1
}

func pruneEmptyCategories(list *models.ShoppingList) {
	kept := list.Categories[:0]
	for _, cat := range list.Categories {
		if len(cat.Items) > 0 {
			kept = append(kept, cat)
		}
	}
	list.Categories = kept
}

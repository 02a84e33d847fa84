// Package recipes gives read access to every recipe persisted in week plans
// and tracks the "currently cooking" recipe pointer.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/store"
	"github.com/chefchat/chefchat/internal/weekplan"
	"go.uber.org/zap"
)

// ErrRecipeNotFound is returned when no persisted recipe matches the id
var ErrRecipeNotFound = errors.New("recipe not found")

// ErrNoCurrentRecipe is returned when no recipe has been set as current
var ErrNoCurrentRecipe = errors.New("no current recipe")

// Repository reads recipes out of the week plan collection. Recipes have no
// collection of their own; week plans are the system of record.
type Repository struct {
	store  store.Store
	plans  *weekplan.Repository
	logger *zap.Logger
}

// NewRepository creates a recipe repository backed by the week plan collection
func NewRepository(s store.Store, plans *weekplan.Repository, logger *zap.Logger) *Repository {
	return &Repository{store: s, plans: plans, logger: logger}
}

// All returns the distinct recipes across every week plan, first occurrence
// winning on duplicate ids. Iteration over plans is in stored order and over
// days in the fixed weekday order, so the result is stable.
func (r *Repository) All(ctx context.Context) ([]models.Recipe, error) {
	plans, err := r.plans.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []models.Recipe
	for _, plan := range plans {
		for _, day := range models.Weekdays {
			for _, recipe := range plan.Days[day] {
				if seen[recipe.ID] {
					continue
				}
				seen[recipe.ID] = true
				out = append(out, recipe)
			}
		}
	}
	return out, nil
}

// GetByID returns the recipe with the given id from any week plan
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrRecipeNotFound
}

// SetCurrent persists the recipe the user is about to cook
func (r *Repository) SetCurrent(ctx context.Context, recipe *models.Recipe) error {
	raw, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to encode current recipe: %w", err)
	}
	if err := r.store.Set(ctx, store.KeyCurrentRecipe, raw); err != nil {
		r.logger.Error("failed_to_save_current_recipe", zap.Error(err))
		return fmt.Errorf("failed to save current recipe: %w", err)
	}
	return nil
}

// Current returns the persisted current-recipe pointer
func (r *Repository) Current(ctx context.Context) (*models.Recipe, error) {
	raw, err := r.store.Get(ctx, store.KeyCurrentRecipe)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoCurrentRecipe
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current recipe: %w", err)
	}

	var recipe models.Recipe
	if err := json.Unmarshal(raw, &recipe); err != nil {
		return nil, fmt.Errorf("failed to decode current recipe: %w", err)
	}
	return &recipe, nil
}

// Package weekplan owns the weekly meal plans: create-per-week, recipe
// distribution across days, and recipe moves between days.
package weekplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/store"
	"github.com/chefchat/chefchat/internal/week"
	"go.uber.org/zap"
)

// ErrPlanNotFound is returned when an operation names a plan id that does
// not exist in the stored collection
var ErrPlanNotFound = errors.New("week plan not found")

// ErrRecipeNotFound is returned when a recipe id is absent from the named day
var ErrRecipeNotFound = errors.New("recipe not found in week plan")

// ErrInvalidDay is returned when a day key is not one of the seven weekdays
var ErrInvalidDay = errors.New("invalid weekday")

// Repository owns the persisted week plan collection. All mutations read
// the full collection, modify it, and write it back under a mutex.
type Repository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// NewRepository creates a week plan repository on the given store
func NewRepository(s store.Store, logger *zap.Logger) *Repository {
	return &Repository{store: s, logger: logger, now: time.Now}
}

// All returns every stored week plan. A missing record is an empty
// collection, not an error.
func (r *Repository) All(ctx context.Context) ([]models.WeekPlan, error) {
	raw, err := r.store.Get(ctx, store.KeyWeekPlans)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed_to_load_week_plans", zap.Error(err))
		return nil, fmt.Errorf("failed to load week plans: %w", err)
	}

	var plans []models.WeekPlan
	if err := json.Unmarshal(raw, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode week plans: %w", err)
	}
	return plans, nil
}

func (r *Repository) save(ctx context.Context, plans []models.WeekPlan) error {
	raw, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("failed to encode week plans: %w", err)
	}
	if err := r.store.Set(ctx, store.KeyWeekPlans, raw); err != nil {
		r.logger.Error("failed_to_save_week_plans", zap.Error(err))
		return fmt.Errorf("failed to save week plans: %w", err)
	}
	return nil
}

// CreateForWeek returns the plan for the week weeksAhead weeks from now,
// creating it when absent. Creation is idempotent per (week, year) key.
func (r *Repository) CreateForWeek(ctx context.Context, weeksAhead int) (*models.WeekPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createForWeekLocked(ctx, weeksAhead)
}

func (r *Repository) createForWeekLocked(ctx context.Context, weeksAhead int) (*models.WeekPlan, error) {
	plans, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	target := r.now().AddDate(0, 0, weeksAhead*7)
	key := week.KeyFor(target)
	for i := range plans {
		if plans[i].WeekNumber == key.Week && plans[i].Year == key.Year {
			return &plans[i], nil
		}
	}

	plan := models.WeekPlan{
		ID:         key.ID(),
		Name:       week.DisplayName(target),
		WeekNumber: key.Week,
		Year:       key.Year,
		Date:       target,
		Days:       models.NewDays(),
	}
	plans = append(plans, plan)
	if err := r.save(ctx, plans); err != nil {
		return nil, err
	}
	r.logger.Info("week_plan_created",
		zap.String("plan_id", plan.ID),
		zap.Int("week", key.Week),
		zap.Int("year", key.Year))
	return &plan, nil
}

// DistributeRecipes spreads recipes across the current week's plan
// (creating the plan when needed) one per day starting Monday, wrapping
// back to Monday when more than seven recipes are given.
func (r *Repository) DistributeRecipes(ctx context.Context, recipes []models.Recipe) (*models.WeekPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, err := r.createForWeekLocked(ctx, 0)
	if err != nil {
		return nil, err
	}
	return r.distributeLocked(ctx, plan.ID, recipes)
}

// DistributeRecipesToPlan spreads recipes across the named plan
func (r *Repository) DistributeRecipesToPlan(ctx context.Context, planID string, recipes []models.Recipe) (*models.WeekPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.distributeLocked(ctx, planID, recipes)
}

func (r *Repository) distributeLocked(ctx context.Context, planID string, recipes []models.Recipe) (*models.WeekPlan, error) {
	plans, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findPlan(plans, planID)
	if idx < 0 {
		return nil, ErrPlanNotFound
	}
	plan := &plans[idx]
	if plan.Days == nil {
		plan.Days = models.NewDays()
	}

	for i, recipe := range recipes {
		day := models.Weekdays[i%len(models.Weekdays)]
		plan.Days[day] = append(plan.Days[day], recipe)
	}

	if err := r.save(ctx, plans); err != nil {
		return nil, err
	}
	r.logger.Info("recipes_distributed",
		zap.String("plan_id", planID),
		zap.Int("recipe_count", len(recipes)))
	return plan, nil
}

// MoveRecipe relocates the first recipe matching recipeID from one day to
// another within the same plan
func (r *Repository) MoveRecipe(ctx context.Context, planID string, from, to models.Weekday, recipeID string) (*models.WeekPlan, error) {
	if !from.IsValid() || !to.IsValid() {
		return nil, ErrInvalidDay
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	plans, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findPlan(plans, planID)
	if idx < 0 {
		return nil, ErrPlanNotFound
	}
	plan := &plans[idx]

	source := plan.Days[from]
	for i := range source {
		if source[i].ID == recipeID {
			recipe := source[i]
			plan.Days[from] = append(source[:i], source[i+1:]...)
			plan.Days[to] = append(plan.Days[to], recipe)
			if err := r.save(ctx, plans); err != nil {
				return nil, err
			}
			return plan, nil
		}
	}
	return nil, ErrRecipeNotFound
}

// DeleteRecipe removes the first recipe matching recipeID from the named day
func (r *Repository) DeleteRecipe(ctx context.Context, planID string, day models.Weekday, recipeID string) (*models.WeekPlan, error) {
	if !day.IsValid() {
		return nil, ErrInvalidDay
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	plans, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := findPlan(plans, planID)
	if idx < 0 {
		return nil, ErrPlanNotFound
	}
	plan := &plans[idx]

	recipes := plan.Days[day]
	for i := range recipes {
		if recipes[i].ID == recipeID {
			plan.Days[day] = append(recipes[:i], recipes[i+1:]...)
			if err := r.save(ctx, plans); err != nil {
				return nil, err
			}
			return plan, nil
		}
	}
	return nil, ErrRecipeNotFound
}

func findPlan(plans []models.WeekPlan, id string) int {
	for i := range plans {
		if plans[i].ID == id {
			return i
		}
	}
	return -1
}

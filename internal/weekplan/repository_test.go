package weekplan

import (
	"context"
	"testing"
	"time"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/store"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(store.NewMemoryStore(), zap.NewNop())
	repo.now = func() time.Time {
		return time.Date(2025, 3, 19, 12, 0, 0, 0, time.UTC) // week 12
	}
	return repo
}

func testRecipes(n int) []models.Recipe {
	recipes := make([]models.Recipe, n)
	for i := range recipes {
		recipes[i] = models.Recipe{
			ID:    string(rune('a' + i)),
			Title: "Recipe " + string(rune('A'+i)),
		}
	}
	return recipes
}

func TestCreateForWeekIdempotent(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.CreateForWeek(ctx, 0)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := repo.CreateForWeek(ctx, 0)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %q vs %q", first.ID, second.ID)
	}
	if first.ID != "week-12-2025" {
		t.Errorf("id = %q, want week-12-2025", first.ID)
	}
	if len(first.Days) != 7 {
		t.Errorf("expected 7 day slots, got %d", len(first.Days))
	}

	plans, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("expected 1 plan, got %d", len(plans))
	}
}

func TestDistributeThreeRecipes(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	plan, err := repo.DistributeRecipes(context.Background(), testRecipes(3))
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}

	for _, day := range []models.Weekday{models.Monday, models.Tuesday, models.Wednesday} {
		if len(plan.Days[day]) != 1 {
			t.Errorf("%s has %d recipes, want 1", day, len(plan.Days[day]))
		}
	}
	for _, day := range []models.Weekday{models.Thursday, models.Friday, models.Saturday, models.Sunday} {
		if len(plan.Days[day]) != 0 {
			t.Errorf("%s has %d recipes, want 0", day, len(plan.Days[day]))
		}
	}
	if plan.Days[models.Monday][0].ID != "a" {
		t.Errorf("monday recipe = %q, want a", plan.Days[models.Monday][0].ID)
	}
}

func TestDistributeWrapsPastSeven(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	plan, err := repo.DistributeRecipes(context.Background(), testRecipes(9))
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}

	if len(plan.Days[models.Monday]) != 2 {
		t.Errorf("monday has %d recipes, want 2", len(plan.Days[models.Monday]))
	}
	if len(plan.Days[models.Tuesday]) != 2 {
		t.Errorf("tuesday has %d recipes, want 2", len(plan.Days[models.Tuesday]))
	}
	if len(plan.Days[models.Wednesday]) != 1 {
		t.Errorf("wednesday has %d recipes, want 1", len(plan.Days[models.Wednesday]))
	}
	// the eighth recipe lands after monday's first
	if got := plan.Days[models.Monday][1].ID; got != "h" {
		t.Errorf("monday second recipe = %q, want h", got)
	}
}

func TestDistributeAppendsToExistingDays(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.DistributeRecipes(ctx, testRecipes(2)); err != nil {
		t.Fatalf("first distribute failed: %v", err)
	}
	plan, err := repo.DistributeRecipes(ctx, []models.Recipe{{ID: "z", Title: "Extra"}})
	if err != nil {
		t.Fatalf("second distribute failed: %v", err)
	}
	if len(plan.Days[models.Monday]) != 2 {
		t.Errorf("monday has %d recipes, want 2 after second distribution", len(plan.Days[models.Monday]))
	}
}

func TestMoveRecipe(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	plan, err := repo.DistributeRecipes(ctx, testRecipes(3))
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}

	moved, err := repo.MoveRecipe(ctx, plan.ID, models.Monday, models.Friday, "a")
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if len(moved.Days[models.Monday]) != 0 {
		t.Errorf("monday still has %d recipes", len(moved.Days[models.Monday]))
	}
	if len(moved.Days[models.Friday]) != 1 || moved.Days[models.Friday][0].ID != "a" {
		t.Errorf("friday = %+v, want recipe a", moved.Days[models.Friday])
	}
	if moved.Days[models.Friday][0].Title != "Recipe A" {
		t.Errorf("move dropped recipe fields")
	}
}

func TestMoveRecipeFailures(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	plan, err := repo.DistributeRecipes(ctx, testRecipes(1))
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}

	tests := []struct {
		name    string
		planID  string
		from    models.Weekday
		to      models.Weekday
		recipe  string
		wantErr error
	}{
		{"missing plan", "week-1-1999", models.Monday, models.Tuesday, "a", ErrPlanNotFound},
		{"missing recipe", plan.ID, models.Monday, models.Tuesday, "nope", ErrRecipeNotFound},
		{"recipe on wrong day", plan.ID, models.Sunday, models.Tuesday, "a", ErrRecipeNotFound},
		{"bad day key", plan.ID, models.Weekday("someday"), models.Tuesday, "a", ErrInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.MoveRecipe(ctx, tt.planID, tt.from, tt.to, tt.recipe)
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteRecipe(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	plan, err := repo.DistributeRecipes(ctx, testRecipes(2))
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}

	updated, err := repo.DeleteRecipe(ctx, plan.ID, models.Monday, "a")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(updated.Days[models.Monday]) != 0 {
		t.Errorf("monday still has %d recipes", len(updated.Days[models.Monday]))
	}
	if len(updated.Days[models.Tuesday]) != 1 {
		t.Errorf("tuesday was touched by delete")
	}

	if _, err := repo.DeleteRecipe(ctx, plan.ID, models.Monday, "a"); err != ErrRecipeNotFound {
		t.Errorf("second delete err = %v, want ErrRecipeNotFound", err)
	}
}

package shopping

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/store"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T, merge MergeStrategy) *Repository {
	t.Helper()
	repo := NewRepository(store.NewMemoryStore(), zap.NewNop(), merge)
	repo.now = func() time.Time {
		return time.Date(2025, 3, 19, 12, 0, 0, 0, time.UTC) // week 12
	}
	return repo
}

func TestCreateForWeekIdempotent(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, OverwriteStrategy{})
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
	if first.Name != "Week 12 (17.03.2025 - 23.03.2025)" {
		t.Errorf("name = %q", first.Name)
	}

	lists, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(lists) != 1 {
		t.Errorf("expected 1 list, got %d", len(lists))
	}
}

func TestCreateForWeekAhead(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, OverwriteStrategy{})
	list, err := repo.CreateForWeek(context.Background(), 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if list.WeekNumber != 13 || list.Year != 2025 {
		t.Errorf("got week %d/%d, want 13/2025", list.WeekNumber, list.Year)
	}
}

func TestAddIngredientsMergesCaseInsensitive(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, OverwriteStrategy{})
	ctx := context.Background()

	list, err := repo.AddIngredients(ctx, []models.Ingredient{
		{Name: "Tomatoes", Amount: "2", Unit: "pcs", Category: models.CategoryProduce},
	})
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	original := list.Categories[0].Items[0]
	if original.ID == "" {
		t.Fatal("expected generated item id")
	}

	// check the item, then merge the same name with different casing
	list, err = repo.ToggleItem(ctx, list.ID, original.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	list, err = repo.AddIngredients(ctx, []models.Ingredient{
		{Name: "tomatoes", Amount: "5", Unit: "pcs", Category: models.CategoryProduce},
	})
	if err != nil {
		t.Fatalf("merge add failed: %v", err)
	}

	if list.ItemCount() != 1 {
		t.Fatalf("item count = %d, want 1 after merge", list.ItemCount())
	}
	merged := list.Categories[0].Items[0]
	if merged.ID != original.ID {
		t.Errorf("merge replaced item id")
	}
	if !merged.Checked {
		t.Errorf("merge dropped checked state")
	}
	if merged.Amount != "5" {
		t.Errorf("amount = %q, want overwritten 5", merged.Amount)
	}
}

func TestAddIngredientsSumStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		first      models.Ingredient
		second     models.Ingredient
		wantAmount string
		wantUnit   string
	}{
		{
			name:       "compatible units sum",
			first:      models.Ingredient{Name: "flour", Amount: "200", Unit: "g", Category: models.CategoryGrains},
			second:     models.Ingredient{Name: "flour", Amount: "300", Unit: "g", Category: models.CategoryGrains},
			wantAmount: "500",
			wantUnit:   "g",
		},
		{
			name:       "incompatible units overwrite",
			first:      models.Ingredient{Name: "milk", Amount: "200", Unit: "ml", Category: models.CategoryDairy},
			second:     models.Ingredient{Name: "milk", Amount: "1", Unit: "l", Category: models.CategoryDairy},
			wantAmount: "1",
			wantUnit:   "l",
		},
		{
			name:       "non-numeric amount overwrites",
			first:      models.Ingredient{Name: "salt", Amount: "a pinch", Unit: "", Category: models.CategorySpices},
			second:     models.Ingredient{Name: "salt", Amount: "some", Unit: "", Category: models.CategorySpices},
			wantAmount: "some",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newTestRepository(t, SumStrategy{})
			ctx := context.Background()

			if _, err := repo.AddIngredients(ctx, []models.Ingredient{tt.first}); err != nil {
				t.Fatalf("first add failed: %v", err)
			}
			list, err := repo.AddIngredients(ctx, []models.Ingredient{tt.second})
			if err != nil {
				t.Fatalf("second add failed: %v", err)
			}

			item := list.Categories[0].Items[0]
			if item.Amount != tt.wantAmount {
				t.Errorf("amount = %q, want %q", item.Amount, tt.wantAmount)
			}
			if tt.wantUnit != "" && item.Unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", item.Unit, tt.wantUnit)
			}
		})
	}
}

func TestAddIngredientsNormalizesCategory(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, OverwriteStrategy{})
	list, err := repo.AddIngredients(context.Background(), []models.Ingredient{
		{Name: "mystery sauce", Amount: "1", Category: "condiments"},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if list.Categories[0].Category != models.CategoryOther {
		t.Errorf("category = %q, want other", list.Categories[0].Category)
	}
}

func TestCategoriesSortedAfterAdd(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, OverwriteStrategy{})
	list, err := repo.AddIngredients(context.Background(), []models.Ingredient{
		{Name: "rice", Amount: "1", Category: models.CategoryGrains},
		{Name: "basil", Amount: "1", Category: models.CategoryProduce},
		{Name: "cheese", Amount: "1", Category: models.CategoryDairy},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	names := make([]string, len(list.Categories))
	for i, cat := range list.Categories {
		names[i] = string(cat.Category)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("categories not sorted: %v", names)
	}
}

func TestDeleteItemPrunesEmptyCategory(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, OverwriteStrategy{})
	ctx := context.Background()

	list, err := repo.AddIngredients(ctx, []models.Ingredient{
		{Name: "butter", Amount: "1", Category: models.CategoryDairy},
		{Name: "onion", Amount: "2", Category: models.CategoryProduce},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var butterID string
	for _, cat := range list.Categories {
		if cat.Category == models.CategoryDairy {
			butterID = cat.Items[0].ID
		}
	}

	list, err = repo.DeleteItem(ctx, list.ID, butterID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if list.FindCategory(models.CategoryDairy) != -1 {
		t.Error("empty dairy category was not pruned")
	}
	if list.FindCategory(models.CategoryProduce) == -1 {
		t.Error("produce category went missing")
	}
}

func TestDeleteAllItems(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, OverwriteStrategy{})
	ctx := context.Background()

	list, err := repo.AddIngredients(ctx, []models.Ingredient{
		{Name: "eggs", Amount: "6", Category: models.CategoryDairy},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	list, err = repo.DeleteAllItems(ctx, list.ID)
	if err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if list.ItemCount() != 0 {
		t.Errorf("item count = %d after delete all", list.ItemCount())
	}
}

func TestMoveItemToCategory(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, OverwriteStrategy{})
	ctx := context.Background()

	list, err := repo.AddIngredients(ctx, []models.Ingredient{
		{Name: "chickpeas", Amount: "1", Unit: "can", Category: models.CategoryOther},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	item := list.Categories[0].Items[0]

	list, err = repo.MoveItemToCategory(ctx, list.ID, item.ID, models.CategoryLegumes)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if list.FindCategory(models.CategoryOther) != -1 {
		t.Error("emptied source category was not pruned")
	}
	li := list.FindCategory(models.CategoryLegumes)
	if li == -1 {
		t.Fatal("target category was not created")
	}
	moved := list.Categories[li].Items[0]
	if moved.ID != item.ID || moved.Amount != item.Amount || moved.Unit != item.Unit {
		t.Errorf("move changed item fields: %+v", moved)
	}
}

func TestItemOperationsOnMissingIDs(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, OverwriteStrategy{})
	ctx := context.Background()

	if _, err := repo.ToggleItem(ctx, "no-such-list", "x"); err != ErrListNotFound {
		t.Errorf("toggle on missing list: err = %v, want ErrListNotFound", err)
	}

	list, err := repo.CreateForWeek(ctx, 0)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.DeleteItem(ctx, list.ID, "no-such-item"); err != ErrItemNotFound {
		t.Errorf("delete missing item: err = %v, want ErrItemNotFound", err)
	}
}

package models

// IngredientCategory is the fixed grouping used for shopping-list ingredients
type IngredientCategory string

const (
	CategoryProduce     IngredientCategory = "produce"
	CategoryDairy       IngredientCategory = "dairy"
	CategoryMeatFish    IngredientCategory = "meat-fish"
	CategoryGrains      IngredientCategory = "grains"
	CategorySpices      IngredientCategory = "spices"
	CategoryOilsVinegar IngredientCategory = "oils-vinegar"
	CategoryLegumes     IngredientCategory = "legumes"
	CategoryOther       IngredientCategory = "other"
)

// AllIngredientCategories lists the valid categories in display order
var AllIngredientCategories = []IngredientCategory{
	CategoryProduce,
	CategoryDairy,
	CategoryMeatFish,
	CategoryGrains,
	CategorySpices,
	CategoryOilsVinegar,
	CategoryLegumes,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories
func (c IngredientCategory) IsValid() bool {
	for _, known := range AllIngredientCategories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeCategory maps an arbitrary category string onto the fixed
// enumeration, falling back to "other" for anything unrecognized (including
// empty input from the model's output)
func NormalizeCategory(raw string) IngredientCategory {
	c := IngredientCategory(raw)
	if c.IsValid() {
		return c
	}
	return CategoryOther
}

// Ingredient is one line of a recipe's ingredient list
type Ingredient struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Amount   string             `json:"amount"`
	Unit     string             `json:"unit,omitempty"`
	Category IngredientCategory `json:"category"`
}

// Recipe is an AI-generated recipe. Recipes are immutable once generated;
// they are copied by value into week plans and shopping lists.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Image       string       `json:"image"`
	Time        string       `json:"time"`
	Servings    int          `json:"servings"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
}

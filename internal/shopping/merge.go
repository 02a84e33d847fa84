package shopping

import (
	"strconv"
	"strings"

	"github.com/chefchat/chefchat/internal/config"
	"github.com/chefchat/chefchat/internal/models"
)

// MergeStrategy decides what happens when an incoming ingredient matches an
// existing item by name within the same category. The existing item's ID and
// checked state always survive the merge.
type MergeStrategy interface {
	Merge(existing *models.ShoppingListItem, incoming models.Ingredient)
}

// OverwriteStrategy replaces the amount and unit with the incoming values
type OverwriteStrategy struct{}

func (OverwriteStrategy) Merge(existing *models.ShoppingListItem, incoming models.Ingredient) {
	existing.Amount = incoming.Amount
	existing.Unit = incoming.Unit
}

// SumStrategy adds numeric amounts when the units are compatible, falling
// back to overwrite when either amount fails to parse or the units differ
type SumStrategy struct{}

func (SumStrategy) Merge(existing *models.ShoppingListItem, incoming models.Ingredient) {
	if !unitsCompatible(existing.Unit, incoming.Unit) {
		existing.Amount = incoming.Amount
		existing.Unit = incoming.Unit
		return
	}
	a, errA := strconv.ParseFloat(strings.TrimSpace(existing.Amount), 64)
	b, errB := strconv.ParseFloat(strings.TrimSpace(incoming.Amount), 64)
	if errA != nil || errB != nil {
		existing.Amount = incoming.Amount
		existing.Unit = incoming.Unit
		return
	}
	existing.Amount = strconv.FormatFloat(a+b, 'f', -1, 64)
	if existing.Unit == "" {
		existing.Unit = incoming.Unit
	}
}

func unitsCompatible(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// StrategyFromConfig maps the configured strategy name to an implementation
func StrategyFromConfig(name string) MergeStrategy {
	if name == config.MergeStrategySum {
		return SumStrategy{}
	}
	return OverwriteStrategy{}
}

// Package store provides the key-value persistence layer. Every record is a
// whole JSON blob read and written in full on each mutation; the engines own
// serialization and treat a missing key as an empty collection.
package store

import (
	"context"
	"errors"
)

// Record keys for the four persisted records
const (
	KeyShoppingLists = "shopping_lists"
	KeyWeekPlans     = "week_plans"
	KeyPreferences   = "user_food_preferences"
	KeyCurrentRecipe = "current_recipe"
)

// Keys lists every record key, used by the full-store wipe
var Keys = []string{KeyShoppingLists, KeyWeekPlans, KeyPreferences, KeyCurrentRecipe}

// ErrNotFound is returned by Get when no record exists for the key
var ErrNotFound = errors.New("record not found")

// Store is an opaque async get/set-by-key blob store
type Store interface {
	// Get returns the raw record for key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes the full record for key, overwriting any previous value
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the record for key; deleting a missing key is a no-op
	Delete(ctx context.Context, key string) error
	// Ping verifies the backing store is reachable
	Ping(ctx context.Context) error
	// Close releases the underlying connection
	Close() error
}

// Wipe removes every known record. This is the only destruction path for
// week plans and shopping lists.
func Wipe(ctx context.Context, s Store) error {
	for _, key := range Keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Package preferences persists the user's dietary profile: one record per
// installation, created on first chat interaction and edited from settings.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/store"
	"go.uber.org/zap"
)

// Repository owns the stored UserPreferences record
type Repository struct {
	store  store.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// NewRepository creates a preference repository on the given store
func NewRepository(s store.Store, logger *zap.Logger) *Repository {
	return &Repository{store: s, logger: logger}
}

// Load returns the stored profile, or nil when none has been saved yet.
// Store read failures are logged and reported as absent.
func (r *Repository) Load(ctx context.Context) (*models.UserPreferences, error) {
	raw, err := r.store.Get(ctx, store.KeyPreferences)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed_to_load_preferences", zap.Error(err))
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var prefs models.UserPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		r.logger.Error("failed_to_decode_preferences", zap.Error(err))
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return &prefs, nil
}

// Save writes the full profile record
func (r *Repository) Save(ctx context.Context, prefs *models.UserPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := r.store.Set(ctx, store.KeyPreferences, raw); err != nil {
		r.logger.Error("failed_to_save_preferences", zap.Error(err))
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// AddTag appends a tag to the named preference list, ignoring duplicates
// (case-insensitive). Creates the profile when none exists.
func (r *Repository) AddTag(ctx context.Context, prefType models.PreferenceType, tag string) (*models.UserPreferences, error) {
	if !prefType.IsValid() {
		return nil, fmt.Errorf("unknown preference type %q", prefType)
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("empty preference tag")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prefs, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = &models.UserPreferences{}
	}

	tags := prefs.Tags(prefType)
	for _, existing := range tags {
		if strings.EqualFold(existing, tag) {
			return prefs, nil
		}
	}
	prefs.SetTags(prefType, append(tags, tag))

	if err := r.Save(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// RemoveTag deletes a tag (case-insensitive) from the named preference list
func (r *Repository) RemoveTag(ctx context.Context, prefType models.PreferenceType, tag string) (*models.UserPreferences, error) {
	if !prefType.IsValid() {
		return nil, fmt.Errorf("unknown preference type %q", prefType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prefs, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return &models.UserPreferences{}, nil
	}

	tags := prefs.Tags(prefType)
	kept := tags[:0]
	for _, existing := range tags {
		if !strings.EqualFold(existing, tag) {
			kept = append(kept, existing)
		}
	}
	prefs.SetTags(prefType, kept)

	if err := r.Save(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

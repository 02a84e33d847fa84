package preferences

import (
	"context"
	"strings"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/services/ai"
	"go.uber.org/zap"
)

// keywordRule maps a substring of the user's message to a preference tag
type keywordRule struct {
	substr   string
	prefType models.PreferenceType
	tag      string
}

// keywordRules is the offline fallback used when the AI extraction call
// fails. Substring matching against the lowercased message covers the
// inflected forms ("vegetarian", "vegetarisch").
var keywordRules = []keywordRule{
	{"vegetar", models.PreferenceHabits, "vegetarian"},
	{"vegan", models.PreferenceHabits, "vegan"},
	{"pescetar", models.PreferenceHabits, "pescetarian"},
	{"low carb", models.PreferenceHabits, "low-carb"},
	{"asia", models.PreferenceTrends, "asian"},
	{"italian", models.PreferenceTrends, "italian"},
	{"mexican", models.PreferenceTrends, "mexican"},
	{"indian", models.PreferenceTrends, "indian"},
	{"nut", models.PreferenceAllergies, "nuts"},
	{"gluten", models.PreferenceAllergies, "gluten"},
	{"lactose", models.PreferenceAllergies, "lactose"},
	{"shellfish", models.PreferenceAllergies, "shellfish"},
	{"pasta", models.PreferenceFavorites, "pasta"},
	{"curry", models.PreferenceFavorites, "curry"},
}

// ExtractFromText pulls preference tags out of a free-text message and merges
// them into the stored profile. Extraction is AI-assisted with a keyword-scan
// fallback so first contact still captures something when the provider is
// unreachable. Returns the merged profile.
func (r *Repository) ExtractFromText(ctx context.Context, provider ai.Provider, text string) (*models.UserPreferences, error) {
	extracted, err := provider.ExtractPreferences(ctx, text)
	if err != nil {
		r.logger.Warn("preference_extraction_failed",
			zap.Error(err),
			zap.String("fallback", "keyword_scan"))
		extracted = scanKeywords(text)
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
	prefs.Merge(extracted)

	if err := r.Save(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// scanKeywords is the offline extraction path
func scanKeywords(text string) *models.UserPreferences {
	lowered := strings.ToLower(text)
	prefs := &models.UserPreferences{}
	for _, rule := range keywordRules {
		if strings.Contains(lowered, rule.substr) {
			prefs.SetTags(rule.prefType, append(prefs.Tags(rule.prefType), rule.tag))
		}
	}
	return prefs
}

package models

// PreferenceType identifies one of the four tag lists in a dietary profile
type PreferenceType string

const (
	PreferenceHabits    PreferenceType = "habits"
	PreferenceFavorites PreferenceType = "favorites"
	PreferenceAllergies PreferenceType = "allergies"
	PreferenceTrends    PreferenceType = "trends"
)

// IsValid reports whether t is a known preference type
func (t PreferenceType) IsValid() bool {
	switch t {
	case PreferenceHabits, PreferenceFavorites, PreferenceAllergies, PreferenceTrends:
		return true
	default:
		return false
	}
}

// UserPreferences is the persisted dietary profile: one record per
// installation, created on first chat interaction and edited from settings.
type UserPreferences struct {
	Habits    []string `json:"habits"`
	Favorites []string `json:"favorites"`
	Allergies []string `json:"allergies"`
	Trends    []string `json:"trends"`
}

// Empty reports whether the profile counts as absent (all four lists empty)
func (p *UserPreferences) Empty() bool {
	if p == nil {
		return true
	}
	return len(p.Habits) == 0 && len(p.Favorites) == 0 && len(p.Allergies) == 0 && len(p.Trends) == 0
}

// Tags returns the tag list for the given preference type
func (p *UserPreferences) Tags(t PreferenceType) []string {
	switch t {
	case PreferenceHabits:
		return p.Habits
	case PreferenceFavorites:
		return p.Favorites
	case PreferenceAllergies:
		return p.Allergies
	case PreferenceTrends:
		return p.Trends
	default:
		return nil
	}
}

// SetTags replaces the tag list for the given preference type
func (p *UserPreferences) SetTags(t PreferenceType, tags []string) {
	switch t {
	case PreferenceHabits:
		p.Habits = tags
	case PreferenceFavorites:
		p.Favorites = tags
	case PreferenceAllergies:
		p.Allergies = tags
	case PreferenceTrends:
		p.Trends = tags
	}
}

// Merge folds another profile into this one, de-duplicating tags
func (p *UserPreferences) Merge(other *UserPreferences) {
	if other == nil {
		return
	}
	for _, t := range []PreferenceType{PreferenceHabits, PreferenceFavorites, PreferenceAllergies, PreferenceTrends} {
		merged := p.Tags(t)
		for _, tag := range other.Tags(t) {
			if !containsString(merged, tag) {
				merged = append(merged, tag)
			}
		}
		p.SetTags(t, merged)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

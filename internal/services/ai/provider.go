package ai

import (
	"context"

	"github.com/chefchat/chefchat/internal/models"
)

// Classification is the result of the cooking-topic gate
type Classification struct {
	IsCookingRelated bool   `json:"isCookingRelated"`
	Message          string `json:"message,omitempty"`
}

// GenerationRequest carries everything the recipe prompt embeds
type GenerationRequest struct {
	// Preferences is the free-text request collected in the chat
	Preferences string
	// RecipeCount is the number of recipes to generate (2-5)
	RecipeCount int
	// Servings is the portion count per recipe (1-20)
	Servings int
	// Profile is the stored dietary profile; allergies are a hard constraint
	Profile *models.UserPreferences
}

// Provider is the interface for AI providers
type Provider interface {
	// ClassifyCookingRelated decides whether free text is a cooking topic.
	// Hesitant or ambiguous text ("not sure", "surprise me") counts as
	// cooking-related.
	ClassifyCookingRelated(ctx context.Context, text string) (*Classification, error)

	// GenerateRecipes produces a strictly-shaped recipe list. A response
	// that is not valid JSON or omits the recipes array is an error the
	// caller surfaces as retryable, never a crash.
	GenerateRecipes(ctx context.Context, req GenerationRequest) ([]models.Recipe, error)

	// ExtractPreferences pulls a dietary profile out of free text
	ExtractPreferences(ctx context.Context, text string) (*models.UserPreferences, error)
}

// ProviderFactory creates a provider from string configuration
type ProviderFactory func(config map[string]string) (Provider, error)

// ProviderRegistry stores available AI providers by name
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates an empty registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]ProviderFactory)}
}

// Register registers a provider factory under name
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider builds the named provider
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (Provider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not registered
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 90 * time.Second

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"
)

const classifySystemPrompt = `You are a strict topic classifier for a cooking assistant. ` +
	`Decide whether the user's message is about cooking, food, recipes, diets or meal planning. ` +
	`Hesitant or open-ended messages like "not sure", "anything", "surprise me" count as cooking-related. ` +
	`Respond with valid JSON only, in this exact shape: ` +
	`{"isCookingRelated": true|false, "message": "short polite redirection when false"}`

const generateSystemPrompt = `You are a professional chef assistant specializing in creating ` +
	`delicious recipes with precise ingredients and instructions. You always respond with ` +
	`properly formatted JSON that matches the requested structure exactly.`

const extractSystemPrompt = `You extract dietary preferences from free text. ` +
	`Respond with valid JSON only: {"habits": [], "favorites": [], "allergies": [], "trends": []}. ` +
	`habits are dietary habits (vegetarian, vegan, low-carb), favorites are favorite dishes or ` +
	`ingredients, allergies are food allergies or intolerances, trends are preferred cuisine styles ` +
	`(italian, asian, mexican). Use short lowercase english tags. Leave lists empty rather than guessing.`

// OpenAIProvider implements the Provider interface using OpenAI's API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, DefaultOpenAIBaseURL, model, DefaultTimeout, nil, false)
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support
func NewOpenAIProviderWithLogger(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// ClassifyCookingRelated decides whether free text is a cooking topic
func (p *OpenAIProvider) ClassifyCookingRelated(ctx context.Context, text string) (*Classification, error) {
	content, err := p.completeJSON(ctx, "classify_cooking_related", classifySystemPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("failed to classify message: %w", err)
	}

	var result Classification
	if err := unmarshalSalvaged(content, &result); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", errors.Join(ErrMalformedResponse, err))
	}
	return &result, nil
}

// GenerateRecipes produces a strictly-shaped recipe list from the prompt
// built out of the collected request, count, servings and dietary profile
func (p *OpenAIProvider) GenerateRecipes(ctx context.Context, req GenerationRequest) ([]models.Recipe, error) {
	prompt := buildGenerationPrompt(req)

	content, err := p.completeJSON(ctx, "generate_recipes", generateSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipes: %w", err)
	}

	var payload struct {
		Recipes []models.Recipe `json:"recipes"`
	}
	if err := unmarshalSalvaged(content, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse recipe response: %w", errors.Join(ErrMalformedResponse, err))
	}
	if len(payload.Recipes) == 0 {
		return nil, fmt.Errorf("recipe response has no recipes array: %w", ErrMalformedResponse)
	}
	return payload.Recipes, nil
}

// ExtractPreferences pulls a dietary profile out of free text
func (p *OpenAIProvider) ExtractPreferences(ctx context.Context, text string) (*models.UserPreferences, error) {
	content, err := p.completeJSON(ctx, "extract_preferences", extractSystemPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract preferences: %w", err)
	}

	var prefs models.UserPreferences
	if err := unmarshalSalvaged(content, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences response: %w", errors.Join(ErrMalformedResponse, err))
	}
	return &prefs, nil
}

// completeJSON sends a system+user message pair requesting a JSON-object
// response and returns the raw content of the first choice
func (p *OpenAIProvider) completeJSON(ctx context.Context, operation, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", operation),
			zap.String("model", p.model),
			zap.Int("prompt_length", len(userPrompt)),
			zap.String("prompt_preview", SanitizePrompt(userPrompt, true)),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)

	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", operation),
				zap.String("model", p.model),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return "", apiErr
		}
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New(ErrNoChoicesInResponse)
	}
	content := resp.Choices[0].Message.Content

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", operation),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return content, nil
}

// unmarshalSalvaged parses content as JSON, retrying with the outermost
// brace-delimited span when the model wrapped the object in prose
func unmarshalSalvaged(content string, dest any) error {
	raw := content
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end != -1 && end > start {
			raw = raw[start : end+1]
		}
		if err := json.Unmarshal([]byte(raw), dest); err != nil {
			return err
		}
	}
	return nil
}

// buildGenerationPrompt builds the recipe-generation prompt. Allergies from
// the stored profile are stated as a hard constraint.
func buildGenerationPrompt(req GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d detailed recipes based on these preferences: %q.\n\n", req.RecipeCount, req.Preferences)
	fmt.Fprintf(&b, `For each recipe, please provide:
1. A descriptive title
2. Cooking time
3. Servings (%d portions)
4. A list of all ingredients with exact quantities for %d portions
5. Step-by-step cooking instructions
`, req.Servings, req.Servings)

	if !req.Profile.Empty() {
		b.WriteString("\nStored dietary profile:\n")
		if len(req.Profile.Habits) > 0 {
			fmt.Fprintf(&b, "- Dietary habits: %s\n", strings.Join(req.Profile.Habits, ", "))
		}
		if len(req.Profile.Favorites) > 0 {
			fmt.Fprintf(&b, "- Favorite dishes: %s\n", strings.Join(req.Profile.Favorites, ", "))
		}
		if len(req.Profile.Trends) > 0 {
			fmt.Fprintf(&b, "- Preferred cuisines: %s\n", strings.Join(req.Profile.Trends, ", "))
		}
		if len(req.Profile.Allergies) > 0 {
			fmt.Fprintf(&b, "\nHard constraint: the user is allergic to %s. No recipe may contain these ingredients in any form.\n",
				strings.Join(req.Profile.Allergies, ", "))
		}
	}

	fmt.Fprintf(&b, `
Format the response as a structured JSON object with the following format:
{
  "recipes": [
    {
      "id": "1",
      "title": "Recipe Title",
      "time": "30 min",
      "servings": %d,
      "image": "https://images.unsplash.com/photo-appropriate-image",
      "ingredients": [
        {"id": "1", "name": "Ingredient Name", "amount": "Amount with unit", "category": "Category"}
      ],
      "steps": ["Step 1 instruction", "Step 2 instruction"]
    }
  ]
}

For images, use appropriate food images from Unsplash with realistic URLs. `, req.Servings)

	categories := make([]string, 0, len(models.AllIngredientCategories))
	for _, c := range models.AllIngredientCategories {
		categories = append(categories, fmt.Sprintf("%q", string(c)))
	}
	fmt.Fprintf(&b, "Categorize ingredients in these categories: %s.", strings.Join(categories, ", "))

	return b.String()
}

// RegisterOpenAI registers the OpenAI provider with the registry
func RegisterOpenAI(registry *ProviderRegistry) {
	registry.Register("openai", func(config map[string]string) (Provider, error) {
		apiKey, ok := config["api_key"]
		if !ok || apiKey == "" {
			return nil, fmt.Errorf("openai api_key is required")
		}
		return NewOpenAIProvider(apiKey, config["model"]), nil
	})
}

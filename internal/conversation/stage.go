// Package conversation drives the chat that collects what to cook, how many
// recipes, and how many servings, then runs recipe generation and exposes
// follow-up actions on the transcript.
package conversation

// Stage is the discriminant of the conversation state machine
type Stage string

const (
	// StageInitial collects the dietary profile on first contact
	StageInitial Stage = "initial"
	// StageRecipeRequest waits for the free-text "what to cook" query
	StageRecipeRequest Stage = "recipe_request"
	// StageRecipeCount waits for the number of recipes to generate
	StageRecipeCount Stage = "recipe_count"
	// StageServings waits for the servings per recipe
	StageServings Stage = "servings"
	// StageGenerating means a generation call is in flight; user input is
	// ignored until it settles
	StageGenerating Stage = "generating"
)

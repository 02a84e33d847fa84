package conversation

import (
	"math/rand"
	"time"

	"github.com/chefchat/chefchat/internal/models"
)

// progressStages is the fixed ladder the cosmetic progress animation walks
// while the real generation call is pending. The labels are pure theater;
// only the API call produces the final transcript state.
var progressStages = []models.Progress{
	{Stage: "Starting recipe search...", Percent: 5},
	{Stage: "Searching cookbooks...", Percent: 15},
	{Stage: "Analyzing ingredients...", Percent: 25},
	{Stage: "Creating recipe drafts...", Percent: 35},
	{Stage: "Optimizing ingredient list...", Percent: 45},
	{Stage: "Refining spices...", Percent: 55},
	{Stage: "Calculating quantities...", Percent: 65},
	{Stage: "Checking combinations...", Percent: 75},
	{Stage: "Finalizing recipes...", Percent: 85},
	{Stage: "Preparing suggestions...", Percent: 95},
}

const (
	progressStageDone   = "Done! Enjoy your meal!"
	progressStageFailed = "Oops! The soup is burnt.."
)

// defaultProgressInterval spreads the ladder over the expected generation
// time: a 55 second base plus 5 seconds per requested recipe
func defaultProgressInterval(recipeCount int) time.Duration {
	total := 55*time.Second + time.Duration(recipeCount)*5*time.Second
	return total / time.Duration(len(progressStages)+1)
}

// jitter randomizes an interval by up to ±20% so the animation does not
// tick like a metronome
func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return base
	}
	variation := float64(base) * 0.4
	return base + time.Duration(rand.Float64()*variation-variation/2)
}

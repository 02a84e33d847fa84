package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	minRecipeCount = 2
	maxRecipeCount = 5
	minServings    = 1
	maxServings    = 20
)

var firstIntPattern = regexp.MustCompile(`-?\d+`)

// ParseRecipeCount extracts a recipe count from free text. The option-button
// tokens "2x".."5x" match first; otherwise the first integer in the text is
// taken. Values outside [2,5] are rejected, never clamped.
func ParseRecipeCount(text string) (int, bool) {
	for n := minRecipeCount; n <= maxRecipeCount; n++ {
		if strings.Contains(text, fmt.Sprintf("%dx", n)) {
			return n, true
		}
	}
	if n, ok := firstInt(text); ok && n >= minRecipeCount && n <= maxRecipeCount {
		return n, true
	}
	return 0, false
}

// ParseServings extracts a servings value from free text. The option-button
// tokens "2x".."4x" match first; otherwise the first integer in the text is
// taken. Values outside [1,20] are rejected, never clamped.
func ParseServings(text string) (int, bool) {
	for n := 2; n <= 4; n++ {
		if strings.Contains(text, fmt.Sprintf("%dx", n)) {
			return n, true
		}
	}
	if n, ok := firstInt(text); ok && n >= minServings && n <= maxServings {
		return n, true
	}
	return 0, false
}

func firstInt(text string) (int, bool) {
	match := firstIntPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

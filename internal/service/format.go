package service

import (
	"fmt"
	"strings"

	"github.com/chefmate/backend/internal/types"
)

// FormatRecipe renders a recipe detail as a display-ready text block. The
// output is deterministic: title, then timing and serving lines when present,
// then ingredients in provider order, then steps numbered from 1, then the
// source link. Nothing is reordered or deduplicated.
func FormatRecipe(detail types.RecipeDetail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s**\n", detail.Title)
	if detail.ReadyMinutes > 0 {
		fmt.Fprintf(&b, "Ready in %d minutes.\n", detail.ReadyMinutes)
	}
	if detail.Servings > 0 {
		fmt.Fprintf(&b, "Serves %d.\n", detail.Servings)
	}

	if len(detail.IngredientLines) > 0 {
		b.WriteString("\nIngredients:\n")
		for _, line := range detail.IngredientLines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	steps := detail.Steps
	if len(steps) == 0 {
		steps = splitInstructions(detail.Instructions)
	}
	if len(steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i, step := range steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}

	if detail.SourceURL != "" {
		fmt.Fprintf(&b, "\nSource: %s\n", detail.SourceURL)
	}

	return b.String()
}

// splitInstructions turns a flat instruction string into steps by splitting
// on sentence boundaries. Used when the provider returns no structured steps.
func splitInstructions(instructions string) []string {
	trimmed := strings.TrimSpace(instructions)
	if trimmed == "" {
		return nil
	}

	parts := strings.Split(trimmed, ". ")
	steps := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSuffix(strings.TrimSpace(part), ".")
		if part == "" {
			continue
		}
		steps = append(steps, part)
	}
	return steps
}

package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chefmate/backend/internal/types"
)

func TestFormatRecipe(t *testing.T) {
	detail := types.RecipeDetail{
		Title:           "Beef Stew",
		ReadyMinutes:    90,
		Servings:        4,
		IngredientLines: []string{"500g beef", "2 potatoes", "1 onion"},
		Steps:           []string{"Brown the beef", "Add vegetables", "Simmer"},
		SourceURL:       "https://example.com/beef-stew",
	}

	t.Run("full output", func(t *testing.T) {
		expected := "**Beef Stew**\n" +
			"Ready in 90 minutes.\n" +
			"Serves 4.\n" +
			"\nIngredients:\n" +
			"- 500g beef\n" +
			"- 2 potatoes\n" +
			"- 1 onion\n" +
			"\nSteps:\n" +
			"1. Brown the beef\n" +
			"2. Add vegetables\n" +
			"3. Simmer\n" +
			"\nSource: https://example.com/beef-stew\n"

		assert.Equal(t, expected, FormatRecipe(detail))
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		assert.Equal(t, FormatRecipe(detail), FormatRecipe(detail))
	})

	t.Run("optional lines omitted when absent", func(t *testing.T) {
		out := FormatRecipe(types.RecipeDetail{Title: "Mystery Dish"})

		assert.Equal(t, "**Mystery Dish**\n", out)
		assert.NotContains(t, out, "Ready in")
		assert.NotContains(t, out, "Serves")
		assert.NotContains(t, out, "Source:")
	})

	t.Run("ingredient order preserved", func(t *testing.T) {
		out := FormatRecipe(detail)

		beef := strings.Index(out, "500g beef")
		potatoes := strings.Index(out, "2 potatoes")
		onion := strings.Index(out, "1 onion")
		assert.True(t, beef < potatoes && potatoes < onion)
	})

	t.Run("duplicate lines are kept", func(t *testing.T) {
		out := FormatRecipe(types.RecipeDetail{
			Title:           "Salty Dish",
			IngredientLines: []string{"salt", "salt"},
		})

		assert.Equal(t, 2, strings.Count(out, "- salt\n"))
	})

	t.Run("flat instructions split into numbered steps", func(t *testing.T) {
		out := FormatRecipe(types.RecipeDetail{
			Title:        "Pasta",
			Instructions: "Boil water. Add pasta. Serve hot.",
		})

		assert.Contains(t, out, "1. Boil water\n")
		assert.Contains(t, out, "2. Add pasta\n")
		assert.Contains(t, out, "3. Serve hot\n")
	})

	t.Run("structured steps win over flat instructions", func(t *testing.T) {
		out := FormatRecipe(types.RecipeDetail{
			Title:        "Pasta",
			Steps:        []string{"Do the thing"},
			Instructions: "Boil water. Add pasta.",
		})

		assert.Contains(t, out, "1. Do the thing\n")
		assert.NotContains(t, out, "Boil water")
	})
}

func TestSplitInstructions(t *testing.T) {
	assert.Nil(t, splitInstructions(""))
	assert.Nil(t, splitInstructions("   "))
	assert.Equal(t, []string{"One step only"}, splitInstructions("One step only."))
	assert.Equal(t, []string{"First", "Second"}, splitInstructions("First. Second."))
}

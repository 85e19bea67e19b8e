package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefmate/backend/internal/types"
)

type stubCompleter struct {
	fn func(systemPrompt, userPrompt string) (string, error)
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	return s.fn(systemPrompt, userPrompt)
}

func completerReturning(raw string) *stubCompleter {
	return &stubCompleter{fn: func(string, string) (string, error) { return raw, nil }}
}

func TestIntentParser_Parse(t *testing.T) {
	t.Run("valid JSON maps all fields", func(t *testing.T) {
		raw := `{"intent":"find_recipe","ingredients":["Potatoes","BEEF"],"exclude":["onion"],"dish":null,"message":"Based on your ingredients, here are some dishes:"}`
		parser := NewIntentParser(completerReturning(raw))

		intent := parser.Parse(context.Background(), "I have potatoes and beef")

		assert.Equal(t, types.IntentFindByIngredients, intent.Kind)
		assert.Equal(t, []string{"potatoes", "beef"}, intent.Ingredients)
		assert.Equal(t, []string{"onion"}, intent.Excluded)
		assert.Equal(t, "", intent.Dish)
		assert.Equal(t, "Based on your ingredients, here are some dishes:", intent.Summary)
	})

	t.Run("missing fields get defaults", func(t *testing.T) {
		parser := NewIntentParser(completerReturning(`{"intent":"find_recipe"}`))

		intent := parser.Parse(context.Background(), "anything")

		assert.Equal(t, types.IntentFindByIngredients, intent.Kind)
		assert.NotNil(t, intent.Ingredients)
		assert.Empty(t, intent.Ingredients)
		assert.NotNil(t, intent.Excluded)
		assert.Empty(t, intent.Excluded)
		assert.Equal(t, "", intent.Dish)
		assert.Equal(t, "", intent.Summary)
	})

	t.Run("code fence is stripped", func(t *testing.T) {
		raw := "```json\n{\"intent\":\"find_by_dish\",\"dish\":\"lasagna\",\"message\":\"Looking up lasagna\"}\n```"
		parser := NewIntentParser(completerReturning(raw))

		intent := parser.Parse(context.Background(), "how do I make lasagna")

		assert.Equal(t, types.IntentFindByDish, intent.Kind)
		assert.Equal(t, "lasagna", intent.Dish)
	})

	t.Run("text outside braces is ignored", func(t *testing.T) {
		raw := `Sure! Here is the classification: {"intent":"general","message":"hello"} hope that helps`
		parser := NewIntentParser(completerReturning(raw))

		intent := parser.Parse(context.Background(), "hi")

		assert.Equal(t, types.IntentGeneral, intent.Kind)
		assert.Equal(t, "hello", intent.Summary)
	})

	t.Run("unknown intent label falls back to ingredient search", func(t *testing.T) {
		parser := NewIntentParser(completerReturning(`{"intent":"banana","ingredients":["rice"]}`))

		intent := parser.Parse(context.Background(), "rice")

		assert.Equal(t, types.IntentFindByIngredients, intent.Kind)
	})

	t.Run("non-JSON output degrades to fallback", func(t *testing.T) {
		parser := NewIntentParser(completerReturning("I could not classify that, sorry!"))

		intent := parser.Parse(context.Background(), "chicken and rice")

		assert.Equal(t, types.IntentFindByIngredients, intent.Kind)
		assert.Equal(t, []string{"chicken and rice"}, intent.Ingredients)
		assert.Equal(t, "Searching for recipes based on: chicken and rice", intent.Summary)
	})

	t.Run("malformed JSON degrades to fallback", func(t *testing.T) {
		parser := NewIntentParser(completerReturning(`{"intent": "find_recipe", "ingredients": [`))

		intent := parser.Parse(context.Background(), "eggs")

		assert.Equal(t, []string{"eggs"}, intent.Ingredients)
	})

	t.Run("model error degrades to fallback", func(t *testing.T) {
		parser := NewIntentParser(&stubCompleter{fn: func(string, string) (string, error) {
			return "", errors.New("boom")
		}})

		intent := parser.Parse(context.Background(), "tofu")

		assert.Equal(t, types.IntentFindByIngredients, intent.Kind)
		assert.Equal(t, []string{"tofu"}, intent.Ingredients)
		assert.Equal(t, "Searching for recipes based on: tofu", intent.Summary)
	})
}

func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		label    string
		expected types.IntentKind
	}{
		{"find_recipe", types.IntentFindByIngredients},
		{"find_by_dish", types.IntentFindByDish},
		{"Find_By_Dish", types.IntentFindByDish},
		{"modify", types.IntentModify},
		{"general", types.IntentGeneral},
		{"", types.IntentFindByIngredients},
		{"something_else", types.IntentFindByIngredients},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			require.Equal(t, tt.expected, normalizeKind(tt.label))
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}

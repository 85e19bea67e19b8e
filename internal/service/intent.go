package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/chefmate/backend/internal/types"
)

const intentSystemPrompt = `You are a cooking assistant. Classify the user's message and respond ONLY with JSON in this structure:
{
    "intent": "one of: find_recipe, find_by_dish, modify, general",
    "ingredients": ["list of ingredients the user mentioned"],
    "exclude": ["ingredients the user wants to avoid"],
    "dish": "the dish name if the user asked for a specific dish, otherwise null",
    "message": "one short sentence to show the user while searching"
}

Use "find_recipe" when the user lists ingredients, "find_by_dish" when they name a dish, "modify" when they want to change a previous suggestion, and "general" for anything that is not a recipe request.`

// Completer is the language model call the parser depends on.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// IntentParser turns raw model output into a structured Intent. It never
// fails: model errors and malformed output degrade to treating the whole
// utterance as an ingredient list.
type IntentParser struct {
	llm Completer
}

// NewIntentParser creates a new IntentParser instance
func NewIntentParser(llm Completer) *IntentParser {
	return &IntentParser{llm: llm}
}

// Parse classifies one user utterance.
func (p *IntentParser) Parse(ctx context.Context, userText string) types.Intent {
	raw, err := p.llm.Complete(ctx, intentSystemPrompt, userText, 512, 0.2)
	if err != nil {
		log.Printf("[IntentParser] model call failed, using fallback: %v", err)
		return fallbackIntent(userText)
	}

	intent, err := decodeIntent(raw)
	if err != nil {
		log.Printf("[IntentParser] unparseable model output, using fallback: %v", err)
		return fallbackIntent(userText)
	}

	return intent
}

// fallbackIntent treats the whole utterance as an ingredient list.
func fallbackIntent(userText string) types.Intent {
	return types.Intent{
		Kind:        types.IntentFindByIngredients,
		Ingredients: []string{userText},
		Excluded:    []string{},
		Summary:     "Searching for recipes based on: " + userText,
	}
}

// decodeIntent extracts the JSON object from the model text: a leading code
// fence is stripped, then only the substring from the first '{' to the last
// '}' is parsed. Text outside the braces is ignored.
func decodeIntent(raw string) (types.Intent, error) {
	cleaned := stripCodeFence(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return types.Intent{}, fmt.Errorf("no JSON object in model output")
	}

	var payload struct {
		Intent      string   `json:"intent"`
		Ingredients []string `json:"ingredients"`
		Exclude     []string `json:"exclude"`
		Dish        *string  `json:"dish"`
		Message     string   `json:"message"`
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
		return types.Intent{}, fmt.Errorf("failed to parse intent JSON: %w", err)
	}

	intent := types.Intent{
		Kind:        normalizeKind(payload.Intent),
		Ingredients: make([]string, 0, len(payload.Ingredients)),
		Excluded:    payload.Exclude,
		Summary:     payload.Message,
	}
	for _, ing := range payload.Ingredients {
		intent.Ingredients = append(intent.Ingredients, strings.ToLower(ing))
	}
	if intent.Excluded == nil {
		intent.Excluded = []string{}
	}
	if payload.Dish != nil {
		intent.Dish = *payload.Dish
	}

	return intent, nil
}

// stripCodeFence removes a surrounding markdown fence such as ```json.
func stripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	if idx := strings.Index(cleaned, "\n"); idx >= 0 {
		cleaned = cleaned[idx+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
}

// normalizeKind maps the model's intent label onto the supported kinds. The
// model is free text at this point, so unknown labels fall back to an
// ingredient search.
func normalizeKind(label string) types.IntentKind {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "find_by_dish", "find_dish", "dish":
		return types.IntentFindByDish
	case "modify", "modify_recipe":
		return types.IntentModify
	case "general", "chat", "general_chat":
		return types.IntentGeneral
	default:
		return types.IntentFindByIngredients
	}
}

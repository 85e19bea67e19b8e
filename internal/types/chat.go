package types

import (
	"time"

	"github.com/google/uuid"
)

// IntentKind classifies what a single user utterance is asking for.
type IntentKind string

const (
	IntentFindByIngredients IntentKind = "find_by_ingredients"
	IntentFindByDish        IntentKind = "find_by_dish"
	IntentModify            IntentKind = "modify"
	IntentGeneral           IntentKind = "general"
)

// Intent is the structured classification of one user utterance. It is
// produced fresh per turn and never mutated afterwards.
type Intent struct {
	Kind        IntentKind `json:"kind"`
	Ingredients []string   `json:"ingredients"`
	Excluded    []string   `json:"excluded"`
	Dish        string     `json:"dish"`
	Summary     string     `json:"summary"`
}

// RecipeSummary is the lightweight result of a recipe search call.
type RecipeSummary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
}

// RecipeDetail is the full recipe payload fetched by ID. Instructions holds
// the provider's flat instruction text for recipes without structured steps.
type RecipeDetail struct {
	Title           string   `json:"title"`
	ReadyMinutes    int      `json:"ready_minutes,omitempty"`
	Servings        int      `json:"servings,omitempty"`
	IngredientLines []string `json:"ingredient_lines"`
	Steps           []string `json:"steps"`
	Instructions    string   `json:"instructions,omitempty"`
	SourceURL       string   `json:"source_url,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
}

// EntryRole identifies which side of the conversation produced an entry.
type EntryRole string

const (
	RoleUser      EntryRole = "user"
	RoleAssistant EntryRole = "assistant"
)

// EntryKind tags the content of a transcript entry so callers never have to
// sniff the text to tell a recipe card from plain assistant chatter.
type EntryKind string

const (
	EntryUserText      EntryKind = "user_text"
	EntryAssistantText EntryKind = "assistant_text"
	EntryRecipeCard    EntryKind = "recipe_card"
)

// TranscriptEntry is one line of the session transcript. RecipeID is set only
// on recipe_card entries and points at the search result the card was
// fetched from.
type TranscriptEntry struct {
	Role     EntryRole `json:"role"`
	Kind     EntryKind `json:"kind"`
	Text     string    `json:"text"`
	RecipeID int       `json:"recipe_id,omitempty"`
}

// Session is the linear transcript for one conversation. It is the only
// state that survives between turns.
type Session struct {
	ID        uuid.UUID         `json:"id"`
	Entries   []TranscriptEntry `json:"entries"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

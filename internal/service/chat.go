package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/chefmate/backend/internal/types"
)

const generalSystemPrompt = `You are a friendly cooking assistant. Answer the user's question briefly and helpfully. If the question is not about food or cooking, gently steer the conversation back to cooking.`

const generalFallbackReply = "I'm having trouble answering right now. Ask me about a dish or tell me what ingredients you have."

const defaultResultLimit = 3

// turnState tracks where a turn is in its lifecycle. Errored is reachable
// only from the search and detail phases; intent analysis cannot fail.
type turnState string

const (
	stateReceived  turnState = "received"
	stateAnalyzed  turnState = "analyzed"
	stateSearching turnState = "searching"
	stateDetailing turnState = "detailing"
	stateDone      turnState = "done"
	stateErrored   turnState = "errored"
)

// RecipeSearcher is the recipe provider surface the orchestrator drives.
type RecipeSearcher interface {
	SearchByIngredients(ctx context.Context, ingredients, excluded []string, limit int) ([]types.RecipeSummary, error)
	SearchByText(ctx context.Context, query string, limit int) ([]types.RecipeSummary, error)
	FetchDetail(ctx context.Context, id int) (types.RecipeDetail, error)
}

// ChatService drives one turn of the conversation: intent analysis, recipe
// search, detail fetches and formatting, in that order, strictly sequential.
type ChatService struct {
	llm     Completer
	parser  *IntentParser
	recipes RecipeSearcher
	store   SessionStore
	limit   int
}

// NewChatService creates a new ChatService instance. limit caps how many
// recipes one turn may expand into cards; zero means the default.
func NewChatService(llm Completer, recipes RecipeSearcher, store SessionStore, limit int) *ChatService {
	if limit <= 0 {
		limit = defaultResultLimit
	}
	return &ChatService{
		llm:     llm,
		parser:  NewIntentParser(llm),
		recipes: recipes,
		store:   store,
		limit:   limit,
	}
}

// HandleTurn runs one user utterance through the pipeline and appends the
// resulting entries to the session in a single atomic batch. The returned
// slice holds the user entry followed by every assistant entry, in the order
// they were produced. Pipeline failures become transcript entries; the only
// error returned is a session-store failure.
func (s *ChatService) HandleTurn(ctx context.Context, sessionID uuid.UUID, userText string) ([]types.TranscriptEntry, error) {
	state := stateReceived
	entries := []types.TranscriptEntry{
		{Role: types.RoleUser, Kind: types.EntryUserText, Text: userText},
	}

	intent := s.parser.Parse(ctx, userText)
	state = stateAnalyzed
	log.Printf("[ChatService] session=%s state=%s kind=%s", sessionID, state, intent.Kind)

	entries = append(entries, types.TranscriptEntry{
		Role: types.RoleAssistant,
		Kind: types.EntryAssistantText,
		Text: intent.Summary,
	})

	if intent.Kind == types.IntentGeneral {
		entries = append(entries, s.generalReply(ctx, userText))
		state = stateDone
	} else {
		state = stateSearching
		summaries, err := s.search(ctx, intent, userText)
		if err != nil {
			log.Printf("[ChatService] session=%s search failed: %v", sessionID, err)
			entries = append(entries, types.TranscriptEntry{
				Role: types.RoleAssistant,
				Kind: types.EntryAssistantText,
				Text: "Something went wrong while searching for recipes. Please try again.",
			})
			state = stateErrored
		} else if len(summaries) == 0 {
			entries = append(entries, types.TranscriptEntry{
				Role: types.RoleAssistant,
				Kind: types.EntryAssistantText,
				Text: "I couldn't find any recipes for that. Try different ingredients or a dish name.",
			})
			state = stateDone
		} else {
			state = stateDetailing
			entries = append(entries, s.detailEntries(ctx, summaries)...)
			state = stateDone
		}
	}

	log.Printf("[ChatService] session=%s state=%s entries=%d", sessionID, state, len(entries))

	if err := s.store.Append(ctx, sessionID, entries); err != nil {
		return nil, fmt.Errorf("failed to append turn to session: %w", err)
	}

	return entries, nil
}

// search routes the intent to the right provider call.
func (s *ChatService) search(ctx context.Context, intent types.Intent, userText string) ([]types.RecipeSummary, error) {
	query := intent.Dish
	if query == "" {
		query = userText
	}

	switch intent.Kind {
	case types.IntentFindByDish:
		return s.recipes.SearchByText(ctx, query, 1)
	default: // find_by_ingredients and modify
		if len(intent.Ingredients) > 0 {
			return s.recipes.SearchByIngredients(ctx, intent.Ingredients, intent.Excluded, s.limit)
		}
		return s.recipes.SearchByText(ctx, query, s.limit)
	}
}

// detailEntries expands search hits into recipe cards, in the order the
// provider returned them. One failed detail fetch is reported in place and
// never discards the cards around it.
func (s *ChatService) detailEntries(ctx context.Context, summaries []types.RecipeSummary) []types.TranscriptEntry {
	if len(summaries) > s.limit {
		summaries = summaries[:s.limit]
	}

	entries := make([]types.TranscriptEntry, 0, len(summaries))
	for _, summary := range summaries {
		detail, err := s.recipes.FetchDetail(ctx, summary.ID)
		if err != nil {
			log.Printf("[ChatService] failed to load recipe %d: %v", summary.ID, err)
			entries = append(entries, types.TranscriptEntry{
				Role: types.RoleAssistant,
				Kind: types.EntryAssistantText,
				Text: fmt.Sprintf("Could not load the full recipe for %q.", summary.Title),
			})
			continue
		}

		text := FormatRecipe(detail)
		image := summary.ImageURL
		if image == "" {
			image = detail.ImageURL
		}
		if image != "" {
			text = fmt.Sprintf("![%s](%s)\n\n%s", summary.Title, image, text)
		}

		entries = append(entries, types.TranscriptEntry{
			Role:     types.RoleAssistant,
			Kind:     types.EntryRecipeCard,
			Text:     text,
			RecipeID: summary.ID,
		})
	}

	return entries
}

// generalReply answers a non-recipe utterance with a plain model call. A
// failure here degrades to a canned reply rather than erroring the turn.
func (s *ChatService) generalReply(ctx context.Context, userText string) types.TranscriptEntry {
	reply, err := s.llm.Complete(ctx, generalSystemPrompt, userText, 512, 0.7)
	if err != nil {
		log.Printf("[ChatService] general reply failed: %v", err)
		reply = generalFallbackReply
	}

	return types.TranscriptEntry{
		Role: types.RoleAssistant,
		Kind: types.EntryAssistantText,
		Text: reply,
	}
}

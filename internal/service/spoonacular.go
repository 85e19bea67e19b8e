package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chefmate/backend/internal/types"
)

const defaultSpoonacularURL = "https://api.spoonacular.com"

// RecipeService wraps the Spoonacular read endpoints: ingredient search,
// free-text search and detail-by-id. All calls are read-only and
// all-or-nothing; no partial results are returned on error.
type RecipeService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService() (*RecipeService, error) {
	apiKey := os.Getenv("SPOONACULAR_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("SPOONACULAR_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("SPOONACULAR_API_KEY or SPOONACULAR_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	baseURL := os.Getenv("SPOONACULAR_API_URL")
	if baseURL == "" {
		baseURL = defaultSpoonacularURL
	}

	return &RecipeService{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// summaryPayload is the shape Spoonacular uses for search hits.
type summaryPayload struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// SearchByIngredients finds recipes using the given ingredients, skipping any
// in excluded. An empty ingredient list yields an empty query string, which
// the provider treats as no constraint.
func (s *RecipeService) SearchByIngredients(ctx context.Context, ingredients, excluded []string, limit int) ([]types.RecipeSummary, error) {
	params := url.Values{}
	params.Set("ingredients", strings.Join(ingredients, ","))
	if len(excluded) > 0 {
		params.Set("excludeIngredients", strings.Join(excluded, ","))
	}
	params.Set("number", strconv.Itoa(limit))
	params.Set("ranking", "1")

	body, err := s.get(ctx, "/recipes/findByIngredients", params)
	if err != nil {
		return nil, err
	}

	var payload []summaryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return toSummaries(payload), nil
}

// SearchByText finds recipes matching a free-text query.
func (s *RecipeService) SearchByText(ctx context.Context, query string, limit int) ([]types.RecipeSummary, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", strconv.Itoa(limit))

	body, err := s.get(ctx, "/recipes/complexSearch", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []summaryPayload `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return toSummaries(payload.Results), nil
}

// FetchDetail retrieves the full recipe information for one search hit.
func (s *RecipeService) FetchDetail(ctx context.Context, id int) (types.RecipeDetail, error) {
	body, err := s.get(ctx, fmt.Sprintf("/recipes/%d/information", id), url.Values{})
	if err != nil {
		return types.RecipeDetail{}, err
	}

	var payload struct {
		Title               string `json:"title"`
		ReadyInMinutes      int    `json:"readyInMinutes"`
		Servings            int    `json:"servings"`
		Image               string `json:"image"`
		SourceURL           string `json:"sourceUrl"`
		Instructions        string `json:"instructions"`
		ExtendedIngredients []struct {
			Original string `json:"original"`
		} `json:"extendedIngredients"`
		AnalyzedInstructions []struct {
			Steps []struct {
				Step string `json:"step"`
			} `json:"steps"`
		} `json:"analyzedInstructions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return types.RecipeDetail{}, fmt.Errorf("failed to decode recipe information: %w", err)
	}

	detail := types.RecipeDetail{
		Title:        payload.Title,
		ReadyMinutes: payload.ReadyInMinutes,
		Servings:     payload.Servings,
		Instructions: payload.Instructions,
		SourceURL:    payload.SourceURL,
		ImageURL:     payload.Image,
	}
	for _, ing := range payload.ExtendedIngredients {
		detail.IngredientLines = append(detail.IngredientLines, ing.Original)
	}
	for _, section := range payload.AnalyzedInstructions {
		for _, step := range section.Steps {
			detail.Steps = append(detail.Steps, step.Step)
		}
	}

	return detail, nil
}

// get performs one authenticated GET against the provider and returns the
// body of a successful response.
func (s *RecipeService) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Provider: "spoonacular", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: "spoonacular", Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrRecipeNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newUpstreamError("spoonacular", resp.StatusCode, body)
	}

	return body, nil
}

func toSummaries(payload []summaryPayload) []types.RecipeSummary {
	summaries := make([]types.RecipeSummary, 0, len(payload))
	for _, p := range payload {
		summaries = append(summaries, types.RecipeSummary{
			ID:       p.ID,
			Title:    p.Title,
			ImageURL: p.Image,
		})
	}
	return summaries
}

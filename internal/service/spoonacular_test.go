package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefmate/backend/internal/types"
)

func newTestRecipeService(t *testing.T, handler http.Handler) *RecipeService {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	t.Setenv("SPOONACULAR_API_KEY", "test-key")
	t.Setenv("SPOONACULAR_API_URL", ts.URL)

	svc, err := NewRecipeService()
	require.NoError(t, err)
	return svc
}

func TestNewRecipeService_MissingKey(t *testing.T) {
	t.Setenv("SPOONACULAR_API_KEY", "")
	t.Setenv("SPOONACULAR_API_KEY_FILE", "")

	_, err := NewRecipeService()
	assert.Error(t, err)
}

func TestRecipeService_SearchByIngredients(t *testing.T) {
	t.Run("builds the query and maps hits", func(t *testing.T) {
		svc := newTestRecipeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/recipes/findByIngredients", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "potatoes,beef", q.Get("ingredients"))
			assert.Equal(t, "onion", q.Get("excludeIngredients"))
			assert.Equal(t, "3", q.Get("number"))
			assert.Equal(t, "1", q.Get("ranking"))
			assert.Equal(t, "test-key", q.Get("apiKey"))
			_, _ = w.Write([]byte(`[{"id":101,"title":"Beef Stew","image":"https://img.example/101.jpg"},{"id":102,"title":"Hash"}]`))
		}))

		summaries, err := svc.SearchByIngredients(context.Background(), []string{"potatoes", "beef"}, []string{"onion"}, 3)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, types.RecipeSummary{ID: 101, Title: "Beef Stew", ImageURL: "https://img.example/101.jpg"}, summaries[0])
		assert.Equal(t, 102, summaries[1].ID)
	})

	t.Run("omits exclude param when empty", func(t *testing.T) {
		svc := newTestRecipeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasExclude := r.URL.Query()["excludeIngredients"]
			assert.False(t, hasExclude)
			_, _ = w.Write([]byte(`[]`))
		}))

		summaries, err := svc.SearchByIngredients(context.Background(), []string{"rice"}, nil, 3)
		require.NoError(t, err)
		assert.Empty(t, summaries)
	})

	t.Run("error status becomes an upstream error", func(t *testing.T) {
		svc := newTestRecipeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"message":"quota exhausted"}`))
		}))

		_, err := svc.SearchByIngredients(context.Background(), []string{"rice"}, nil, 3)

		var upstreamErr *UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, "spoonacular", upstreamErr.Provider)
		assert.Equal(t, http.StatusPaymentRequired, upstreamErr.Status)
		assert.Contains(t, upstreamErr.Body, "quota exhausted")
	})
}

func TestRecipeService_SearchByText(t *testing.T) {
	svc := newTestRecipeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/complexSearch", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "lasagna", q.Get("query"))
		assert.Equal(t, "1", q.Get("number"))
		_, _ = w.Write([]byte(`{"results":[{"id":7,"title":"Classic Lasagna"}]}`))
	}))

	summaries, err := svc.SearchByText(context.Background(), "lasagna", 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Classic Lasagna", summaries[0].Title)
}

func TestRecipeService_FetchDetail(t *testing.T) {
	t.Run("maps the information payload", func(t *testing.T) {
		svc := newTestRecipeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/recipes/101/information", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"title": "Beef Stew",
				"readyInMinutes": 90,
				"servings": 4,
				"image": "https://img.example/101.jpg",
				"sourceUrl": "https://example.com/beef-stew",
				"instructions": "Brown the beef. Simmer.",
				"extendedIngredients": [{"original": "500g beef"}, {"original": "2 potatoes"}],
				"analyzedInstructions": [{"steps": [{"step": "Brown the beef"}, {"step": "Simmer"}]}]
			}`))
		}))

		detail, err := svc.FetchDetail(context.Background(), 101)
		require.NoError(t, err)
		assert.Equal(t, "Beef Stew", detail.Title)
		assert.Equal(t, 90, detail.ReadyMinutes)
		assert.Equal(t, 4, detail.Servings)
		assert.Equal(t, []string{"500g beef", "2 potatoes"}, detail.IngredientLines)
		assert.Equal(t, []string{"Brown the beef", "Simmer"}, detail.Steps)
		assert.Equal(t, "Brown the beef. Simmer.", detail.Instructions)
		assert.Equal(t, "https://example.com/beef-stew", detail.SourceURL)
		assert.Equal(t, "https://img.example/101.jpg", detail.ImageURL)
	})

	t.Run("404 maps to not found", func(t *testing.T) {
		svc := newTestRecipeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := svc.FetchDetail(context.Background(), 999)
		assert.ErrorIs(t, err, ErrRecipeNotFound)
	})
}

// Package provider implements the client for the third-party recipe
// provider: search, single-recipe lookup, ingredient autocomplete and
// ingredient images, each normalized into the canonical recipe shape.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/devitsbeka/foodvault/internal/httpclient"
	"github.com/devitsbeka/foodvault/internal/log"
	"github.com/devitsbeka/foodvault/internal/memo"
	"github.com/devitsbeka/foodvault/internal/recipe"
)

const (
	// DefaultBaseURL is the provider API root.
	DefaultBaseURL = "https://api.spoonacular.com"

	defaultSearchResults = 12
	searchWindow         = 5 * time.Minute
	autocompleteWindow   = 5 * time.Minute
	// Ingredient images change far less often than search results.
	imageWindow = 24 * time.Hour
)

// ErrMissingAPIKey reports the fatal configuration error of constructing
// a client without a provider credential. It is never retried.
var ErrMissingAPIKey = errors.New("provider API key not configured")

// searchDiets translates the internal diet vocabulary into the provider's.
var searchDiets = map[recipe.DietType]string{
	recipe.DietVegetarian: "vegetarian",
	recipe.DietVegan:      "vegan",
	recipe.DietKeto:       "ketogenic",
	recipe.DietPaleo:      "paleo",
	recipe.DietGlutenFree: "gluten free",
}

// searchMealTypes translates the internal meal vocabulary into the
// provider's. Lunch and dinner both query the provider's "main course".
var searchMealTypes = map[recipe.MealType]string{
	recipe.MealBreakfast: "breakfast",
	recipe.MealLunch:     "main course",
	recipe.MealDinner:    "main course",
	recipe.MealSnack:     "snack",
}

type Config struct {
	APIKey  string
	BaseURL string
	Logger  *slog.Logger
	HTTP    *httpclient.Client
}

// Client talks to the external recipe provider. Search and autocomplete
// results are memoized for five minutes, ingredient images for a day;
// construct one client per process so the windows are shared.
type Client struct {
	apiKey  string
	baseURL string
	log     *slog.Logger
	http    *httpclient.Client

	searches      *memo.Memo[[]recipe.Recipe]
	autocompletes *memo.Memo[[]string]
	images        *memo.Memo[string]
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTP == nil {
		cfg.HTTP = httpclient.New(httpclient.DefaultConfig())
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NullLogger()
	}
	return &Client{
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		log:           cfg.Logger,
		http:          cfg.HTTP,
		searches:      memo.New[[]recipe.Recipe](searchWindow),
		autocompletes: memo.New[[]string](autocompleteWindow),
		images:        memo.New[string](imageWindow),
	}, nil
}

type SearchParams struct {
	Query      string
	DietType   string
	MealType   string
	Cuisine    string
	MaxResults int
}

// queryValues maps internal search parameters onto the provider's query
// vocabulary. Unrecognized and "all" values are omitted, not forwarded.
func (p SearchParams) queryValues() map[string]string {
	values := map[string]string{}
	if p.Query != "" {
		values["query"] = p.Query
	}
	if diet, ok := searchDiets[recipe.ParseDietType(p.DietType)]; ok {
		values["diet"] = diet
	}
	if mealType, ok := searchMealTypes[recipe.ParseMealType(p.MealType)]; ok {
		values["type"] = mealType
	}
	if cuisine := recipe.ParseCuisine(strings.ToLower(p.Cuisine)); cuisine != "" {
		values["cuisine"] = cuisine
	}
	max := p.MaxResults
	if max <= 0 {
		max = defaultSearchResults
	}
	values["number"] = strconv.Itoa(max)
	return values
}

func (c *Client) endpoint(path string, params map[string]string) string {
	values := url.Values{}
	values.Set("apiKey", c.apiKey)
	for k, v := range params {
		values.Set(k, v)
	}
	return c.baseURL + path + "?" + values.Encode()
}

// Search queries the provider and normalizes the results. Identical
// parameter sets within the five-minute window share one upstream call.
// Upstream failures degrade to an empty result.
func (c *Client) Search(ctx context.Context, params SearchParams) []recipe.Recipe {
	query := params.queryValues()
	query["addRecipeInformation"] = "true"
	query["fillIngredients"] = "true"

	results, err := c.searches.Do(ctx, memo.CanonicalKey(query), func(ctx context.Context) ([]recipe.Recipe, error) {
		var resp searchResponse
		if err := c.http.GetJSON(ctx, c.endpoint("/recipes/complexSearch", query), &resp); err != nil {
			return nil, fmt.Errorf("searching recipes: %w", err)
		}

		recipes := make([]recipe.Recipe, 0, len(resp.Results))
		for _, ext := range resp.Results {
			recipes = append(recipes, Normalize(ext))
		}
		return recipes, nil
	})
	if err != nil {
		c.log.ErrorContext(ctx, "provider search failed", slog.Any("error", err))
		return []recipe.Recipe{}
	}
	return results
}

// GetRecipe fetches a single recipe by its prefixed id. Ids without the
// source prefix short-circuit to nil without any network call, and every
// upstream failure likewise degrades to nil: callers cannot distinguish
// a missing recipe from a faulted provider.
func (c *Client) GetRecipe(ctx context.Context, id string) *recipe.Recipe {
	numeric, ok := strings.CutPrefix(id, SourcePrefix)
	if !ok {
		return nil
	}
	if _, err := strconv.ParseInt(numeric, 10, 64); err != nil {
		return nil
	}

	var ext ExternalRecipe
	path := fmt.Sprintf("/recipes/%s/information", numeric)
	if err := c.http.GetJSON(ctx, c.endpoint(path, map[string]string{"includeNutrition": "true"}), &ext); err != nil {
		c.log.ErrorContext(ctx, "provider recipe lookup failed",
			slog.String("id", id), slog.Any("error", err))
		return nil
	}

	normalized := Normalize(ext)
	return &normalized
}

// AutocompleteIngredient returns ingredient name completions for a
// partial query, memoized for five minutes. Upstream failures degrade to
// an empty result.
func (c *Client) AutocompleteIngredient(ctx context.Context, query string) []string {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return []string{}
	}

	names, err := c.autocompletes.Do(ctx, query, func(ctx context.Context) ([]string, error) {
		params := map[string]string{"query": query, "number": "10"}
		var resp ingredientSearchResponse
		if err := c.http.GetJSON(ctx, c.endpoint("/food/ingredients/autocomplete", params), &resp); err != nil {
			return nil, fmt.Errorf("autocompleting ingredient: %w", err)
		}

		names := make([]string, 0, len(resp.Results))
		for _, entry := range resp.Results {
			names = append(names, entry.Name)
		}
		return names, nil
	})
	if err != nil {
		c.log.ErrorContext(ctx, "provider autocomplete failed", slog.Any("error", err))
		return []string{}
	}
	return names
}

// IngredientImage returns the image URL of the best ingredient match for
// name, or "" when there is none. Results are memoized for a day.
func (c *Client) IngredientImage(ctx context.Context, name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}

	image, err := c.images.Do(ctx, name, func(ctx context.Context) (string, error) {
		params := map[string]string{"query": name, "number": "1"}
		var resp ingredientSearchResponse
		if err := c.http.GetJSON(ctx, c.endpoint("/food/ingredients/autocomplete", params), &resp); err != nil {
			return "", fmt.Errorf("looking up ingredient image: %w", err)
		}
		if len(resp.Results) == 0 || resp.Results[0].Image == "" {
			return "", nil
		}
		return ingredientImageBase + "/" + resp.Results[0].Image, nil
	})
	if err != nil {
		c.log.ErrorContext(ctx, "provider image lookup failed", slog.Any("error", err))
		return ""
	}
	return image
}

// Package recipes contains handlers for the recipes endpoints.
package recipes

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	apiError "github.com/devitsbeka/foodvault/internal/api/error"
	"github.com/devitsbeka/foodvault/internal/api/requestid"
	"github.com/devitsbeka/foodvault/internal/database"
	"github.com/devitsbeka/foodvault/internal/env"
	"github.com/devitsbeka/foodvault/internal/provider"
	"github.com/devitsbeka/foodvault/internal/querycache"
	"github.com/devitsbeka/foodvault/internal/recipe"
)

const searchEndpoint = "/api/recipes"

func writeJSON(w http.ResponseWriter, v any) error {
	resp, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Add("Content-Type", "application/json")
	_, err = w.Write(resp)
	return err
}

// SearchRecipes searches the local store and, unless source=local, the
// external provider. Local results are cached per request key; the
// provider memoizes its own window. When the database is unreachable the
// local half degrades to empty rather than failing the whole search.
func SearchRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	request := parseSearchRequest(r)

	results := []recipe.Recipe{}
	if request.Source != sourceExternal {
		key := querycache.Key{
			Endpoint: searchEndpoint,
			Params: map[string]string{
				"q":        request.Query,
				"dietType": request.DietType,
				"mealType": request.MealType,
				"cuisine":  request.Cuisine,
			},
		}
		local, err := querycache.Fetch(ctx, env.Cache, key, querycache.Options{},
			func(ctx context.Context) ([]recipe.Recipe, error) {
				return env.Database.SearchRecipes(ctx, database.SearchRecipesParams{
					Query:    request.Query,
					DietType: request.DietType,
					MealType: request.MealType,
					Cuisine:  request.Cuisine,
				})
			})
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to search local recipes", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		results = append(results, local...)
	}

	if request.Source != sourceLocal {
		if env.Provider == nil {
			if request.Source == sourceExternal {
				env.Logger.ErrorContext(ctx, "external search requested but provider not configured")
				_ = apiError.EncodeInternalError(w, requestID)
				return
			}
			env.Logger.WarnContext(ctx, "provider not configured, skipping external search")
		} else {
			results = append(results, env.Provider.Search(ctx, provider.SearchParams{
				Query:    request.Query,
				DietType: request.DietType,
				MealType: request.MealType,
				Cuisine:  request.Cuisine,
			})...)
		}
	}

	if err := writeJSON(w, SearchRecipesResponse{Results: results}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// GetRecipe returns one recipe by id. Prefixed ids go to the external
// provider, numeric ids to the local store; both absence and provider
// failure surface as not found.
func GetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id := chi.URLParam(r, "recipeID")

	if strings.HasPrefix(id, provider.SourcePrefix) {
		if env.Provider == nil {
			env.Logger.ErrorContext(ctx, "external recipe requested but provider not configured")
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		found := env.Provider.GetRecipe(ctx, id)
		if found == nil {
			_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
			return
		}
		if err := writeJSON(w, found); err != nil {
			env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		}
		return
	}

	numeric, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	key := querycache.Key{
		Endpoint: searchEndpoint + "/" + id,
	}
	found, err := querycache.Fetch(ctx, env.Cache, key,
		querycache.Options{OnNetworkError: querycache.PolicyPropagate},
		func(ctx context.Context) (*recipe.Recipe, error) {
			return env.Database.GetRecipe(ctx, numeric)
		})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if found == nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	if err := writeJSON(w, found); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// AutocompleteIngredient suggests ingredient names for a partial query.
func AutocompleteIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	if env.Provider == nil {
		env.Logger.ErrorContext(ctx, "autocomplete requested but provider not configured")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	suggestions := env.Provider.AutocompleteIngredient(ctx, r.URL.Query().Get("q"))
	if err := writeJSON(w, AutocompleteResponse{Suggestions: suggestions}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// IngredientImage returns the image URL of the best match for an
// ingredient name, or an empty URL when there is none.
func IngredientImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	if env.Provider == nil {
		env.Logger.ErrorContext(ctx, "ingredient image requested but provider not configured")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	imageURL := env.Provider.IngredientImage(ctx, r.URL.Query().Get("name"))
	if err := writeJSON(w, IngredientImageResponse{ImageURL: imageURL}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

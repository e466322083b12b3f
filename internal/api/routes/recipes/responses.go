package recipes

import "github.com/devitsbeka/foodvault/internal/recipe"

type SearchRecipesResponse struct {
	Results []recipe.Recipe `json:"results"`
}

type AutocompleteResponse struct {
	Suggestions []string `json:"suggestions"`
}

type IngredientImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

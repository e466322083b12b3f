package provider

// ExternalRecipe is the raw recipe payload returned by the third-party
// provider. Every field may be absent; normalization defaults each one
// deterministically.
type ExternalRecipe struct {
	ID                   int64                `json:"id"`
	Title                string               `json:"title"`
	Image                string               `json:"image"`
	ReadyInMinutes       int                  `json:"readyInMinutes"`
	PreparationMinutes   int                  `json:"preparationMinutes"`
	CookingMinutes       int                  `json:"cookingMinutes"`
	Servings             int                  `json:"servings"`
	Summary              string               `json:"summary"`
	Cuisines             []string             `json:"cuisines"`
	DishTypes            []string             `json:"dishTypes"`
	Diets                []string             `json:"diets"`
	Instructions         string               `json:"instructions"`
	AnalyzedInstructions []instructionGroup   `json:"analyzedInstructions"`
	ExtendedIngredients  []externalIngredient `json:"extendedIngredients"`
	Nutrition            *externalNutrition   `json:"nutrition,omitempty"`
}

type instructionGroup struct {
	Name  string            `json:"name"`
	Steps []instructionStep `json:"steps"`
}

type instructionStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

type externalIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Image  string  `json:"image"`
}

type externalNutrition struct {
	Nutrients []externalNutrient `json:"nutrients"`
}

type externalNutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type searchResponse struct {
	Results []ExternalRecipe `json:"results"`
}

type autocompleteEntry struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type ingredientSearchResponse struct {
	Results []autocompleteEntry `json:"results"`
}

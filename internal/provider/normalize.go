package provider

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/devitsbeka/foodvault/internal/recipe"

	"github.com/microcosm-cc/bluemonday"
)

// SourcePrefix disambiguates provider recipe ids from local ones.
const SourcePrefix = "ext-"

const (
	descriptionLimit    = 200
	maxTags             = 5
	ingredientImageBase = "https://img.spoonacular.com/ingredients_100x100"
)

// dietTypes maps the provider's diet labels onto the internal vocabulary.
// Only the first listed diet is retained: first-wins, not most-restrictive.
var dietTypes = map[string]recipe.DietType{
	"vegetarian":  recipe.DietVegetarian,
	"vegan":       recipe.DietVegan,
	"ketogenic":   recipe.DietKeto,
	"paleo":       recipe.DietPaleo,
	"gluten free": recipe.DietGlutenFree,
}

// cuisineMatches are tested in order by substring containment against the
// first listed cuisine; the first match wins.
var cuisineMatches = []struct {
	substr  string
	cuisine string
}{
	{"italian", "italian"},
	{"mexican", "mexican"},
	{"chinese", "chinese"},
	{"indian", "indian"},
	{"japanese", "japanese"},
	{"thai", "thai"},
	{"french", "french"},
	{"mediterranean", "mediterranean"},
	{"greek", "mediterranean"},
	{"american", "american"},
}

// mealTypeMatches are tested in priority order against the concatenated
// dish-type strings; the first tier with any hit wins.
var mealTypeMatches = []struct {
	substrs []string
	meal    recipe.MealType
}{
	{[]string{"breakfast"}, recipe.MealBreakfast},
	{[]string{"main course", "dinner"}, recipe.MealDinner},
	{[]string{"lunch", "salad", "sandwich"}, recipe.MealLunch},
	{[]string{"snack", "appetizer"}, recipe.MealSnack},
}

var htmlStripper = bluemonday.StrictPolicy()

func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlStripper.Sanitize(s)))
}

func classifyDiet(diets []string) recipe.DietType {
	if len(diets) == 0 {
		return ""
	}
	return dietTypes[strings.ToLower(diets[0])]
}

func classifyCuisine(cuisines []string) string {
	if len(cuisines) == 0 {
		return ""
	}
	first := strings.ToLower(cuisines[0])
	for _, m := range cuisineMatches {
		if strings.Contains(first, m.substr) {
			return m.cuisine
		}
	}
	return ""
}

func classifyMealType(dishTypes []string) recipe.MealType {
	joined := strings.ToLower(strings.Join(dishTypes, " "))
	for _, tier := range mealTypeMatches {
		for _, s := range tier.substrs {
			if strings.Contains(joined, s) {
				return tier.meal
			}
		}
	}
	return ""
}

func extractCalories(n *externalNutrition) int {
	if n == nil {
		return 0
	}
	for _, nutrient := range n.Nutrients {
		if nutrient.Name == "Calories" {
			return int(math.Round(nutrient.Amount))
		}
	}
	return 0
}

func extractInstructions(ext ExternalRecipe) []string {
	if len(ext.AnalyzedInstructions) > 0 && len(ext.AnalyzedInstructions[0].Steps) > 0 {
		steps := make([]string, 0, len(ext.AnalyzedInstructions[0].Steps))
		for _, step := range ext.AnalyzedInstructions[0].Steps {
			steps = append(steps, step.Step)
		}
		return steps
	}

	steps := []string{}
	for line := range strings.SplitSeq(strings.ReplaceAll(ext.Instructions, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

func normalizeIngredients(ingredients []externalIngredient) []recipe.Ingredient {
	out := make([]recipe.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		amount := "1"
		if ing.Amount != 0 {
			amount = strconv.FormatFloat(ing.Amount, 'f', -1, 64)
		}
		var imageURL string
		if ing.Image != "" {
			imageURL = ingredientImageBase + "/" + ing.Image
		}
		out = append(out, recipe.Ingredient{
			Name:     ing.Name,
			Amount:   amount,
			Unit:     ing.Unit,
			ImageURL: imageURL,
		})
	}
	return out
}

func assembleTags(ext ExternalRecipe) []string {
	tags := make([]string, 0, maxTags)
	for _, group := range [][]string{ext.Cuisines, ext.DishTypes, ext.Diets} {
		for _, t := range group {
			if len(tags) == maxTags {
				return tags
			}
			tags = append(tags, t)
		}
	}
	return tags
}

func description(ext ExternalRecipe, servings int) string {
	if ext.Summary != "" {
		stripped := stripHTML(ext.Summary)
		if runes := []rune(stripped); len(runes) > descriptionLimit {
			stripped = string(runes[:descriptionLimit])
		}
		return stripped
	}
	return fmt.Sprintf("%s - Serves %d", ext.Title, servings)
}

// Normalize converts one provider payload into the canonical recipe shape.
// It never fails: every absent field degrades to its documented default,
// and the same input always yields the same output.
func Normalize(ext ExternalRecipe) recipe.Recipe {
	servings := ext.Servings
	if servings <= 0 {
		servings = recipe.DefaultServings
	}

	return recipe.Recipe{
		ID:           fmt.Sprintf("%s%d", SourcePrefix, ext.ID),
		Name:         ext.Title,
		Description:  description(ext, servings),
		ImageURL:     ext.Image,
		PrepMinutes:  ext.PreparationMinutes,
		CookMinutes:  ext.CookingMinutes,
		Servings:     servings,
		Calories:     extractCalories(ext.Nutrition),
		DietType:     classifyDiet(ext.Diets),
		Cuisine:      classifyCuisine(ext.Cuisines),
		MealType:     classifyMealType(ext.DishTypes),
		Ingredients:  normalizeIngredients(ext.ExtendedIngredients),
		Instructions: extractInstructions(ext),
		Tags:         assembleTags(ext),
	}
}

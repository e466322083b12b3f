package provider

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/devitsbeka/foodvault/internal/recipe"
)

func TestNormalizeDefaults(t *testing.T) {
	got := Normalize(ExternalRecipe{ID: 7, Title: "Toast"})

	if got.ID != "ext-7" {
		t.Errorf("expected ID %q, got %q", "ext-7", got.ID)
	}
	if got.Servings != 4 {
		t.Errorf("expected default servings 4, got %d", got.Servings)
	}
	if got.Description != "Toast - Serves 4" {
		t.Errorf("expected synthesized description, got %q", got.Description)
	}
	if got.Calories != 0 {
		t.Errorf("expected no calories, got %d", got.Calories)
	}
	if got.DietType != "" || got.Cuisine != "" || got.MealType != "" {
		t.Errorf("expected empty classifications, got %q/%q/%q", got.DietType, got.Cuisine, got.MealType)
	}
	if len(got.Ingredients) != 0 {
		t.Errorf("expected no ingredients, got %d", len(got.Ingredients))
	}
	if len(got.Instructions) != 0 {
		t.Errorf("expected no instructions, got %d", len(got.Instructions))
	}
	if len(got.Tags) != 0 {
		t.Errorf("expected no tags, got %d", len(got.Tags))
	}
	if got.Rating != 0 || got.RatingCount != 0 {
		t.Errorf("expected zero rating fields, got %f/%d", got.Rating, got.RatingCount)
	}
}

func TestNormalizeDietFirstWins(t *testing.T) {
	tests := []struct {
		name  string
		diets []string
		want  recipe.DietType
	}{
		{"first wins over later", []string{"vegetarian", "vegan"}, recipe.DietVegetarian},
		{"vegan first", []string{"vegan", "vegetarian"}, recipe.DietVegan},
		{"ketogenic maps to keto", []string{"ketogenic"}, recipe.DietKeto},
		{"gluten free maps to gluten-free", []string{"gluten free"}, recipe.DietGlutenFree},
		{"paleo", []string{"paleo"}, recipe.DietPaleo},
		{"unknown first yields none", []string{"pescetarian", "vegan"}, ""},
		{"empty list", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(ExternalRecipe{ID: 1, Diets: tt.diets})
			if got.DietType != tt.want {
				t.Errorf("expected diet %q, got %q", tt.want, got.DietType)
			}
		})
	}
}

func TestNormalizeMealTypePriority(t *testing.T) {
	tests := []struct {
		name      string
		dishTypes []string
		want      recipe.MealType
	}{
		{"breakfast beats everything", []string{"snack", "main course", "breakfast"}, recipe.MealBreakfast},
		{"main course beats lunch", []string{"lunch", "main course"}, recipe.MealDinner},
		{"dinner marker", []string{"dinner"}, recipe.MealDinner},
		{"lunch beats snack", []string{"appetizer", "salad"}, recipe.MealLunch},
		{"sandwich is lunch", []string{"sandwich", "dessert"}, recipe.MealLunch},
		{"lunch with dessert", []string{"lunch", "dessert"}, recipe.MealLunch},
		{"snack tier", []string{"appetizer"}, recipe.MealSnack},
		{"no match", []string{"dessert", "beverage"}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(ExternalRecipe{ID: 1, DishTypes: tt.dishTypes})
			if got.MealType != tt.want {
				t.Errorf("expected meal type %q, got %q", tt.want, got.MealType)
			}
		})
	}
}

func TestNormalizeCuisine(t *testing.T) {
	tests := []struct {
		name     string
		cuisines []string
		want     string
	}{
		{"direct match", []string{"Italian"}, "italian"},
		{"greek classifies as mediterranean", []string{"Greek"}, "mediterranean"},
		{"substring containment", []string{"Southern American"}, "american"},
		{"only first entry considered", []string{"Nordic", "Italian"}, ""},
		{"no match", []string{"Nordic"}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(ExternalRecipe{ID: 1, Cuisines: tt.cuisines})
			if got.Cuisine != tt.want {
				t.Errorf("expected cuisine %q, got %q", tt.want, got.Cuisine)
			}
		})
	}
}

func TestNormalizeDescriptionStripsHTML(t *testing.T) {
	summary := "<b>Rich</b> and <i>creamy</i> pasta. " + strings.Repeat("Very tasty indeed. ", 20)
	got := Normalize(ExternalRecipe{ID: 1, Title: "Pasta", Summary: summary})

	if strings.ContainsAny(got.Description, "<>") {
		t.Errorf("expected HTML to be stripped, got %q", got.Description)
	}
	if n := utf8.RuneCountInString(got.Description); n > 200 {
		t.Errorf("expected description <= 200 characters, got %d", n)
	}
	if !strings.HasPrefix(got.Description, "Rich and creamy pasta.") {
		t.Errorf("unexpected description prefix: %q", got.Description)
	}
}

func TestNormalizeCalories(t *testing.T) {
	got := Normalize(ExternalRecipe{
		ID: 1,
		Nutrition: &externalNutrition{
			Nutrients: []externalNutrient{
				{Name: "Fat", Amount: 12.2, Unit: "g"},
				{Name: "Calories", Amount: 123.6, Unit: "kcal"},
			},
		},
	})
	if got.Calories != 124 {
		t.Errorf("expected calories rounded to 124, got %d", got.Calories)
	}
}

func TestNormalizeIngredients(t *testing.T) {
	got := Normalize(ExternalRecipe{
		ID: 1,
		ExtendedIngredients: []externalIngredient{
			{Name: "flour", Amount: 2.5, Unit: "cups", Image: "flour.png"},
			{Name: "egg"},
		},
	})

	want := []recipe.Ingredient{
		{Name: "flour", Amount: "2.5", Unit: "cups", ImageURL: ingredientImageBase + "/flour.png"},
		{Name: "egg", Amount: "1", Unit: ""},
	}
	if !reflect.DeepEqual(got.Ingredients, want) {
		t.Errorf("expected ingredients %+v, got %+v", want, got.Ingredients)
	}
}

func TestNormalizeInstructions(t *testing.T) {
	t.Run("prefers structured steps", func(t *testing.T) {
		got := Normalize(ExternalRecipe{
			ID:           1,
			Instructions: "ignored",
			AnalyzedInstructions: []instructionGroup{
				{Steps: []instructionStep{{Number: 1, Step: "Boil water."}, {Number: 2, Step: "Add pasta."}}},
			},
		})
		want := []string{"Boil water.", "Add pasta."}
		if !reflect.DeepEqual(got.Instructions, want) {
			t.Errorf("expected instructions %v, got %v", want, got.Instructions)
		}
	})

	t.Run("falls back to splitting the blob", func(t *testing.T) {
		got := Normalize(ExternalRecipe{
			ID:           1,
			Instructions: "Boil water.\n\nAdd pasta.\r\nServe.",
		})
		want := []string{"Boil water.", "Add pasta.", "Serve."}
		if !reflect.DeepEqual(got.Instructions, want) {
			t.Errorf("expected instructions %v, got %v", want, got.Instructions)
		}
	})
}

func TestNormalizeTagsCapped(t *testing.T) {
	got := Normalize(ExternalRecipe{
		ID:        1,
		Cuisines:  []string{"Italian"},
		DishTypes: []string{"dinner", "main course"},
		Diets:     []string{"vegan", "ketogenic", "paleo"},
	})

	want := []string{"Italian", "dinner", "main course", "vegan", "ketogenic"}
	if !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("expected tags %v, got %v", want, got.Tags)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	ext := ExternalRecipe{
		ID:        42,
		Title:     "Minestrone",
		Summary:   "<p>A hearty soup.</p>",
		Servings:  6,
		Cuisines:  []string{"Italian"},
		DishTypes: []string{"main course"},
		Diets:     []string{"vegetarian"},
		ExtendedIngredients: []externalIngredient{
			{Name: "beans", Amount: 1, Unit: "can", Image: "beans.jpg"},
		},
		AnalyzedInstructions: []instructionGroup{
			{Steps: []instructionStep{{Number: 1, Step: "Simmer."}}},
		},
	}

	first := Normalize(ext)
	second := Normalize(ext)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output, got %+v and %+v", first, second)
	}
}

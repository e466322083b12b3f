// Package recipe defines the canonical recipe model shared by the local
// store and the external provider normalizer.
package recipe

// DefaultServings is assumed whenever a source does not state a serving
// count.
const DefaultServings = 4

type DietType string

const (
	DietVegetarian DietType = "vegetarian"
	DietVegan      DietType = "vegan"
	DietKeto       DietType = "keto"
	DietPaleo      DietType = "paleo"
	DietGlutenFree DietType = "gluten-free"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Cuisines is the closed cuisine vocabulary, in classification priority
// order. Both "mediterranean" and "greek" sources classify as mediterranean.
var Cuisines = []string{
	"italian",
	"mexican",
	"chinese",
	"indian",
	"japanese",
	"thai",
	"french",
	"mediterranean",
	"american",
}

// ParseDietType returns the diet type for an internal vocabulary value.
// "all", empty, and unknown values yield "".
func ParseDietType(s string) DietType {
	switch DietType(s) {
	case DietVegetarian, DietVegan, DietKeto, DietPaleo, DietGlutenFree:
		return DietType(s)
	}
	return ""
}

// ParseMealType returns the meal type for an internal vocabulary value.
// "all", empty, and unknown values yield "".
func ParseMealType(s string) MealType {
	switch MealType(s) {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return MealType(s)
	}
	return ""
}

// ParseCuisine returns the cuisine for an internal vocabulary value.
// "all", empty, and unknown values yield "".
func ParseCuisine(s string) string {
	for _, c := range Cuisines {
		if s == c {
			return c
		}
	}
	return ""
}

type Ingredient struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Unit     string `json:"unit"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Recipe is the application's internal recipe shape. IDs are strings:
// local recipes carry their numeric database id, external recipes carry
// a source prefix so the two namespaces cannot collide.
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	PrepMinutes  int          `json:"prepMinutes,omitempty"`
	CookMinutes  int          `json:"cookMinutes,omitempty"`
	Servings     int          `json:"servings"`
	Calories     int          `json:"calories,omitempty"`
	DietType     DietType     `json:"dietType,omitempty"`
	Cuisine      string       `json:"cuisine,omitempty"`
	MealType     MealType     `json:"mealType,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Tags         []string     `json:"tags"`
	Rating       float64      `json:"rating"`
	RatingCount  int          `json:"ratingCount"`
}

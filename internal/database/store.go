package database

import (
	"context"

	"github.com/devitsbeka/foodvault/internal/recipe"
)

// Store is the query surface handlers depend on. *Database implements it
// against Postgres; tests substitute fakes.
type Store interface {
	SearchRecipes(ctx context.Context, p SearchRecipesParams) ([]recipe.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*recipe.Recipe, error)

	ListMealPlans(ctx context.Context, p ListMealPlansParams) ([]MealPlan, error)
	CreateMealPlan(ctx context.Context, p CreateMealPlanParams) (int64, error)
	DeleteMealPlan(ctx context.Context, p DeleteMealPlanParams) (bool, error)

	ListShoppingItems(ctx context.Context, userID int64) ([]ShoppingItem, error)
	AddShoppingItem(ctx context.Context, p AddShoppingItemParams) (int64, error)
	SetShoppingItemDone(ctx context.Context, p SetShoppingItemDoneParams) (bool, error)
	DeleteShoppingItem(ctx context.Context, p DeleteShoppingItemParams) (bool, error)
}

var _ Store = (*Database)(nil)

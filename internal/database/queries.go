package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/devitsbeka/foodvault/internal/recipe"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const defaultSearchLimit = 20

const recipeColumns = `id, name, description, image_url, prep_minutes, cook_minutes,
	servings, calories, diet_type, cuisine, meal_type, ingredients, instructions,
	tags, rating, rating_count`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row scanner) (recipe.Recipe, error) {
	var (
		r            recipe.Recipe
		id           int64
		imageURL     pgtype.Text
		dietType     pgtype.Text
		cuisine      pgtype.Text
		mealType     pgtype.Text
		ingredients  []byte
		instructions []byte
		tags         []byte
	)

	err := row.Scan(&id, &r.Name, &r.Description, &imageURL, &r.PrepMinutes,
		&r.CookMinutes, &r.Servings, &r.Calories, &dietType, &cuisine, &mealType,
		&ingredients, &instructions, &tags, &r.Rating, &r.RatingCount)
	if err != nil {
		return r, err
	}

	r.ID = strconv.FormatInt(id, 10)
	r.ImageURL = imageURL.String
	r.DietType = recipe.DietType(dietType.String)
	r.Cuisine = cuisine.String
	r.MealType = recipe.MealType(mealType.String)
	if err := json.Unmarshal(ingredients, &r.Ingredients); err != nil {
		return r, fmt.Errorf("decoding ingredients: %w", err)
	}
	if err := json.Unmarshal(instructions, &r.Instructions); err != nil {
		return r, fmt.Errorf("decoding instructions: %w", err)
	}
	if err := json.Unmarshal(tags, &r.Tags); err != nil {
		return r, fmt.Errorf("decoding tags: %w", err)
	}
	return r, nil
}

type SearchRecipesParams struct {
	Query    string
	DietType string
	MealType string
	Cuisine  string
	Limit    int32
}

// SearchRecipes filters local recipes by name substring and the closed
// diet/meal/cuisine vocabularies. Empty filters match everything.
func (d *Database) SearchRecipes(ctx context.Context, p SearchRecipesParams) ([]recipe.Recipe, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := d.db.Query(ctx, `SELECT `+recipeColumns+`
		FROM recipes
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR diet_type = $2)
		  AND ($3 = '' OR meal_type = $3)
		  AND ($4 = '' OR cuisine = $4)
		ORDER BY rating DESC, id
		LIMIT $5`,
		p.Query, p.DietType, p.MealType, p.Cuisine, limit)
	if err != nil {
		return nil, fmt.Errorf("searching recipes: %w", err)
	}
	defer rows.Close()

	recipes := []recipe.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe returns the local recipe with the given id, or nil when it
// does not exist.
func (d *Database) GetRecipe(ctx context.Context, id int64) (*recipe.Recipe, error) {
	row := d.db.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id)
	r, err := scanRecipe(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	return &r, nil
}

type MealPlan struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"-"`
	RecipeID string          `json:"recipeId"`
	Date     time.Time       `json:"date"`
	MealType recipe.MealType `json:"mealType"`
	Servings int             `json:"servings"`
}

type ListMealPlansParams struct {
	UserID int64
	From   time.Time
	To     time.Time
}

func (d *Database) ListMealPlans(ctx context.Context, p ListMealPlansParams) ([]MealPlan, error) {
	rows, err := d.db.Query(ctx, `SELECT id, user_id, recipe_id, plan_date, meal_type, servings
		FROM meal_plans
		WHERE user_id = $1 AND plan_date >= $2 AND plan_date <= $3
		ORDER BY plan_date, meal_type, id`,
		p.UserID, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("listing meal plans: %w", err)
	}
	defer rows.Close()

	plans := []MealPlan{}
	for rows.Next() {
		var (
			plan MealPlan
			date pgtype.Date
		)
		if err := rows.Scan(&plan.ID, &plan.UserID, &plan.RecipeID, &date,
			&plan.MealType, &plan.Servings); err != nil {
			return nil, fmt.Errorf("scanning meal plan: %w", err)
		}
		plan.Date = date.Time
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading meal plans: %w", err)
	}
	return plans, nil
}

type CreateMealPlanParams struct {
	UserID   int64
	RecipeID string
	Date     time.Time
	MealType recipe.MealType
	Servings int
}

func (d *Database) CreateMealPlan(ctx context.Context, p CreateMealPlanParams) (int64, error) {
	var id int64
	err := d.db.QueryRow(ctx, `INSERT INTO meal_plans (user_id, recipe_id, plan_date, meal_type, servings)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		p.UserID, p.RecipeID, p.Date, p.MealType, p.Servings).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating meal plan: %w", err)
	}
	return id, nil
}

type DeleteMealPlanParams struct {
	ID     int64
	UserID int64
}

// DeleteMealPlan removes a user's meal plan entry, reporting whether a
// row was deleted.
func (d *Database) DeleteMealPlan(ctx context.Context, p DeleteMealPlanParams) (bool, error) {
	tag, err := d.db.Exec(ctx, `DELETE FROM meal_plans WHERE id = $1 AND user_id = $2`, p.ID, p.UserID)
	if err != nil {
		return false, fmt.Errorf("deleting meal plan: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

type ShoppingItem struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Done   bool   `json:"done"`
}

func (d *Database) ListShoppingItems(ctx context.Context, userID int64) ([]ShoppingItem, error) {
	rows, err := d.db.Query(ctx, `SELECT id, user_id, name, amount, unit, done
		FROM shopping_items
		WHERE user_id = $1
		ORDER BY done, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing shopping items: %w", err)
	}
	defer rows.Close()

	items := []ShoppingItem{}
	for rows.Next() {
		var item ShoppingItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Amount,
			&item.Unit, &item.Done); err != nil {
			return nil, fmt.Errorf("scanning shopping item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading shopping items: %w", err)
	}
	return items, nil
}

type AddShoppingItemParams struct {
	UserID int64
	Name   string
	Amount string
	Unit   string
}

func (d *Database) AddShoppingItem(ctx context.Context, p AddShoppingItemParams) (int64, error) {
	if p.Amount == "" {
		p.Amount = "1"
	}
	var id int64
	err := d.db.QueryRow(ctx, `INSERT INTO shopping_items (user_id, name, amount, unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		p.UserID, p.Name, p.Amount, p.Unit).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("adding shopping item: %w", err)
	}
	return id, nil
}

type SetShoppingItemDoneParams struct {
	ID     int64
	UserID int64
	Done   bool
}

func (d *Database) SetShoppingItemDone(ctx context.Context, p SetShoppingItemDoneParams) (bool, error) {
	tag, err := d.db.Exec(ctx, `UPDATE shopping_items SET done = $1 WHERE id = $2 AND user_id = $3`,
		p.Done, p.ID, p.UserID)
	if err != nil {
		return false, fmt.Errorf("updating shopping item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

type DeleteShoppingItemParams struct {
	ID     int64
	UserID int64
}

func (d *Database) DeleteShoppingItem(ctx context.Context, p DeleteShoppingItemParams) (bool, error) {
	tag, err := d.db.Exec(ctx, `DELETE FROM shopping_items WHERE id = $1 AND user_id = $2`, p.ID, p.UserID)
	if err != nil {
		return false, fmt.Errorf("deleting shopping item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

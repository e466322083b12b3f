// Package mealplans contains handlers for the meal-plan calendar.
package mealplans

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	apiError "github.com/devitsbeka/foodvault/internal/api/error"
	"github.com/devitsbeka/foodvault/internal/api/requestid"
	"github.com/devitsbeka/foodvault/internal/api/token"
	"github.com/devitsbeka/foodvault/internal/database"
	"github.com/devitsbeka/foodvault/internal/env"
	"github.com/devitsbeka/foodvault/internal/querycache"
	"github.com/devitsbeka/foodvault/internal/recipe"

	"github.com/go-playground/validator/v10"
)

const (
	endpoint   = "/api/mealplans"
	dateLayout = "2006-01-02"
	// A week of plans by default when the range is unspecified.
	defaultRangeDays = 7
)

type ListMealPlansResponse struct {
	MealPlans []database.MealPlan `json:"mealPlans"`
}

type CreateMealPlanRequest struct {
	RecipeID string `json:"recipeId" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	MealType string `json:"mealType" validate:"required,oneof=breakfast lunch dinner snack"`
	Servings int    `json:"servings" validate:"omitempty,gt=0"`
}

type CreateMealPlanResponse struct {
	MealPlanID int64 `json:"mealPlanId"`
}

func writeJSON(w http.ResponseWriter, v any) error {
	resp, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Add("Content-Type", "application/json")
	_, err = w.Write(resp)
	return err
}

func listKey(userID int64, from, to time.Time) querycache.Key {
	return querycache.Key{
		Endpoint: endpoint,
		Params: map[string]string{
			"user": strconv.FormatInt(userID, 10),
			"from": from.Format(dateLayout),
			"to":   to.Format(dateLayout),
		},
	}
}

// ListMealPlans returns the authenticated user's plans in a date range,
// defaulting to the week starting today.
func ListMealPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	from := time.Now().UTC().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, defaultRangeDays-1)
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = time.Parse(dateLayout, v); err != nil {
			_ = apiError.EncodeError(w, apiError.BadRequest, "invalid from date", requestID)
			return
		}
		to = from.AddDate(0, 0, defaultRangeDays-1)
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = time.Parse(dateLayout, v); err != nil {
			_ = apiError.EncodeError(w, apiError.BadRequest, "invalid to date", requestID)
			return
		}
	}

	plans, err := querycache.Fetch(ctx, env.Cache, listKey(userID, from, to), querycache.Options{},
		func(ctx context.Context) ([]database.MealPlan, error) {
			return env.Database.ListMealPlans(ctx, database.ListMealPlansParams{
				UserID: userID,
				From:   from,
				To:     to,
			})
		})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list meal plans", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if plans == nil {
		plans = []database.MealPlan{}
	}

	if err := writeJSON(w, ListMealPlansResponse{MealPlans: plans}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// CreateMealPlan adds a recipe to the authenticated user's calendar and
// invalidates the cached plan lists.
func CreateMealPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	var request CreateMealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	date, _ := time.Parse(dateLayout, request.Date)
	servings := request.Servings
	if servings == 0 {
		servings = recipe.DefaultServings
	}

	var mealPlanID int64
	err = env.Cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		mealPlanID, err = env.Database.CreateMealPlan(ctx, database.CreateMealPlanParams{
			UserID:   userID,
			RecipeID: request.RecipeID,
			Date:     date,
			MealType: recipe.MealType(request.MealType),
			Servings: servings,
		})
		return err
	}, querycache.Endpoint(endpoint))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create meal plan", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := writeJSON(w, CreateMealPlanResponse{MealPlanID: mealPlanID}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// DeleteMealPlan removes one of the authenticated user's plan entries
// and invalidates the cached plan lists.
func DeleteMealPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	mealPlanID, err := strconv.ParseInt(chi.URLParam(r, "mealPlanID"), 10, 64)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid meal plan id", requestID)
		return
	}

	var deleted bool
	err = env.Cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = env.Database.DeleteMealPlan(ctx, database.DeleteMealPlanParams{
			ID:     mealPlanID,
			UserID: userID,
		})
		return err
	}, querycache.Endpoint(endpoint))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete meal plan", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !deleted {
		_ = apiError.EncodeError(w, apiError.MealPlanNotFound, "meal plan not found", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

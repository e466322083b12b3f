// Package shopping contains handlers for the shopping list.
package shopping

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	apiError "github.com/devitsbeka/foodvault/internal/api/error"
	"github.com/devitsbeka/foodvault/internal/api/requestid"
	"github.com/devitsbeka/foodvault/internal/api/token"
	"github.com/devitsbeka/foodvault/internal/database"
	"github.com/devitsbeka/foodvault/internal/env"
	"github.com/devitsbeka/foodvault/internal/querycache"

	"github.com/go-playground/validator/v10"
)

const endpoint = "/api/shopping"

type ListShoppingItemsResponse struct {
	Items []database.ShoppingItem `json:"items"`
}

type AddShoppingItemRequest struct {
	Name   string `json:"name" validate:"required"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

type AddShoppingItemResponse struct {
	ItemID int64 `json:"itemId"`
}

type UpdateShoppingItemRequest struct {
	Done bool `json:"done"`
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

func listKey(userID int64) querycache.Key {
	return querycache.Key{
		Endpoint: endpoint,
		Params:   map[string]string{"user": strconv.FormatInt(userID, 10)},
	}
}

// ListShoppingItems returns the authenticated user's shopping list.
func ListShoppingItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	items, err := querycache.Fetch(ctx, env.Cache, listKey(userID), querycache.Options{},
		func(ctx context.Context) ([]database.ShoppingItem, error) {
			return env.Database.ListShoppingItems(ctx, userID)
		})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list shopping items", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if items == nil {
		items = []database.ShoppingItem{}
	}

	if err := writeJSON(w, ListShoppingItemsResponse{Items: items}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// AddShoppingItem appends an item to the authenticated user's list and
// invalidates the cached list.
func AddShoppingItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	var request AddShoppingItemRequest
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

	var itemID int64
	err = env.Cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		itemID, err = env.Database.AddShoppingItem(ctx, database.AddShoppingItemParams{
			UserID: userID,
			Name:   request.Name,
			Amount: request.Amount,
			Unit:   request.Unit,
		})
		return err
	}, listKey(userID))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to add shopping item", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := writeJSON(w, AddShoppingItemResponse{ItemID: itemID}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// UpdateShoppingItem sets an item's done flag and invalidates the cached
// list.
func UpdateShoppingItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid item id", requestID)
		return
	}
	var request UpdateShoppingItemRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}

	var updated bool
	err = env.Cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		updated, err = env.Database.SetShoppingItemDone(ctx, database.SetShoppingItemDoneParams{
			ID:     itemID,
			UserID: userID,
			Done:   request.Done,
		})
		return err
	}, listKey(userID))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update shopping item", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !updated {
		_ = apiError.EncodeError(w, apiError.ShoppingItemNotFound, "shopping item not found", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteShoppingItem removes an item from the authenticated user's list
// and invalidates the cached list.
func DeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid item id", requestID)
		return
	}

	var deleted bool
	err = env.Cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = env.Database.DeleteShoppingItem(ctx, database.DeleteShoppingItemParams{
			ID:     itemID,
			UserID: userID,
		})
		return err
	}, listKey(userID))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete shopping item", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !deleted {
		_ = apiError.EncodeError(w, apiError.ShoppingItemNotFound, "shopping item not found", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/devitsbeka/foodvault/internal/api/token"
	"github.com/devitsbeka/foodvault/internal/database"
	"github.com/devitsbeka/foodvault/internal/env"
)

type fakeStore struct {
	database.Store

	listCalls int
	items     []database.ShoppingItem
	nextID    int64
	failWith  error
}

func (f *fakeStore) ListShoppingItems(ctx context.Context, userID int64) ([]database.ShoppingItem, error) {
	f.listCalls++
	items := []database.ShoppingItem{}
	for _, item := range f.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeStore) AddShoppingItem(ctx context.Context, p database.AddShoppingItemParams) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.nextID++
	f.items = append(f.items, database.ShoppingItem{
		ID:     f.nextID,
		UserID: p.UserID,
		Name:   p.Name,
		Amount: p.Amount,
		Unit:   p.Unit,
	})
	return f.nextID, nil
}

func (f *fakeStore) SetShoppingItemDone(ctx context.Context, p database.SetShoppingItemDoneParams) (bool, error) {
	for i, item := range f.items {
		if item.ID == p.ID && item.UserID == p.UserID {
			f.items[i].Done = p.Done
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) DeleteShoppingItem(ctx context.Context, p database.DeleteShoppingItemParams) (bool, error) {
	for i, item := range f.items {
		if item.ID == p.ID && item.UserID == p.UserID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func serve(e *env.Env, userID int64, r *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get("/api/shopping", ListShoppingItems)
	router.Post("/api/shopping", AddShoppingItem)
	router.Patch("/api/shopping/{itemID}", UpdateShoppingItem)
	router.Delete("/api/shopping/{itemID}", DeleteShoppingItem)

	ctx := env.WithCtx(r.Context(), e)
	ctx = token.UserIDWithCtx(ctx, userID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r.WithContext(ctx))
	return rec
}

func listItems(t *testing.T, e *env.Env, userID int64) []database.ShoppingItem {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/shopping", nil)
	rec := serve(e, userID, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ListShoppingItemsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.Items
}

func TestListShoppingItemsCached(t *testing.T) {
	store := &fakeStore{items: []database.ShoppingItem{{ID: 1, UserID: 42, Name: "milk"}}}
	e := env.Null()
	e.Database = store

	for range 3 {
		items := listItems(t, e, 42)
		if len(items) != 1 || items[0].Name != "milk" {
			t.Fatalf("unexpected items: %+v", items)
		}
	}
	if store.listCalls != 1 {
		t.Errorf("expected repeated lists to hit the store once, got %d", store.listCalls)
	}
}

func TestListShoppingItemsScopedToUser(t *testing.T) {
	store := &fakeStore{items: []database.ShoppingItem{
		{ID: 1, UserID: 42, Name: "milk"},
		{ID: 2, UserID: 7, Name: "eggs"},
	}}
	e := env.Null()
	e.Database = store

	items := listItems(t, e, 42)
	if len(items) != 1 || items[0].Name != "milk" {
		t.Errorf("expected only the user's items, got %+v", items)
	}
}

func TestAddShoppingItemInvalidatesList(t *testing.T) {
	store := &fakeStore{}
	e := env.Null()
	e.Database = store

	if items := listItems(t, e, 42); len(items) != 0 {
		t.Fatalf("expected an empty list, got %+v", items)
	}

	body := strings.NewReader(`{"name":"milk","amount":"2","unit":"l"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/shopping", body)
	rec := serve(e, 42, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp AddShoppingItemResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ItemID == 0 {
		t.Error("expected an item id")
	}

	items := listItems(t, e, 42)
	if len(items) != 1 || items[0].Name != "milk" {
		t.Errorf("expected the new item to appear after invalidation, got %+v", items)
	}
	if store.listCalls != 2 {
		t.Errorf("expected the list to be refetched once after the mutation, got %d calls", store.listCalls)
	}
}

func TestAddShoppingItemValidation(t *testing.T) {
	e := env.Null()
	e.Database = &fakeStore{}

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"amount":"2"}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/shopping", strings.NewReader(tt.body))
			if rec := serve(e, 42, req); rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAddShoppingItemFailureKeepsCache(t *testing.T) {
	store := &fakeStore{
		items:    []database.ShoppingItem{{ID: 1, UserID: 42, Name: "milk"}},
		failWith: errors.New("insert failed"),
	}
	e := env.Null()
	e.Database = store

	listItems(t, e, 42)

	body := strings.NewReader(`{"name":"eggs"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/shopping", body)
	if rec := serve(e, 42, req); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	listItems(t, e, 42)
	if store.listCalls != 1 {
		t.Errorf("expected a failed mutation to leave the cache intact, got %d list calls", store.listCalls)
	}
}

func TestUpdateShoppingItem(t *testing.T) {
	t.Run("marks done and invalidates", func(t *testing.T) {
		store := &fakeStore{items: []database.ShoppingItem{{ID: 1, UserID: 42, Name: "milk"}}}
		e := env.Null()
		e.Database = store

		listItems(t, e, 42)

		req := httptest.NewRequest(http.MethodPatch, "/api/shopping/1", strings.NewReader(`{"done":true}`))
		if rec := serve(e, 42, req); rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		items := listItems(t, e, 42)
		if len(items) != 1 || !items[0].Done {
			t.Errorf("expected the item to be done, got %+v", items)
		}
	})

	t.Run("not found", func(t *testing.T) {
		e := env.Null()
		e.Database = &fakeStore{}

		req := httptest.NewRequest(http.MethodPatch, "/api/shopping/99", strings.NewReader(`{"done":true}`))
		if rec := serve(e, 42, req); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("another user's item", func(t *testing.T) {
		store := &fakeStore{items: []database.ShoppingItem{{ID: 1, UserID: 7, Name: "milk"}}}
		e := env.Null()
		e.Database = store

		req := httptest.NewRequest(http.MethodPatch, "/api/shopping/1", strings.NewReader(`{"done":true}`))
		if rec := serve(e, 42, req); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestDeleteShoppingItem(t *testing.T) {
	t.Run("deletes and invalidates", func(t *testing.T) {
		store := &fakeStore{items: []database.ShoppingItem{{ID: 1, UserID: 42, Name: "milk"}}}
		e := env.Null()
		e.Database = store

		listItems(t, e, 42)

		req := httptest.NewRequest(http.MethodDelete, "/api/shopping/1", nil)
		if rec := serve(e, 42, req); rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		if items := listItems(t, e, 42); len(items) != 0 {
			t.Errorf("expected an empty list after deletion, got %+v", items)
		}
	})

	t.Run("not found", func(t *testing.T) {
		e := env.Null()
		e.Database = &fakeStore{}

		req := httptest.NewRequest(http.MethodDelete, "/api/shopping/99", nil)
		if rec := serve(e, 42, req); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

// Package api sets up and starts the API server with routing and
// middleware.
package api

import (
	"fmt"
	"net/http"

	"github.com/devitsbeka/foodvault/internal/api/middleware"
	"github.com/devitsbeka/foodvault/internal/api/routes/mealplans"
	"github.com/devitsbeka/foodvault/internal/api/routes/ping"
	"github.com/devitsbeka/foodvault/internal/api/routes/recipes"
	"github.com/devitsbeka/foodvault/internal/api/routes/shopping"
	"github.com/devitsbeka/foodvault/internal/env"

	"github.com/go-chi/chi/v5"
)

func addRoutes(router *chi.Mux) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)

		r.Get("/recipes", recipes.SearchRecipes)
		r.Get("/recipes/{recipeID}", recipes.GetRecipe)
		r.Get("/ingredients/autocomplete", recipes.AutocompleteIngredient)
		r.Get("/ingredients/image", recipes.IngredientImage)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate)

			r.Get("/mealplans", mealplans.ListMealPlans)
			r.Post("/mealplans", mealplans.CreateMealPlan)
			r.Delete("/mealplans/{mealPlanID}", mealplans.DeleteMealPlan)

			r.Get("/shopping", shopping.ListShoppingItems)
			r.Post("/shopping", shopping.AddShoppingItem)
			r.Patch("/shopping/{itemID}", shopping.UpdateShoppingItem)
			r.Delete("/shopping/{itemID}", shopping.DeleteShoppingItem)
		})
	})
}

// Start blocks serving the API until the listener fails.
func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)

	addr := fmt.Sprintf(":%d", env.Config.Server.Port)
	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0%s", addr))
	return http.ListenAndServe(addr, router)
}

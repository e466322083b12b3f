package recipes

import (
	"net/http"
	"strings"
)

const (
	sourceAll      = "all"
	sourceLocal    = "local"
	sourceExternal = "external"
)

type searchRequest struct {
	Query    string
	DietType string
	MealType string
	Cuisine  string
	Source   string
}

func parseSearchRequest(r *http.Request) searchRequest {
	q := r.URL.Query()
	source := strings.ToLower(strings.TrimSpace(q.Get("source")))
	switch source {
	case sourceLocal, sourceExternal:
	default:
		source = sourceAll
	}
	return searchRequest{
		Query:    strings.TrimSpace(q.Get("q")),
		DietType: strings.ToLower(strings.TrimSpace(q.Get("dietType"))),
		MealType: strings.ToLower(strings.TrimSpace(q.Get("mealType"))),
		Cuisine:  strings.ToLower(strings.TrimSpace(q.Get("cuisine"))),
		Source:   source,
	}
}

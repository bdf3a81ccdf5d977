package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/handlers"
)

func init() { Register(registerLists) }

func registerLists(r chi.Router, d deps.Deps) {
	api := public(r, d)
	api.Get("/api/lists", handlers.Lists(d))
	api.Get("/api/lists/new", handlers.NewItems(d))
	api.Get("/api/lists/{owner}/{repo}", handlers.List(d))
}

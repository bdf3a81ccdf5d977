package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/handlers"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	public(r, d).Get("/api/search", handlers.Search(d))
}

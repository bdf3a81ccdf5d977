package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/mw"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	internal := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	internal.Get("/readyz", handlers.Readyz(d))
	internal.Get("/infra", handlers.Infra(d))
}

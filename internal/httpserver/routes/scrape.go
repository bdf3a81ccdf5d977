package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/mw"
)

func init() { Register(registerScrape) }

func registerScrape(r chi.Router, d deps.Deps) {
	guarded := r.With(
		mw.RequireKeyOrCIDR(d.TriggerAPIKey, d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)
	guarded.Post("/api/scrape/trigger", handlers.TriggerScrape(d))
	guarded.Get("/api/scrape/trigger", handlers.ScrapeStatus(d))
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type searchResponse struct {
	Query   string                  `json:"query"`
	Count   int                     `json:"count"`
	Results []*domain.ItemCandidate `json:"results"`
}

// Search ranks items of every list against ?q.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter q")
			return
		}

		limit, ok := intParam(r, "limit", defaultSearchLimit, maxSearchLimit)
		if !ok {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}

		results := d.Index.Search(query, limit)
		if results == nil {
			results = []*domain.ItemCandidate{}
		}

		d.Logger.Debug("search request",
			logger.String("query", query),
			logger.Int("results", len(results)))

		writeJSON(w, http.StatusOK, searchResponse{Query: query, Count: len(results), Results: results})
	}
}

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/awesomehub/internal/index"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
)

const maxNewItemDays = 365

type listsResponse struct {
	Count int             `json:"count"`
	Lists []index.Summary `json:"lists"`
}

type newItemsResponse struct {
	Days  int             `json:"days"`
	Count int             `json:"count"`
	Items []index.NewItem `json:"items"`
}

// Lists returns a summary of every indexed list.
func Lists(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries := d.Index.Summaries()
		if summaries == nil {
			summaries = []index.Summary{}
		}
		writeJSON(w, http.StatusOK, listsResponse{Count: len(summaries), Lists: summaries})
	}
}

// List returns one list with all its items. The optional category query
// parameter keeps only the items of that category (case-insensitive).
func List(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := domain.ListID(chi.URLParam(r, "owner"), chi.URLParam(r, "repo"))

		list, ok := d.Index.GetList(id)
		if !ok {
			d.Logger.Debug("list not found", logger.ListID(id))
			writeError(w, http.StatusNotFound, "list not found: "+id)
			return
		}

		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			items := make([]domain.ListItem, 0, len(list.Items))
			for _, it := range list.Items {
				if strings.EqualFold(it.Category, category) {
					items = append(items, it)
				}
			}
			filtered := *list
			filtered.Items = items
			list = &filtered
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// NewItems returns items first seen within the last ?days days across all
// lists, newest first.
func NewItems(d deps.Deps) http.HandlerFunc {
	defaultDays := int(d.NewItemWindow / (24 * time.Hour))
	if defaultDays < 1 {
		defaultDays = 7
	}

	return func(w http.ResponseWriter, r *http.Request) {
		days, ok := intParam(r, "days", defaultDays, maxNewItemDays)
		if !ok {
			writeError(w, http.StatusBadRequest, "days must be an integer between 1 and 365")
			return
		}

		items := d.Index.NewItems(time.Duration(days)*24*time.Hour, d.Now())
		if items == nil {
			items = []index.NewItem{}
		}
		writeJSON(w, http.StatusOK, newItemsResponse{Days: days, Count: len(items), Items: items})
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	ListsLoaded *int   `json:"lists_loaded,omitempty"`
	ItemsLoaded *int   `json:"items_loaded,omitempty"`
	LastReload  string `json:"last_reload,omitempty"`
	LastRun     string `json:"last_run,omitempty"`
	FailedLists *int   `json:"failed_lists,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the index, redis and the scraper.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listsCount := d.Index.Count()
		itemsCount := d.Index.ItemCount()
		lastReload := d.Index.LastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"lists": {
				OK:          listsCount > 0,
				ListsLoaded: &listsCount,
				ItemsLoaded: &itemsCount,
				LastReload:  lastReloadStr,
			},
			"redis":   checkRedis(r.Context(), d),
			"scraper": scraperStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Nothing to serve
	if lists, exists := components["lists"]; exists {
		if !lists.OK || (lists.ListsLoaded != nil && *lists.ListsLoaded == 0) {
			return "critical"
		}
	}

	// Redis down = lists are served but new versions are not persisted
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}

	if scraper, exists := components["scraper"]; exists && !scraper.OK {
		return "degraded"
	}

	return "operational"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	// Ping is nil-safe and reports a missing client as an error
	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "history-disabled",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "persistent",
		Impact: "history-enabled",
	}
}

func scraperStatus(d deps.Deps) componentStatus {
	if d.Scraper == nil {
		return componentStatus{OK: false, Error: "scraper not initialized"}
	}

	mode := "idle"
	if d.Scraper.Running() {
		mode = "running"
	}

	last := d.Scraper.LastRun()
	if last.RunID == "" {
		return componentStatus{OK: true, Mode: mode, LastRun: "never"}
	}

	failed := last.Failed
	return componentStatus{
		// a run where every list failed usually means GitHub is unreachable
		OK:          last.Scraped+last.Unchanged > 0 || failed == 0,
		Mode:        mode,
		LastRun:     last.FinishedAt.Format("2006-01-02 15:04:05"),
		FailedLists: &failed,
	}
}

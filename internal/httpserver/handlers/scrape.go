package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
	"github.com/MrSnakeDoc/awesomehub/internal/scheduler"
)

type triggerResponse struct {
	Status string `json:"status"`
}

type scrapeStatusResponse struct {
	Running bool                 `json:"running"`
	Tracked int                  `json:"tracked"`
	LastRun *scheduler.RunReport `json:"lastRun,omitempty"`
}

// TriggerScrape queues a manual scrape of every tracked list
func TriggerScrape(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Scraper.Trigger() {
			d.Logger.Info("manual scrape triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, triggerResponse{Status: "accepted"})
			return
		}

		d.Logger.Warn("scrape already in progress",
			logger.String("remote_ip", r.RemoteAddr))
		w.Header().Set("Retry-After", "60")
		writeJSON(w, http.StatusTooManyRequests, triggerResponse{Status: "running"})
	}
}

// ScrapeStatus reports whether a scrape is running and how the last one went
func ScrapeStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := scrapeStatusResponse{
			Running: d.Scraper.Running(),
			Tracked: d.TrackedCount,
		}
		if last := d.Scraper.LastRun(); last.RunID != "" {
			resp.LastRun = &last
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, resp)
	}
}

package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
	Lists int  `json:"lists"`
}

// Readyz answers 200 once at least one list is loaded, 503 before that.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Index.Count()
		status := http.StatusOK
		if count == 0 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: count > 0, Lists: count})
	}
}

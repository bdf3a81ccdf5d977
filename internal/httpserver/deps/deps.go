package deps

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/awesomehub/internal/index"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
	"github.com/MrSnakeDoc/awesomehub/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/awesomehub/internal/store/redis"
)

// Scraper is the part of the list scraper the API drives.
type Scraper interface {
	Trigger() bool
	Running() bool
	LastRun() scheduler.RunReport
}

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time                // for testing, defaults to time.Now
	AllowedHosts    []string                        // Host headers allowed on the trigger endpoint
	AllowedCIDRS    []string                        // IPs allowed to trigger scrapes and read readyz/infra
	TrustProxy      bool                            // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Store           *redisstore.Store               // Redis list store (nil = memory only)
	Index           *index.ListIndex                // In-memory list index
	Scraper         Scraper                         // Manual scrape trigger and status
	TrackedCount    int                             // Number of tracked repositories
	TriggerAPIKey   string                          // X-API-Key accepted on the trigger endpoint
	NewItemWindow   time.Duration                   // Default window for /api/lists/new
	PublicRateLimit func(http.Handler) http.Handler // Shared limiter for public reads (nil = none)
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}

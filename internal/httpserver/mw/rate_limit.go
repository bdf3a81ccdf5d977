package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/awesomehub/internal/logger"
	"github.com/MrSnakeDoc/awesomehub/internal/utils"
)

// RateLimitConfig configures the read API limiter. Every client IP gets
// its own token bucket of Burst requests refilled at RefillPerIPPerMin.
type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int           // sweep early once this many clients are tracked
	SweepInterval     time.Duration // how often idle clients are forgotten
	IdleTTL           time.Duration
	TrustProxy        bool             // resolve IP from proxy headers when true
	Now               func() time.Time // defaults to time.Now
	Logger            logger.Logger    // optional, logs throttled clients at debug
}

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// clientTable hands out one limiter per client IP and forgets idle ones.
type clientTable struct {
	cfg       RateLimitConfig
	every     rate.Limit
	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func newClientTable(cfg RateLimitConfig) *clientTable {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.RefillPerIPPerMin < 1 {
		cfg.RefillPerIPPerMin = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &clientTable{
		cfg:       cfg,
		every:     rate.Limit(float64(cfg.RefillPerIPPerMin) / 60.0),
		clients:   make(map[string]*client, 1024),
		lastSweep: cfg.Now(),
	}
}

func (t *clientTable) limiter(ip string, now time.Time) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if now.Sub(t.lastSweep) >= t.cfg.SweepInterval ||
		(t.cfg.MaxEntries > 0 && len(t.clients) >= t.cfg.MaxEntries) {
		t.sweepLocked(now)
	}

	c := t.clients[ip]
	if c == nil {
		c = &client{lim: rate.NewLimiter(t.every, t.cfg.Burst)}
		t.clients[ip] = c
	}
	c.lastSeen = now
	return c.lim
}

func (t *clientTable) sweepLocked(now time.Time) {
	for ip, c := range t.clients {
		if now.Sub(c.lastSeen) > t.cfg.IdleTTL {
			delete(t.clients, ip)
		}
	}
	t.lastSweep = now
}

// take consumes one token. When the bucket is empty it returns the whole
// seconds until the next token.
func (t *clientTable) take(ip string, now time.Time) (ok bool, remaining, retryAfter int) {
	lim := t.limiter(ip, now)
	ok = lim.AllowN(now, 1)

	tokens := lim.TokensAt(now)
	if tokens > 0 {
		remaining = int(math.Floor(tokens))
	}
	if ok {
		return true, remaining, 0
	}

	retryAfter = int(math.Ceil((1 - tokens) / float64(t.every)))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, 0, retryAfter
}

// RateLimit rejects clients that exhausted their bucket with 429 and a
// Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	table := newClientTable(cfg)
	limit := strconv.Itoa(table.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, table.cfg.TrustProxy)

			ok, remaining, retry := table.take(ip, table.cfg.Now())
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				table.cfg.Logger.Debug("client throttled",
					logger.String("remote_ip", ip),
					logger.String("path", r.URL.Path),
					logger.Int("retry_after", retry))

				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded","retryAfter":` + strconv.Itoa(retry) + "}\n"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

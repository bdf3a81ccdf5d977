package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Scraping
	TrackedFile       string        // path to tracked.yaml (empty = built-in defaults)
	ScrapeInterval    time.Duration // interval between scrapes of every tracked list (default: 6h)
	ScrapeWorkers     int           // number of lists scraped concurrently (default: 2)
	NewItemWindow     time.Duration // how long an item stays flagged new (default: 168h)
	UmbrellaThreshold int           // category count below which "Software" is split (default: 5)
	MaxDocumentSize   int           // README size limit in bytes (default: 10 MiB)
	PruneInterval     time.Duration // interval to drop lists that are no longer tracked (default: 24h)
	ReparseOnStart    bool          // true => forget README digests at startup and re-parse every list

	// GitHub
	GitHubAPIURL  string        // ex: "https://api.github.com"
	GitHubRawURL  string        // ex: "https://raw.githubusercontent.com"
	GitHubToken   string        // optional, raises the API rate limit
	GitHubTimeout time.Duration // per request timeout (default: 15s)
	GitHubRetries int           // attempts per README fetch (default: 3)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// HTTP access
	AllowedHosts     []string // optional, restrict the trigger endpoint to specific Host headers
	AllowedCIDRS     []string // optional, IPs/CIDRs allowed to trigger scrapes and read /readyz
	TrustProxy       bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	TriggerAPIKey    string   // optional, X-API-Key accepted on the trigger endpoint
	RateLimitBurst   int      // public read burst per client IP
	RateLimitPerMin  int      // public read refill per client IP per minute
	CORSAllowOrigins []string // origins allowed to call the API from a browser ("*" = any)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("AWESOMEHUB_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("AWESOMEHUB_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("AWESOMEHUB_LOG_LEVEL", "info"),
		PrettyLog: mustBool("AWESOMEHUB_PRETTY_LOG", true),

		// Scraping
		TrackedFile:       getenv("AWESOMEHUB_TRACKED_FILE", ""),
		ScrapeInterval:    mustDuration("AWESOMEHUB_SCRAPE_INTERVAL", 6*time.Hour),
		ScrapeWorkers:     getenvInt("AWESOMEHUB_SCRAPE_WORKERS", 2),
		NewItemWindow:     mustDuration("AWESOMEHUB_NEW_ITEM_WINDOW", 7*24*time.Hour),
		UmbrellaThreshold: getenvInt("AWESOMEHUB_UMBRELLA_THRESHOLD", 5),
		MaxDocumentSize:   getenvInt("AWESOMEHUB_MAX_DOCUMENT_SIZE", 10<<20),
		PruneInterval:     mustDuration("AWESOMEHUB_PRUNE_INTERVAL", 24*time.Hour),
		ReparseOnStart:    mustBool("AWESOMEHUB_REPARSE_ON_START", false),

		// GitHub
		GitHubAPIURL:  getenv("AWESOMEHUB_GITHUB_API_URL", "https://api.github.com"),
		GitHubRawURL:  getenv("AWESOMEHUB_GITHUB_RAW_URL", "https://raw.githubusercontent.com"),
		GitHubToken:   getenv("AWESOMEHUB_GITHUB_TOKEN", ""),
		GitHubTimeout: mustDuration("AWESOMEHUB_GITHUB_TIMEOUT", 15*time.Second),
		GitHubRetries: getenvInt("AWESOMEHUB_GITHUB_RETRIES", 3),

		// Redis settings
		RedisAddr:             requireEnv("AWESOMEHUB_REDIS_ADDR"),
		RedisUser:             getenv("AWESOMEHUB_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("AWESOMEHUB_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("AWESOMEHUB_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("AWESOMEHUB_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:     splitAndTrim(getenv("AWESOMEHUB_ALLOWED_HOSTS", "")),
		AllowedCIDRS:     parseAllowedIPs(getenv("AWESOMEHUB_ALLOWED_CIDRS", "")),
		TrustProxy:       mustBool("AWESOMEHUB_TRUST_PROXY", true),
		TriggerAPIKey:    getenv("AWESOMEHUB_TRIGGER_API_KEY", ""),
		RateLimitBurst:   getenvInt("AWESOMEHUB_RATE_LIMIT_BURST", 60),
		RateLimitPerMin:  getenvInt("AWESOMEHUB_RATE_LIMIT_PER_MIN", 120),
		CORSAllowOrigins: splitAndTrim(getenv("AWESOMEHUB_CORS_ORIGINS", "*")),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: AWESOMEHUB_REDIS_PASSWORD is required when AWESOMEHUB_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.ScrapeWorkers < 1 {
		panic(fmt.Sprintf("❌ FATAL: AWESOMEHUB_SCRAPE_WORKERS must be >= 1, got %d", cfg.ScrapeWorkers))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	cp.RedisPassword = redact(c.RedisPassword)
	cp.RedisUser = redact(c.RedisUser)
	cp.GitHubToken = redact(c.GitHubToken)
	cp.TriggerAPIKey = redact(c.TriggerAPIKey)
	return cp
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***REDACTED***"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

package mw

import (
	"crypto/subtle"
	"net/http"

	"github.com/MrSnakeDoc/awesomehub/internal/logger"
	"github.com/MrSnakeDoc/awesomehub/internal/utils"
)

// APIKeyHeader carries the trigger API key.
const APIKeyHeader = "X-API-Key"

// RequireKeyOrCIDR lets a request through when it carries the API key or
// comes from an allowed network. With neither configured it is a
// passthrough, like AllowOnlyCIDRS.
func RequireKeyOrCIDR(apiKey string, allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if apiKey == "" && m.IsEmpty() {
		log.Warn("trigger endpoint is unprotected: no API key and no allowed CIDRs configured")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" {
				got := r.Header.Get(APIKeyHeader)
				if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}

			ip := utils.ClientIP(r, trustProxy)
			if !m.IsEmpty() && m.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn("rejected trigger request",
				logger.String("remote_ip", ip),
				logger.Bool("key_present", r.Header.Get(APIKeyHeader) != ""))
			forbidden(w)
		})
	}
}

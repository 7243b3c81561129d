package app

import (
	"net/url"
	"strings"

	"github.com/aben/console/internal/config"
	"github.com/gin-contrib/cors"
)

// originRule is one allowed_origins entry. Entries with a scheme match the
// whole origin; bare entries match host[:port], with "*.domain" and
// "host:*" wildcards.
type originRule struct {
	origin string
	host   string
	suffix string
	prefix string
}

func parseOriginRule(entry string) originRule {
	entry = strings.TrimRight(strings.ToLower(entry), "/")
	switch {
	case strings.Contains(entry, "://"):
		return originRule{origin: entry}
	case strings.HasPrefix(entry, "*."):
		return originRule{suffix: entry[1:]}
	case strings.HasSuffix(entry, ":*"):
		return originRule{prefix: strings.TrimSuffix(entry, "*")}
	}
	return originRule{host: entry}
}

func (r originRule) match(origin, host string) bool {
	switch {
	case r.origin != "":
		return origin == r.origin
	case r.suffix != "":
		return strings.HasSuffix(host, r.suffix)
	case r.prefix != "":
		return strings.HasPrefix(host, r.prefix)
	}
	return host == r.host
}

// allowOrigins builds the cors origin check. An empty list admits no
// cross-origin caller.
func allowOrigins(entries []string) func(string) bool {
	rules := make([]originRule, 0, len(entries))
	for _, entry := range entries {
		rules = append(rules, parseOriginRule(entry))
	}
	return func(origin string) bool {
		origin = strings.ToLower(origin)
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		for _, r := range rules {
			if r.match(origin, u.Host) {
				return true
			}
		}
		return false
	}
}

// corsConfig allows credentialed requests. Development accepts any origin.
func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
	}
	if cfg.IsDev() {
		c.AllowOriginFunc = func(string) bool { return true }
		return c
	}
	c.AllowOriginFunc = allowOrigins(cfg.AllowedOrigins)
	return c
}

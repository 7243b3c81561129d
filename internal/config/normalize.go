package config

import (
	"maps"
	"slices"
	"strings"
)

// textOr trims v and substitutes def when nothing is left.
func textOr(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func normalizeDatabaseConfig(cfg DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	cfg.DSN = strings.TrimSpace(cfg.DSN)
	cfg.Host = textOr(cfg.Host, defaultDBHost)
	cfg.User = textOr(cfg.User, defaultDBUser)
	cfg.Password = textOr(cfg.Password, defaultDBPassword)
	cfg.Name = textOr(cfg.Name, defaultDBName)
	cfg.Charset = textOr(cfg.Charset, defaultDBCharset)
	cfg.Loc = textOr(cfg.Loc, defaultDBLoc)
	if cfg.Port == 0 {
		cfg.Port = defaultDBPort
	}
	cfg.Params = maps.Clone(cfg.Params)
	return cfg
}

func normalizeRedisConfig(cfg RedisRuntimeConfig) RedisRuntimeConfig {
	cfg.URL = normalizeRedisRawURL(cfg.URL)
	cfg.Username = strings.TrimSpace(cfg.Username)
	cfg.Password = strings.TrimSpace(cfg.Password)
	cfg.Host = strings.TrimSpace(cfg.Host)
	if cfg.URL == "" {
		cfg.Host = textOr(cfg.Host, defaultRedisHost)
	}
	if cfg.Port == 0 {
		cfg.Port = defaultRedisPort
	}
	return cfg
}

// normalizeRedisRawURL adds the redis:// scheme to bare host:port values.
func normalizeRedisRawURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "redis://" + raw
}

// normalizeOrigins lowercases entries, drops trailing slashes and
// duplicates. Browsers never send a trailing slash in Origin.
func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
		if origin != "" && !slices.Contains(out, origin) {
			out = append(out, origin)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	return textOr(strings.ToLower(env), defaultEnv)
}

package config

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content, applies environment overrides and validates the result.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}

	applyRawAppConfig(&cfg, raw)
	if err := applyEnvOverrides(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	if len(c.Auth.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", MinJWTSecretLength)
	}
	if c.Auth.GlobalTokenTTLDays <= 0 {
		return fmt.Errorf("invalid auth.global_token_ttl_days %d, expected > 0", c.Auth.GlobalTokenTTLDays)
	}
	if c.Auth.TenantTokenTTLMinutes <= 0 {
		return fmt.Errorf("invalid auth.tenant_token_ttl_minutes %d, expected > 0", c.Auth.TenantTokenTTLMinutes)
	}
	if c.IsProduction() && slices.Contains(c.AllowedOrigins, "*") {
		return fmt.Errorf("allowed_origins must not contain \"*\" in production, cookies are credentialed")
	}
	return nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Auth: AuthConfig{
			GlobalTokenTTLDays:    defaultGlobalTokenTTLDays,
			TenantTokenTTLMinutes: defaultTenantTokenTTLMinute,
		},
		RateLimit: RateLimitConfig{
			AuthMax:           defaultAuthRateMax,
			AuthWindowSeconds: defaultAuthRateWindowSecond,
		},
		Events: EventsConfig{
			Buffer:                 defaultEventBuffer,
			ActivityRetentionHours: defaultActivityRetentionHours,
			ActivityMaxPerUser:     defaultActivityMaxPerUser,
		},
		SkillsArchive: ArchiveConfig{
			Region: defaultArchiveRegion,
			Prefix: defaultArchivePrefix,
		},
	}
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Logs = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}

	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Auth.JWTSecret); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if raw.Auth.GlobalTokenTTLDays != 0 {
		cfg.Auth.GlobalTokenTTLDays = raw.Auth.GlobalTokenTTLDays
	}
	if raw.Auth.TenantTokenTTLMinutes != 0 {
		cfg.Auth.TenantTokenTTLMinutes = raw.Auth.TenantTokenTTLMinutes
	}
	if v := strings.TrimSpace(raw.Auth.CookieDomain); v != "" {
		cfg.Auth.CookieDomain = v
	}

	if raw.RateLimit.AuthMax > 0 {
		cfg.RateLimit.AuthMax = raw.RateLimit.AuthMax
	}
	if raw.RateLimit.AuthWindowSeconds > 0 {
		cfg.RateLimit.AuthWindowSeconds = raw.RateLimit.AuthWindowSeconds
	}
	if raw.Events.Buffer > 0 {
		cfg.Events.Buffer = raw.Events.Buffer
	}
	if raw.Events.ActivityRetentionHours > 0 {
		cfg.Events.ActivityRetentionHours = raw.Events.ActivityRetentionHours
	}
	if raw.Events.ActivityMaxPerUser > 0 {
		cfg.Events.ActivityMaxPerUser = raw.Events.ActivityMaxPerUser
	}
	cfg.SkillsArchive = applyRawArchiveConfig(cfg.SkillsArchive, raw.SkillsArchive)

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	cfg.Env = normalizeEnv(cfg.Env)
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Database.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.URL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DatabaseURL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.Host); v != "" {
		cfg.Host = v
	}
	if raw.Database.Port != 0 {
		cfg.Port = raw.Database.Port
	}
	if v := strings.TrimSpace(raw.Database.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Username); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(raw.Database.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.Charset); v != "" {
		cfg.Charset = v
	}
	if raw.Database.ParseTime != nil {
		cfg.ParseTime = *raw.Database.ParseTime
	}
	if v := strings.TrimSpace(raw.Database.Loc); v != "" {
		cfg.Loc = v
	}
	if raw.Database.Params != nil {
		cfg.Params = raw.Database.Params
	}
	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		cfg.Password = v
	}
	if raw.Redis.DB != nil {
		cfg.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.TLS = *raw.Redis.TLS
	}
	return normalizeRedisConfig(cfg)
}

func applyRawArchiveConfig(current, raw ArchiveConfig) ArchiveConfig {
	cfg := current
	if v := strings.TrimSpace(raw.Bucket); v != "" {
		cfg.Bucket = v
	}
	if v := strings.TrimSpace(raw.Region); v != "" {
		cfg.Region = v
	}
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.AccessKeyID); v != "" {
		cfg.AccessKeyID = v
	}
	if v := strings.TrimSpace(raw.SecretAccessKey); v != "" {
		cfg.SecretAccessKey = v
	}
	if v := strings.Trim(strings.TrimSpace(raw.Prefix), "/"); v != "" {
		cfg.Prefix = v
	}
	return cfg
}

// applyEnvOverrides lets deployments inject the auth secret and lifetimes without touching the file.
func applyEnvOverrides(cfg *AppConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvJWTSecret); ok && strings.TrimSpace(v) != "" {
		cfg.Auth.JWTSecret = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvGlobalTokenTTLDays); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvGlobalTokenTTLDays, v, err)
		}
		cfg.Auth.GlobalTokenTTLDays = n
	}
	if v, ok := lookup(EnvTenantTokenTTLMins); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTenantTokenTTLMins, v, err)
		}
		cfg.Auth.TenantTokenTTLMinutes = n
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// IsProduction reports whether cookies must carry the Secure attribute.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, productionEnv)
}

// LogDir resolves log_dir against the executable directory. Empty means
// unset, leaving the choice to the logger.
func (c *AppConfig) LogDir() string {
	if c == nil || strings.TrimSpace(c.Logs) == "" {
		return ""
	}
	return ResolveRuntimePath(c.Logs, "logs")
}

func (c AuthConfig) GlobalTTL() time.Duration {
	return time.Duration(c.GlobalTokenTTLDays) * 24 * time.Hour
}

func (c AuthConfig) TenantTTL() time.Duration {
	return time.Duration(c.TenantTokenTTLMinutes) * time.Minute
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.AuthWindowSeconds) * time.Second
}

func (c EventsConfig) ActivityRetention() time.Duration {
	return time.Duration(c.ActivityRetentionHours) * time.Hour
}

// Enabled reports whether skill uploads should be archived.
func (c ArchiveConfig) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

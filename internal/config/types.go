package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	AllowedOrigins []string              `yaml:"allowed_origins"`
	Logs           string                `yaml:"log_dir"`
	Auth           AuthConfig            `yaml:"auth"`
	RateLimit      RateLimitConfig       `yaml:"rate_limit"`
	Events         EventsConfig          `yaml:"events"`
	SkillsArchive  ArchiveConfig         `yaml:"skills_archive"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

// AuthConfig carries the session signing secret and token lifetimes.
type AuthConfig struct {
	JWTSecret             string `yaml:"jwt_secret"`
	GlobalTokenTTLDays    int    `yaml:"global_token_ttl_days"`
	TenantTokenTTLMinutes int    `yaml:"tenant_token_ttl_minutes"`
	CookieDomain          string `yaml:"cookie_domain"`
}

type RateLimitConfig struct {
	AuthMax           int `yaml:"auth_max"`
	AuthWindowSeconds int `yaml:"auth_window_seconds"`
}

type EventsConfig struct {
	Buffer                 int `yaml:"buffer"`
	ActivityRetentionHours int `yaml:"activity_retention_hours"`
	ActivityMaxPerUser     int `yaml:"activity_max_per_user"`
}

// ArchiveConfig points at an S3-compatible bucket. An empty bucket disables archiving.
type ArchiveConfig struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
}

type rawAppConfig struct {
	Port           int               `yaml:"port"`
	DSN            string            `yaml:"dsn"`
	DatabaseURL    string            `yaml:"database_url"`
	RedisURL       string            `yaml:"redis_url"`
	Database       rawDatabaseConfig `yaml:"database"`
	Redis          rawRedisConfig    `yaml:"redis"`
	Env            string            `yaml:"env"`
	NodeEnv        string            `yaml:"node_env"`
	LogDir         string            `yaml:"log_dir"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	JWTSecret      string            `yaml:"jwt_secret"`
	Auth           rawAuthConfig     `yaml:"auth"`
	RateLimit      rawRateLimit      `yaml:"rate_limit"`
	Events         rawEventsConfig   `yaml:"events"`
	SkillsArchive  ArchiveConfig     `yaml:"skills_archive"`
}

type rawDatabaseConfig struct {
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

type rawAuthConfig struct {
	JWTSecret             string `yaml:"jwt_secret"`
	GlobalTokenTTLDays    int    `yaml:"global_token_ttl_days"`
	TenantTokenTTLMinutes int    `yaml:"tenant_token_ttl_minutes"`
	CookieDomain          string `yaml:"cookie_domain"`
}

type rawRateLimit struct {
	AuthMax           int `yaml:"auth_max"`
	AuthWindowSeconds int `yaml:"auth_window_seconds"`
}

type rawEventsConfig struct {
	Buffer                 int `yaml:"buffer"`
	ActivityRetentionHours int `yaml:"activity_retention_hours"`
	ActivityMaxPerUser     int `yaml:"activity_max_per_user"`
}

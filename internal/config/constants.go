package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 3000
	defaultEnv        = "development"
	productionEnv     = "production"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "admin_console"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	// MinJWTSecretLength is the shortest HMAC secret accepted at startup.
	MinJWTSecretLength          = 32
	defaultGlobalTokenTTLDays   = 30
	defaultTenantTokenTTLMinute = 60

	defaultAuthRateMax          = 10
	defaultAuthRateWindowSecond = 60

	defaultEventBuffer            = 256
	defaultActivityRetentionHours = 168
	defaultActivityMaxPerUser     = 100

	defaultArchiveRegion = "us-east-1"
	defaultArchivePrefix = "skills"

	EnvJWTSecret          = "AUTH_JWT_SECRET"
	EnvGlobalTokenTTLDays = "AUTH_GLOBAL_TOKEN_TTL_DAYS"
	EnvTenantTokenTTLMins = "AUTH_TENANT_TOKEN_TTL_MINUTES"
)

package config

// EnvPrefix is passed to envconfig; tags already carry the full names.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Env var names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv    = "SKILLBRIDGE_APP_ENV"
	EnvPort      = "SKILLBRIDGE_APP_PORT"
	EnvDBDSN     = "SKILLBRIDGE_DB_DSN"
	EnvDBHost    = "SKILLBRIDGE_DB_HOST"
	EnvDBUser    = "SKILLBRIDGE_DB_USER"
	EnvDBName    = "SKILLBRIDGE_DB_NAME"
	EnvRedisURL  = "SKILLBRIDGE_REDIS_URL"
	EnvJWTSecret = "SKILLBRIDGE_JWT_SECRET"
	EnvJWTIssuer = "SKILLBRIDGE_JWT_ISSUER"
	EnvJWTExp    = "SKILLBRIDGE_JWT_EXPIRATION_MINUTES"
)

var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

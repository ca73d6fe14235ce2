package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full environment-driven configuration surface.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Payments      PaymentsConfig
	Notifications NotificationsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SKILLBRIDGE_APP_ENV" required:"true"`
	Port         string `envconfig:"SKILLBRIDGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SKILLBRIDGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SKILLBRIDGE_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"SKILLBRIDGE_APP_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SKILLBRIDGE_DB_DSN"`
	Driver string `envconfig:"SKILLBRIDGE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SKILLBRIDGE_DB_HOST"`
	Port     int    `envconfig:"SKILLBRIDGE_DB_PORT" default:"5432"`
	User     string `envconfig:"SKILLBRIDGE_DB_USER"`
	Password string `envconfig:"SKILLBRIDGE_DB_PASSWORD"`
	Name     string `envconfig:"SKILLBRIDGE_DB_NAME"`
	SSLMode  string `envconfig:"SKILLBRIDGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SKILLBRIDGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SKILLBRIDGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SKILLBRIDGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SKILLBRIDGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SKILLBRIDGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SKILLBRIDGE_REDIS_ADDR"`
	Password     string        `envconfig:"SKILLBRIDGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SKILLBRIDGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SKILLBRIDGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SKILLBRIDGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SKILLBRIDGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SKILLBRIDGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SKILLBRIDGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SKILLBRIDGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SKILLBRIDGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SKILLBRIDGE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SKILLBRIDGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SKILLBRIDGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SKILLBRIDGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SKILLBRIDGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SKILLBRIDGE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SKILLBRIDGE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SKILLBRIDGE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SKILLBRIDGE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SKILLBRIDGE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SKILLBRIDGE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SKILLBRIDGE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// PaymentsConfig configures the external checkout processor bridge.
// Amounts sent to the processor are always minor units: the service price
// is multiplied by 100 exactly once, in the payment bridge.
type PaymentsConfig struct {
	StripeSecretKey string        `envconfig:"SKILLBRIDGE_STRIPE_SECRET_KEY"`
	StripeEnv       string        `envconfig:"SKILLBRIDGE_STRIPE_ENV" default:"test"`
	Currency        string        `envconfig:"SKILLBRIDGE_PAYMENT_CURRENCY" default:"usd"`
	FrontendURL     string        `envconfig:"SKILLBRIDGE_FRONTEND_URL" default:"http://localhost:3000"`
	RequestTimeout  time.Duration `envconfig:"SKILLBRIDGE_PAYMENT_REQUEST_TIMEOUT" default:"15s"`
}

// NotificationsConfig gates where seller notifications are emitted.
// By default only the payment-success path creates one ("you got paid");
// the status-update flag extends that to seller-driven completions.
type NotificationsConfig struct {
	NotifyOnStatusComplete bool `envconfig:"SKILLBRIDGE_NOTIFY_ON_STATUS_COMPLETE" default:"false"`
}

// Environment returns the normalized Stripe environment (test/live).
func (p PaymentsConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(p.StripeEnv))
	if env == "" {
		return "test"
	}
	return env
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range componentDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	App       AppConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Events    EventsConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	AppName     string `env:"APP_NAME" envDefault:"campus-recruit"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SeedDemo    bool   `env:"SEED_DEMO_ACCOUNTS" envDefault:"true"`
}

type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"campus-recruit"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"memory"`

	// URL takes precedence over the discrete DB_* connection fields.
	URL        string `env:"DATABASE_URL"`
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
	QueryTimeout   time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	Pool           PoolConfig    `envPrefix:"DB_POOL_"`

	MigrationsDir string `env:"MIGRATIONS_DIR"`
}

// PoolConfig overrides pgxpool defaults. Zero values keep the default.
type PoolConfig struct {
	MaxConns          int32         `env:"MAX_CONNS" envDefault:"10"`
	MinConns          int32         `env:"MIN_CONNS"`
	MaxConnLifetime   time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime   time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"30m"`
	HealthCheckPeriod time.Duration `env:"HEALTH_CHECK_PERIOD"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"10m"`
}

type StorageConfig struct {
	Driver        string `env:"STORAGE_DRIVER" envDefault:"local"`
	PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"/uploads"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

type EventsConfig struct {
	RabbitMQURL string `env:"RABBITMQ_URL"`
	Exchange    string `env:"RABBITMQ_EXCHANGE" envDefault:"campus.events"`
}

type RateLimitConfig struct {
	AuthLimit  int           `env:"RATE_LIMIT_AUTH" envDefault:"20"`
	AuthWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

var errInvalidConfig = errors.New("invalid configuration")

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.App.Environment), "development")
}

func (c Config) validate() error {
	var problems []string

	if c.Auth.JWTExpiresIn <= 0 {
		problems = append(problems, "JWT_EXPIRES_IN must be positive")
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.Database.URL) == "" &&
			(strings.TrimSpace(c.Database.DBHost) == "" || strings.TrimSpace(c.Database.DBName) == "" || strings.TrimSpace(c.Database.DBUser) == "") {
			problems = append(problems, "DATABASE_URL or DB_HOST, DB_NAME and DB_USER are required for the postgres driver")
		}
		if p := c.Database.Pool; p.MaxConns > 0 && p.MinConns > p.MaxConns {
			problems = append(problems, "DB_POOL_MIN_CONNS must not exceed DB_POOL_MAX_CONNS")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown DB_DRIVER %q", c.Database.Driver))
	}

	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if strings.TrimSpace(c.Storage.S3Bucket) == "" {
			problems = append(problems, "S3_BUCKET is required for the s3 storage driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

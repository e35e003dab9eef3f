package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Notification inbox backends.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	Port string `env:"PORT" env-default:"8080"`
	Env  string `env:"ENV" env-default:"development"`

	PostgresConnStr     string `env:"POSTGRES_CONN_STR" env-required:"true"`
	MongoURI            string `env:"MONGO_URI"`
	MongoDatabase       string `env:"MONGO_DATABASE" env-default:"devhub"`
	NotificationBackend string `env:"NOTIFICATION_BACKEND" env-default:"postgres"`

	FirebaseCredentialsPath string        `env:"FIREBASE_CREDENTIALS_PATH"`
	JWTSecret               string        `env:"JWT_SECRET"`
	JWTTTL                  time.Duration `env:"JWT_TTL" env-default:"72h"`

	NATSURL       string `env:"NATS_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	HighlightTimezone string        `env:"HIGHLIGHT_TIMEZONE" env-default:"UTC"`
	HighlightCacheTTL time.Duration `env:"HIGHLIGHT_CACHE_TTL" env-default:"1m"`

	Log LogConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, assuming environment variables are set.")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints cleanenv cannot express. The
// notification backend is normalized to lower case.
func (c *Config) Validate() error {
	c.NotificationBackend = strings.ToLower(strings.TrimSpace(c.NotificationBackend))
	switch c.NotificationBackend {
	case BackendPostgres:
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("NOTIFICATION_BACKEND=mongo requires MONGO_URI")
		}
	default:
		return fmt.Errorf("NOTIFICATION_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMongo, c.NotificationBackend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.JWTSecret == "" && c.FirebaseCredentialsPath == "" && !c.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET or FIREBASE_CREDENTIALS_PATH is required outside development")
	}
	return nil
}

// Location is the timezone highlight posted dates are computed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.HighlightTimezone)
	if err != nil {
		return nil, fmt.Errorf("HIGHLIGHT_TIMEZONE %q: %w", c.HighlightTimezone, err)
	}
	return loc, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

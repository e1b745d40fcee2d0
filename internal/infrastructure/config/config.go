package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           string        `env:"PORT,             default=5000"`
	Env            string        `env:"ENV,              default=development"`
	LogLevel       string        `env:"LOG_LEVEL,        default=info"`
	JWTSecret      string        `env:"JWT_SECRET,       required"`
	TokenTTL       time.Duration `env:"TOKEN_TTL,        default=1h"`
	APIPrefix      string        `env:"API_PREFIX,       default=/api"`
	MaxResumeBytes int64         `env:"MAX_RESUME_BYTES, default=5242880"`
	CORSOrigins    []string      `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:3000,http://localhost:5173"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	Admin      AdminConfig
	Login      LoginConfig
	Activity   ActivityConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=referral_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type CloudinaryConfig struct {
	URL       string `env:"CLOUDINARY_URL"`
	CloudName string `env:"CLOUD_NAME"`
	APIKey    string `env:"CLOUD_API_KEY"`
	APISecret string `env:"CLOUD_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER, default=resumes"`
}

// AdminConfig seeds the single Admin account at startup. Seeding is skipped
// when the email is empty.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME, default=Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

type LoginConfig struct {
	RateLimit  int           `env:"LOGIN_RATE_LIMIT,  default=10"`
	RateWindow time.Duration `env:"LOGIN_RATE_WINDOW, default=1m"`
}

type ActivityConfig struct {
	Workers        int    `env:"ACTIVITY_WORKERS,      default=4"`
	StatusSchedule string `env:"STATUS_GAUGE_SCHEDULE, default=@every 1m"`
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadEnvFile merges a .env file into the process environment. Variables
// already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.MaxResumeBytes <= 0 {
		return nil, errors.New("config: MAX_RESUME_BYTES must be positive")
	}
	return &cfg, nil
}

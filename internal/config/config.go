package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for the local config document
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Mirror backends for the remote config copy
const (
	MirrorNone   = "none"
	MirrorGitHub = "github"
	MirrorS3     = "s3"
)

// Config holds all application configuration
type Config struct {
	BotToken        string
	OwnerUserID     int64
	SessionDuration time.Duration
	DefaultCooldown int
	Port            string
	ConfigFile      string
	StorageBackend  string
	Database        DatabaseConfig
	Mirror          MirrorConfig
	ExternalURL     string
	PingInterval    time.Duration
	RateLimit       RateLimitConfig
	AppEnv          string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// MirrorConfig selects and configures the remote config mirror
type MirrorConfig struct {
	Backend string
	GitHub  GitHubConfig
	S3      S3Config
}

// GitHubConfig locates the mirrored file in a GitHub repository
type GitHubConfig struct {
	Token    string
	Repo     string
	FilePath string
	Branch   string
}

// S3Config locates the mirrored object in a bucket
type S3Config struct {
	Bucket string
	Key    string
	Region string
}

// RateLimitConfig throttles updates per Telegram user
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		Port:           getEnv("PORT", "3000"),
		ConfigFile:     getEnv("CONFIG_FILE", "./lib/config.json"),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageFile),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "tgbot"),
			User:     getEnv("DB_USER", "tgbot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Mirror: MirrorConfig{
			Backend: os.Getenv("MIRROR_BACKEND"),
			GitHub: GitHubConfig{
				Token:    os.Getenv("GITHUB_TOKEN"),
				Repo:     os.Getenv("GITHUB_REPO"),
				FilePath: getEnv("GITHUB_FILE_PATH", "config.json"),
				Branch:   os.Getenv("GITHUB_BRANCH"),
			},
			S3: S3Config{
				Bucket: os.Getenv("S3_BUCKET"),
				Key:    getEnv("S3_KEY", "config.json"),
				Region: os.Getenv("AWS_REGION"),
			},
		},
		ExternalURL: os.Getenv("RENDER_EXTERNAL_URL"),
		AppEnv:      getEnv("APP_ENV", "production"),
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	var err error
	if cfg.OwnerUserID, err = getEnvInt64("OWNER_USER_ID", 0); err != nil {
		return nil, err
	}

	seconds, err := getEnvInt("SESSION_DURATION", 21600)
	if err != nil {
		return nil, err
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("SESSION_DURATION must be positive")
	}
	cfg.SessionDuration = time.Duration(seconds) * time.Second

	if cfg.DefaultCooldown, err = getEnvInt("COOLDOWN_DEFAULT", 2); err != nil {
		return nil, err
	}
	if cfg.DefaultCooldown < 1 || cfg.DefaultCooldown > 60 {
		return nil, fmt.Errorf("COOLDOWN_DEFAULT must be between 1 and 60")
	}

	if cfg.PingInterval, err = getEnvDuration("PING_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.PingInterval <= 0 {
		return nil, fmt.Errorf("PING_INTERVAL must be positive")
	}

	if cfg.RateLimit.PerSecond, err = getEnvFloat("RATE_LIMIT_PER_SECOND", 1); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getEnvInt("RATE_LIMIT_BURST", 5); err != nil {
		return nil, err
	}

	if err := cfg.validateStorage(); err != nil {
		return nil, err
	}
	if err := cfg.validateMirror(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validateStorage() error {
	switch c.StorageBackend {
	case StorageFile:
		return nil
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		return nil
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
}

func (c *Config) validateMirror() error {
	if c.Mirror.Backend == "" {
		c.Mirror.Backend = MirrorNone
		if c.Mirror.GitHub.Token != "" && c.Mirror.GitHub.Repo != "" {
			c.Mirror.Backend = MirrorGitHub
		}
	}

	switch c.Mirror.Backend {
	case MirrorNone:
		return nil
	case MirrorGitHub:
		if c.Mirror.GitHub.Token == "" || c.Mirror.GitHub.Repo == "" {
			return fmt.Errorf("GITHUB_TOKEN and GITHUB_REPO are required for the github mirror")
		}
		return nil
	case MirrorS3:
		if c.Mirror.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 mirror")
		}
		return nil
	default:
		return fmt.Errorf("unknown MIRROR_BACKEND %q", c.Mirror.Backend)
	}
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// IsDevelopment reports whether APP_ENV selects development logging
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

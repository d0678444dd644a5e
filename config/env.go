package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string        `env:"APP_ENV" default:"development"`
	Port           string        `env:"APP_PORT" default:"8082"`
	StoreDriver    string        `env:"STORE_DRIVER" default:"postgres"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	DBHost         string        `env:"DB_HOST" default:"localhost"`
	DBPort         string        `env:"DB_PORT" default:"5432"`
	DBUser         string        `env:"DB_USER" default:"postgres"`
	DBPassword     string        `env:"DB_PASSWORD" default:"postgres"`
	DBName         string        `env:"DB_NAME" default:"cart_shop"`
	DBSSLMode      string        `env:"DB_SSLMODE" default:"disable"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" default:"database/migration"`
	JWTSecret      string        `env:"JWT_SECRET" default:"secret"`
	JWTExpiry      time.Duration `env:"JWT_EXPIRY" default:"24h"`
	UploadDir      string        `env:"UPLOAD_DIR" default:"./uploads"`
	MaxUploadSize  int64         `env:"MAX_UPLOAD_SIZE" default:"5242880"`
	RedisURL       string        `env:"REDIS_URL"`
	RedisAddr      string        `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	CacheTTL       time.Duration `env:"CACHE_TTL" default:"5m"`
	KafkaBrokers   []string      `env:"KAFKA_BROKERS"`
	KafkaTopic     string        `env:"KAFKA_TOPIC" default:"cart-shop.events"`
	SMTPHost       string        `env:"SMTP_HOST"`
	SMTPPort       int           `env:"SMTP_PORT" default:"587"`
	SMTPUser       string        `env:"SMTP_USER"`
	SMTPPass       string        `env:"SMTP_PASS"`
	SMTPFrom       string        `env:"SMTP_FROM" default:"no-reply@cart-shop.local"`
	CloudinaryURL  string        `env:"CLOUDINARY_URL"`
	CloudinaryName string        `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryKey  string        `env:"CLOUDINARY_API_KEY"`
	CloudinarySec  string        `env:"CLOUDINARY_API_SECRET"`
	OriginURL      string        `env:"ORIGIN_URL"`
}

var AppConfig *Config

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		log.Fatalf("Failed to apply config defaults: %v", err)
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.Port = getEnv("APP_PORT", getEnv("PORT", cfg.Port))
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", cfg.StoreDriver))
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.MigrationsPath)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTExpiry = getDuration("JWT_EXPIRY", cfg.JWTExpiry)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.MaxUploadSize = getInt64("MAX_UPLOAD_SIZE", cfg.MaxUploadSize)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.CacheTTL = getDuration("CACHE_TTL", cfg.CacheTTL)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = int(getInt64("SMTP_PORT", int64(cfg.SMTPPort)))
	cfg.SMTPUser = getEnv("SMTP_USER", cfg.SMTPUser)
	cfg.SMTPPass = getEnv("SMTP_PASS", cfg.SMTPPass)
	cfg.SMTPFrom = getEnv("SMTP_FROM", cfg.SMTPFrom)
	cfg.CloudinaryURL = getEnv("CLOUDINARY_URL", cfg.CloudinaryURL)
	cfg.CloudinaryName = getEnv("CLOUDINARY_CLOUD_NAME", cfg.CloudinaryName)
	cfg.CloudinaryKey = getEnv("CLOUDINARY_API_KEY", cfg.CloudinaryKey)
	cfg.CloudinarySec = getEnv("CLOUDINARY_API_SECRET", cfg.CloudinarySec)
	cfg.OriginURL = getEnv("ORIGIN_URL", cfg.OriginURL)

	AppConfig = cfg
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DSN prefers DATABASE_URL and falls back to the individual DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) CloudinaryConfigured() bool {
	return c.CloudinaryURL != "" || (c.CloudinaryName != "" && c.CloudinaryKey != "" && c.CloudinarySec != "")
}

func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v == 0 {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

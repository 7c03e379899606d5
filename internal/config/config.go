package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sairaklin-backend/pkg/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver string
	DBDSN    string

	JWTSecret []byte
	TokenTTL  time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins  []string
	AllowedEmailDomains []string

	StrictTransitions bool

	RedisURL      string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	LogLevel string
	LogJSON  bool
}

// Load membaca .env (kalau ada) lalu environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Warn("Warning: .env file not found")
	}
	return FromEnv()
}

// FromEnv membaca config murni dari environment, tanpa .env.
func FromEnv() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", ""),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		JWTSecret:          []byte(getEnv("JWT_SECRET", "rahasia_dapur_sairaklin")),
		TokenTTL:           getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		CORSAllowedOrigins: utils.SplitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StrictTransitions:  getEnvAsBool("ORDER_STRICT_TRANSITIONS", false),
		RedisURL:           os.Getenv("REDIS_URL"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		StatsCacheTTL:      getEnvAsDuration("STATS_CACHE_TTL", time.Minute),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@sairaklin.id"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogJSON:            strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"),
	}

	// ALLOWED_EMAIL_DOMAINS="" (diset tapi kosong) = aturan domain dimatikan
	if v, ok := os.LookupEnv("ALLOWED_EMAIL_DOMAINS"); ok {
		cfg.AllowedEmailDomains = utils.SplitCSV(v)
	} else {
		cfg.AllowedEmailDomains = []string{"gmail.com"}
	}

	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		switch cfg.DBDriver {
		case "sqlite":
			cfg.DBDSN = getEnv("DB_NAME", "sairaklin.db")
		default:
			cfg.DBDSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				getEnv("DB_USER", "root"),
				os.Getenv("DB_PASSWORD"),
				getEnv("DB_HOST", "127.0.0.1"),
				getEnv("DB_PORT", "3306"),
				getEnv("DB_NAME", "sairaklin"),
			)
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

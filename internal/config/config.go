package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port     int
	Env      string
	LogLevel string
	LogFile  string

	Storage StorageConfig
	Deliver DeliveryConfig
	Admin   AdminConfig
	Site    SiteConfig

	RateLimitPerMinute int
}

type StorageConfig struct {
	Driver      string // sqlite | postgres | memory
	SQLitePath  string
	PostgresDSN string
}

type DeliveryConfig struct {
	URL           string
	Compress      bool
	Timeout       time.Duration // 0 = no timeout
	FlushInterval time.Duration
	BeaconGrace   time.Duration
}

type AdminConfig struct {
	Username      string
	Password      string
	SessionSecret string
	SessionTTL    time.Duration
}

// SiteConfig describes the environment the collector reports as its
// page context.
type SiteConfig struct {
	URL       string
	Referrer  string
	UserAgent string
	Language  string
	Platform  string
	Width     int
	Height    int
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getInt("PORT", 8080),
		Env:      getString("APP_ENV", "development"),
		LogLevel: getString("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
		Storage: StorageConfig{
			Driver:      strings.ToLower(getString("STORAGE_DRIVER", DriverSQLite)),
			SQLitePath:  getString("SQLITE_PATH", "portfolio_analytics.db"),
			PostgresDSN: os.Getenv("POSTGRES_DSN"),
		},
		Deliver: DeliveryConfig{
			URL:           os.Getenv("DELIVERY_URL"),
			Compress:      getBool("DELIVERY_COMPRESS", false),
			Timeout:       getDuration("DELIVERY_TIMEOUT", 0),
			FlushInterval: getDuration("FLUSH_INTERVAL", 30*time.Second),
			BeaconGrace:   getDuration("BEACON_GRACE", 2*time.Second),
		},
		Admin: AdminConfig{
			Username:      os.Getenv("ADMIN_USERNAME"),
			Password:      os.Getenv("ADMIN_PASSWORD"),
			SessionSecret: getString("SESSION_SECRET", "portfolio-analytics-dev-secret"),
			SessionTTL:    24 * time.Hour,
		},
		Site: SiteConfig{
			URL:       getString("SITE_URL", "http://localhost:5173/"),
			Referrer:  os.Getenv("SITE_REFERRER"),
			UserAgent: getString("SITE_USER_AGENT", "portfolio-analytics/1.0"),
			Language:  getString("SITE_LANGUAGE", "en-US"),
			Platform:  getString("SITE_PLATFORM", "linux"),
			Width:     getInt("SITE_VIEWPORT_WIDTH", 1280),
			Height:    getInt("SITE_VIEWPORT_HEIGHT", 800),
		},
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 120),
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

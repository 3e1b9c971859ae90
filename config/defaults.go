// Package config provides centralized default values for the sales dashboard API
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

// loadEnvFile loads environment variables from .env file
func loadEnvFile() {
	envLoaded.Do(func() {
		loadEnvFileOnce()
	})
}

func loadEnvFileOnce() {
	file, err := os.Open(".env")
	if err != nil {
		// .env file is optional, don't error if it doesn't exist
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first = sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Only set if not already set in environment
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

func init() {
	// Ensure .env is loaded before any config access
	loadEnvFile()
}

// getEnvInt reads environment variable with fallback to default
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvString reads environment variable with string fallback
func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// Server Configuration
var (
	Port = getEnvString("PORT", "8080")
)

// Database Configuration
var (
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken   = getEnvString("TURSO_AUTH_TOKEN", "")
	SQLitePath       = getEnvString("SQLITE_PATH", "data/salesdash.db")

	DBMaxOpenConns           = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns           = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
)

// Pagination Configuration
var (
	DefaultPageLimit = getEnvInt("DEFAULT_PAGE_LIMIT", 1000)
	MaxPageLimit     = getEnvInt("MAX_PAGE_LIMIT", 10000)
	MinSearchLength  = getEnvInt("MIN_SEARCH_LENGTH", 3)
)

// TTL Configuration
//
// Cache lifetimes step up with the lookback window: recent periods are still
// accruing data and must feel fresh, while long-horizon periods are effectively
// immutable within a business day.
var (
	DashboardTTL  = time.Duration(getEnvInt("DASHBOARD_TTL_MINUTES", 10)) * time.Minute
	MediumTermTTL = time.Duration(getEnvInt("MEDIUM_TERM_TTL_MINUTES", 60)) * time.Minute
	HistoricalTTL = time.Duration(getEnvInt("HISTORICAL_TTL_HOURS", 24)) * time.Hour
)

// Cleanup Intervals
var (
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute
)

// Cache Bounds
var (
	MaxCacheEntries = getEnvInt("MAX_CACHE_ENTRIES", 10000)
)

// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs to run.
type Config struct {
	Port     int
	APIToken string
	LogLevel string
	DevMode  bool

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	DBMaxOpenConns        int
	DBMaxIdleConns        int
	DBConnMaxLifetimeMins int

	// PriceMaxAgeMinutes is the staleness window of the crypto price cache.
	PriceMaxAgeMinutes int
	// RefreshSchedule is the cron expression of the periodic recalculation.
	RefreshSchedule string

	BinanceBaseURL      string
	ExchangeRateBaseURL string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnvAsInt("PORT", 8080),
		APIToken: getEnv("API_TOKEN", "dev-token"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvAsInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "patrimoine"),

		DBMaxOpenConns:        getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:        getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeMins: getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 30),

		PriceMaxAgeMinutes: getEnvAsInt("PRICE_MAX_AGE_MINUTES", 10),
		RefreshSchedule:    getEnv("REFRESH_SCHEDULE", "0 */6 * * *"),

		BinanceBaseURL:      getEnv("BINANCE_BASE_URL", ""),
		ExchangeRateBaseURL: getEnv("EXCHANGE_RATE_BASE_URL", ""),
	}
}

// ConnString builds the lib/pq connection string.
func (c *Config) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

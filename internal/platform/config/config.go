package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M" for
	// 100 requests per minute per client IP.
	RateLimit string

	// DefaultFYStartMonth seeds new companies that do not specify a
	// financial year start month (1-12). 4 means April.
	DefaultFYStartMonth int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("DEFAULT_FY_START_MONTH", 4)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.DefaultFYStartMonth = viper.GetInt("DEFAULT_FY_START_MONTH")
	if cfg.DefaultFYStartMonth < 1 || cfg.DefaultFYStartMonth > 12 {
		log.Printf("Warning: Invalid value for DEFAULT_FY_START_MONTH (%d). Defaulting to 4.\n", cfg.DefaultFYStartMonth)
		cfg.DefaultFYStartMonth = 4
	}

	return cfg, nil
}

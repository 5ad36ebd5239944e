package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Document storage
	UploadDir          string
	MaxUploadSizeBytes int64

	// External OCR tooling
	TesseractCmd string
	PdftoppmCmd  string

	// Reconciliation
	FuzzyMatchThreshold float64
	ReconcileCronSpec   string // empty disables the scheduled sweep

	// Rate limiting for upload endpoints
	UploadRateLimitPeriod time.Duration
	UploadRateLimitCount  int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("MAX_UPLOAD_SIZE_BYTES", int64(50*1024*1024))
	viper.SetDefault("TESSERACT_CMD", "tesseract")
	viper.SetDefault("PDFTOPPM_CMD", "pdftoppm")
	viper.SetDefault("FUZZY_MATCH_THRESHOLD", 0.8)
	viper.SetDefault("RECONCILE_CRON_SPEC", "")
	viper.SetDefault("UPLOAD_RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("UPLOAD_RATE_LIMIT_COUNT", int64(30))

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.UploadDir = viper.GetString("UPLOAD_DIR")
	cfg.MaxUploadSizeBytes = viper.GetInt64("MAX_UPLOAD_SIZE_BYTES")

	cfg.TesseractCmd = viper.GetString("TESSERACT_CMD")
	cfg.PdftoppmCmd = viper.GetString("PDFTOPPM_CMD")

	cfg.FuzzyMatchThreshold = viper.GetFloat64("FUZZY_MATCH_THRESHOLD")
	if cfg.FuzzyMatchThreshold <= 0 || cfg.FuzzyMatchThreshold > 1 {
		log.Printf("Warning: Invalid value for FUZZY_MATCH_THRESHOLD (%v). Defaulting to 0.8.\n", cfg.FuzzyMatchThreshold)
		cfg.FuzzyMatchThreshold = 0.8
	}

	cfg.ReconcileCronSpec = viper.GetString("RECONCILE_CRON_SPEC")

	periodStr := viper.GetString("UPLOAD_RATE_LIMIT_PERIOD")
	period, err := time.ParseDuration(periodStr)
	if err != nil {
		period = time.Minute
		log.Printf("Warning: Invalid value for UPLOAD_RATE_LIMIT_PERIOD ('%s'). Defaulting to %s.\n", periodStr, period)
	}
	cfg.UploadRateLimitPeriod = period
	cfg.UploadRateLimitCount = viper.GetInt64("UPLOAD_RATE_LIMIT_COUNT")

	return cfg, nil
}

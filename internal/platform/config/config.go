package config

import (
	"log"
	"time"
	_ "time/tzdata" // station time zones must resolve in minimal images

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	CORSOrigins       []string
	RateLimit         string // ulule/limiter format, e.g. "30-M"

	// Rollback engine
	StationTimezone *time.Location
	RollbackTimeout time.Duration
	MatchWindow     time.Duration // heuristic window around the approval time

	// Redis, optional
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
	StockCacheTTL time.Duration

	Accounts domain.AccountMap
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "fuel-ledger")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "30-M")
	viper.SetDefault("STATION_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("ROLLBACK_TIMEOUT", "30s")
	viper.SetDefault("ROLLBACK_MATCH_WINDOW", "5m")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_CHANNEL", "fuel_ledger.rollbacks")
	viper.SetDefault("STOCK_CACHE_TTL", "30s")

	viper.SetDefault("ACCOUNT_CASH", "1100")
	viper.SetDefault("ACCOUNT_FUEL_INVENTORY", "1300")
	viper.SetDefault("ACCOUNT_INVENTORY_IN_TRANSIT", "1310")
	viper.SetDefault("ACCOUNT_PAYABLE", "2100")
	viper.SetDefault("ACCOUNT_SALES_CLEARING", "2900")
	viper.SetDefault("ACCOUNT_OPERATOR_SHORTAGE", "1400")
	viper.SetDefault("ACCOUNT_OTHER_INCOME", "4900")
	viper.SetDefault("ACCOUNT_SHRINKAGE_EXPENSE", "6100")
	viper.SetDefault("ACCOUNT_INVENTORY_GAIN", "4910")

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

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.CORSOrigins = viper.GetStringSlice("CORS_ORIGINS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	tzName := viper.GetString("STATION_TIMEZONE")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Warning: Invalid STATION_TIMEZONE ('%s'). Defaulting to UTC.\n", tzName)
		loc = time.UTC
	}
	cfg.StationTimezone = loc
	cfg.RollbackTimeout = durationOr("ROLLBACK_TIMEOUT", 30*time.Second)
	cfg.MatchWindow = durationOr("ROLLBACK_MATCH_WINDOW", 5*time.Minute)

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.RedisChannel = viper.GetString("REDIS_CHANNEL")
	cfg.StockCacheTTL = durationOr("STOCK_CACHE_TTL", 30*time.Second)

	cfg.Accounts = domain.AccountMap{
		Cash:               viper.GetString("ACCOUNT_CASH"),
		FuelInventory:      viper.GetString("ACCOUNT_FUEL_INVENTORY"),
		InventoryInTransit: viper.GetString("ACCOUNT_INVENTORY_IN_TRANSIT"),
		AccountsPayable:    viper.GetString("ACCOUNT_PAYABLE"),
		SalesClearing:      viper.GetString("ACCOUNT_SALES_CLEARING"),
		OperatorShortage:   viper.GetString("ACCOUNT_OPERATOR_SHORTAGE"),
		OtherIncome:        viper.GetString("ACCOUNT_OTHER_INCOME"),
		ShrinkageExpense:   viper.GetString("ACCOUNT_SHRINKAGE_EXPENSE"),
		InventoryGain:      viper.GetString("ACCOUNT_INVENTORY_GAIN"),
	}

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers selectable through DB_DRIVER.
const (
	DriverPgx          = "pgx"
	DriverGormPostgres = "gorm-postgres"
	DriverSQLite       = "sqlite"
)

// PostingAccountCodes are the chart of accounts codes the built-in posting rules use.
type PostingAccountCodes struct {
	Cash          string `mapstructure:"POSTING_ACCOUNT_CASH"`
	Receivable    string `mapstructure:"POSTING_ACCOUNT_RECEIVABLE"`
	Inventory     string `mapstructure:"POSTING_ACCOUNT_INVENTORY"`
	TaxReceivable string `mapstructure:"POSTING_ACCOUNT_TAX_RECEIVABLE"`
	Payable       string `mapstructure:"POSTING_ACCOUNT_PAYABLE"`
	TaxPayable    string `mapstructure:"POSTING_ACCOUNT_TAX_PAYABLE"`
	Revenue       string `mapstructure:"POSTING_ACCOUNT_REVENUE"`
	CostOfGoods   string `mapstructure:"POSTING_ACCOUNT_COST_OF_GOODS"`
}

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	DBDriver       string `mapstructure:"DB_DRIVER"`
	SQLitePath     string `mapstructure:"SQLITE_PATH"`
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`
	JWTSecret      string
	JWTIssuer      string

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RateLimit          string   `mapstructure:"RATE_LIMIT"` // ulule formatted, e.g. 100-M

	PostingAccounts    PostingAccountCodes
	NumberPadding      int    `mapstructure:"NUMBER_PADDING"`
	NumberPeriodFormat string `mapstructure:"NUMBER_PERIOD_FORMAT"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DB_DRIVER", DriverPgx)
	viper.SetDefault("SQLITE_PATH", "document_engine.db")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "gym-document-engine")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTING_ACCOUNT_CASH", "1000")
	viper.SetDefault("POSTING_ACCOUNT_RECEIVABLE", "1100")
	viper.SetDefault("POSTING_ACCOUNT_INVENTORY", "1200")
	viper.SetDefault("POSTING_ACCOUNT_TAX_RECEIVABLE", "1300")
	viper.SetDefault("POSTING_ACCOUNT_PAYABLE", "2000")
	viper.SetDefault("POSTING_ACCOUNT_TAX_PAYABLE", "2100")
	viper.SetDefault("POSTING_ACCOUNT_REVENUE", "4000")
	viper.SetDefault("POSTING_ACCOUNT_COST_OF_GOODS", "5000")
	viper.SetDefault("NUMBER_PADDING", 6)
	viper.SetDefault("NUMBER_PERIOD_FORMAT", "yyyy-MM")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.DBDriver = strings.ToLower(viper.GetString("DB_DRIVER"))
	switch cfg.DBDriver {
	case DriverPgx, DriverGormPostgres, DriverSQLite:
	default:
		log.Printf("Warning: unknown DB_DRIVER '%s'. Defaulting to %s.\n", cfg.DBDriver, DriverPgx)
		cfg.DBDriver = DriverPgx
	}
	if cfg.DatabaseURL == "" && cfg.DBDriver != DriverSQLite {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.SQLitePath = viper.GetString("SQLITE_PATH")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.PostingAccounts = PostingAccountCodes{
		Cash:          viper.GetString("POSTING_ACCOUNT_CASH"),
		Receivable:    viper.GetString("POSTING_ACCOUNT_RECEIVABLE"),
		Inventory:     viper.GetString("POSTING_ACCOUNT_INVENTORY"),
		TaxReceivable: viper.GetString("POSTING_ACCOUNT_TAX_RECEIVABLE"),
		Payable:       viper.GetString("POSTING_ACCOUNT_PAYABLE"),
		TaxPayable:    viper.GetString("POSTING_ACCOUNT_TAX_PAYABLE"),
		Revenue:       viper.GetString("POSTING_ACCOUNT_REVENUE"),
		CostOfGoods:   viper.GetString("POSTING_ACCOUNT_COST_OF_GOODS"),
	}

	cfg.NumberPadding = viper.GetInt("NUMBER_PADDING")
	if cfg.NumberPadding <= 0 || cfg.NumberPadding > 12 {
		log.Printf("Warning: invalid NUMBER_PADDING %d. Defaulting to 6.\n", cfg.NumberPadding)
		cfg.NumberPadding = 6
	}
	cfg.NumberPeriodFormat = viper.GetString("NUMBER_PERIOD_FORMAT")

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

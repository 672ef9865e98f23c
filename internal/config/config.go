package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Source kinds accepted by STOCK_SOURCE and BILLING_SOURCE.
const (
	SourceSQL    = "sql"
	SourceCSV    = "csv"
	SourceSheets = "sheets"
	SourceMongo  = "mongo"
)

// Session store kinds accepted by SESSION_STORE.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config represents the full application configuration surface.
type Config struct {
	Server       ServerConfig
	Auth         AuthConfig
	Sources      SourcesConfig
	Database     DatabaseConfig
	MongoDB      MongoDBConfig
	Sheets       SheetsConfig
	Cache        CacheConfig
	Scheduler    SchedulerConfig
	Alerts       AlertsConfig
	Metrics      MetricsConfig
	LogLevel     string
	SettingsPath string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// AuthConfig holds the operator credential and session options.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
	SessionTTL   time.Duration
	CookieSecure bool
	Store        string
	Redis        RedisConfig
}

// RedisConfig locates the redis session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SourcesConfig selects where stock and billing records come from.
type SourcesConfig struct {
	Stock             string
	Billing           string
	StockCSVPath      string
	BillingCSVPath    string
	StockSheetRange   string
	BillingSheetRange string
}

// DatabaseConfig describes the ERP database read by the sql sources.
type DatabaseConfig struct {
	Type            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI               string
	DBName            string
	StockCollection   string
	BillingCollection string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// CacheConfig controls the record snapshot cache.
type CacheConfig struct {
	SnapshotTTL time.Duration
}

// SchedulerConfig holds cron settings and the bronze layer location.
type SchedulerConfig struct {
	RefreshCronSchedule string
	ExtractCronSchedule string
	Timezone            string
	BronzePath          string
}

// AlertsConfig points at the webhook notified about failing sources.
type AlertsConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool
}

// Load reads environment variables (optionally from the provided file) and
// materializes a validated Config instance.
func Load(envFile string) (*Config, error) {
	cfg, err := Read(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without Validate, for tools that need only part of the
// configuration.
func Read(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// missing .env files are fine when the environment is set directly
		_ = godotenv.Load()
	}

	var errs []error
	parseDuration := func(key, fallback string) time.Duration {
		d, err := time.ParseDuration(getenvWithDefault(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return d
	}
	parseInt := func(key, fallback string) int {
		n, err := strconv.Atoi(getenvWithDefault(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return n
	}
	parseBool := func(key, fallback string) bool {
		b, err := strconv.ParseBool(getenvWithDefault(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return b
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Auth: AuthConfig{
			Username:     os.Getenv("DASHBOARD_USER"),
			Password:     os.Getenv("DASHBOARD_PASSWORD"),
			PasswordHash: os.Getenv("DASHBOARD_PASSWORD_HASH"),
			SessionTTL:   parseDuration("SESSION_TTL", "12h"),
			CookieSecure: parseBool("AUTH_COOKIE_SECURE", "false"),
			Store:        strings.ToLower(getenvWithDefault("SESSION_STORE", SessionStoreMemory)),
			Redis: RedisConfig{
				Addr:     os.Getenv("REDIS_ADDR"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       parseInt("REDIS_DB", "0"),
			},
		},
		Sources: SourcesConfig{
			Stock:             strings.ToLower(getenvWithDefault("STOCK_SOURCE", SourceCSV)),
			Billing:           strings.ToLower(getenvWithDefault("BILLING_SOURCE", SourceCSV)),
			StockCSVPath:      getenvWithDefault("STOCK_CSV_PATH", "data/bronze/estoque/dados_entrada_estoque.csv"),
			BillingCSVPath:    getenvWithDefault("BILLING_CSV_PATH", "data/bronze/financeiro/dados_saida_financeiro.csv"),
			StockSheetRange:   getenvWithDefault("STOCK_SHEET_RANGE", "Estoque!A1:P"),
			BillingSheetRange: getenvWithDefault("BILLING_SHEET_RANGE", "Financeiro!A1:H"),
		},
		Database: DatabaseConfig{
			Type:            strings.ToLower(getenvWithDefault("DB_TYPE", "sqlserver")),
			Host:            os.Getenv("DB_HOST"),
			Port:            os.Getenv("DB_PORT"),
			Name:            os.Getenv("DB_NAME"),
			User:            os.Getenv("DB_USER"),
			Password:        os.Getenv("DB_PASSWORD"),
			SSLMode:         getenvWithDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    parseInt("DB_MAX_OPEN_CONNS", "5"),
			MaxIdleConns:    parseInt("DB_MAX_IDLE_CONNS", "2"),
			ConnMaxLifetime: parseDuration("DB_CONN_MAX_LIFETIME", "30m"),
		},
		MongoDB: MongoDBConfig{
			URI:               os.Getenv("MONGODB_URI"),
			DBName:            getenvWithDefault("MONGODB_DB_NAME", "biomax"),
			StockCollection:   getenvWithDefault("MONGODB_STOCK_COLLECTION", "cereais_romaneio_entrada"),
			BillingCollection: getenvWithDefault("MONGODB_BILLING_COLLECTION", "nota_fiscal"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Cache: CacheConfig{
			SnapshotTTL: parseDuration("SNAPSHOT_TTL", "5m"),
		},
		Scheduler: SchedulerConfig{
			RefreshCronSchedule: os.Getenv("REFRESH_CRON_SCHEDULE"),
			ExtractCronSchedule: os.Getenv("EXTRACT_CRON_SCHEDULE"),
			Timezone:            getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
			BronzePath:          getenvWithDefault("BRONZE_PATH", "data/bronze"),
		},
		Alerts: AlertsConfig{
			WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
			Timeout:    parseDuration("ALERT_TIMEOUT", "10s"),
		},
		Metrics: MetricsConfig{
			Enabled: parseBool("METRICS_ENABLED", "true"),
		},
		LogLevel:     getenvWithDefault("LOG_LEVEL", "info"),
		SettingsPath: os.Getenv("DASHBOARD_SETTINGS_PATH"),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Auth.Username == "" {
		return errors.New("DASHBOARD_USER must be provided")
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return errors.New("DASHBOARD_PASSWORD or DASHBOARD_PASSWORD_HASH must be provided")
	}

	switch c.Auth.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Auth.Redis.Addr == "" {
			return errors.New("REDIS_ADDR must be provided when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE %q is not supported", c.Auth.Store)
	}

	for _, s := range []struct{ key, kind, csvPath, sheetRange, collection string }{
		{"STOCK_SOURCE", c.Sources.Stock, c.Sources.StockCSVPath, c.Sources.StockSheetRange, c.MongoDB.StockCollection},
		{"BILLING_SOURCE", c.Sources.Billing, c.Sources.BillingCSVPath, c.Sources.BillingSheetRange, c.MongoDB.BillingCollection},
	} {
		if err := c.validateSource(s.key, s.kind, s.csvPath, s.sheetRange, s.collection); err != nil {
			return err
		}
	}

	if c.Scheduler.ExtractCronSchedule != "" {
		if err := c.ValidateDatabase("EXTRACT_CRON_SCHEDULE is set"); err != nil {
			return err
		}
	}

	if c.Scheduler.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}

	return nil
}

func (c *Config) validateSource(key, kind, csvPath, sheetRange, collection string) error {
	switch kind {
	case SourceSQL:
		return c.ValidateDatabase(key + "=sql")
	case SourceCSV:
		if csvPath == "" {
			return fmt.Errorf("a csv path must be provided when %s=csv", key)
		}
	case SourceSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
		if sheetRange == "" {
			return fmt.Errorf("a sheet range must be provided when %s=sheets", key)
		}
	case SourceMongo:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if collection == "" {
			return fmt.Errorf("a collection must be provided when %s=mongo", key)
		}
	default:
		return fmt.Errorf("%s %q is not supported", key, kind)
	}
	return nil
}

// ValidateDatabase checks the DB_* settings; when names the setting that
// requires them.
func (c *Config) ValidateDatabase(when string) error {
	if c.Database.Type != "sqlite" && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST must be provided when %s", when)
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME must be provided when %s", when)
	}
	return nil
}

// UsesSQL reports whether either dashboard reads the relational database.
func (c *Config) UsesSQL() bool {
	return c.Sources.Stock == SourceSQL || c.Sources.Billing == SourceSQL
}

// Location resolves TIMEZONE.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Scheduler.Timezone)
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package relational

import (
	"fmt"
	"net/url"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"github.com/biomax/dashboard/internal/config"
)

// Dialect picks the gorm driver for DB_TYPE.
func Dialect(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "sqlserver":
		dsn := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     hostPort(cfg.Host, cfg.Port, "1433"),
			RawQuery: url.Values{"database": {cfg.Name}}.Encode(),
		}
		return sqlserver.Open(dsn.String()), nil
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			hostPort(cfg.Host, cfg.Port, "3306"),
			cfg.Name,
		)), nil
	case "postgres":
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.Name,
			port,
			cfg.SSLMode,
		)), nil
	case "sqlite":
		return sqlite.Open(cfg.Name), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.Type)
	}
}

func hostPort(host, port, fallback string) string {
	if port == "" {
		port = fallback
	}
	return host + ":" + port
}

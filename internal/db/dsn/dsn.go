// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/biluochun/biluochun/internal/config"
)

// Engines understood by DB.GormEngine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Create builds the mysql Data Source Name from the configuration.
func Create(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
		dbCfg.DB.Extras,
	)

	return out
}

// Postgres builds the key/value connection string understood by pgx.
// Extras are appended as given, e.g. "sslmode=disable TimeZone=UTC".
func Postgres(dbCfg *config.Config) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Name,
	)

	if extras := strings.TrimSpace(dbCfg.DB.Extras); extras != "" {
		out += " " + extras
	}

	return out
}

// PostgresURL builds the URL form used by the postgres session storage.
func PostgresURL(dbCfg *config.Config) string {
	out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
	)

	if extras := strings.TrimSpace(dbCfg.DB.Extras); extras != "" {
		out += "?" + strings.ReplaceAll(extras, " ", "&")
	}

	return out
}

// SQLite returns the database file path with foreign key enforcement switched on.
func SQLite(dbCfg *config.Config) string {
	out := dbCfg.DB.Name + "?_pragma=foreign_keys(1)"

	if extras := strings.TrimSpace(dbCfg.DB.Extras); extras != "" {
		out += "&" + extras
	}

	return out
}

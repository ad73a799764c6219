// Package db opens the configured database and migrates the schema.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/biluochun/biluochun/internal/config"
	"github.com/biluochun/biluochun/internal/db/dsn"
	"github.com/biluochun/biluochun/internal/db/models"
)

// ErrUnknownEngine is returned for an unsupported DB.GormEngine.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Dialector picks the gorm driver for the configured engine. An empty engine means mysql.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case dsn.EngineMySQL, "":
		return gormmysql.Open(dsn.Create(cfg)), nil
	case dsn.EnginePostgres:
		return gormpostgres.Open(dsn.Postgres(cfg)), nil
	case dsn.EngineSQLite:
		return sqlite.Open(dsn.SQLite(cfg)), nil
	default:
		return nil, errors.Wrap(ErrUnknownEngine, cfg.DB.GormEngine)
	}
}

// Open connects to the configured database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.DevMode {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to connect %s database", cfg.DB.GormEngine))
	}

	return db, nil
}

// Migrate creates or updates the tables of all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	log.Info().Int("models", len(models.All())).Msg("database schema migrated")

	return nil
}

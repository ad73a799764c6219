// Package dbtest opens migrated throw-away sqlite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/biluochun/biluochun/internal/db/models"
)

// Open creates a file backed sqlite database below t.TempDir with all models migrated.
// A file is used instead of :memory: because every pooled connection would get its own empty memory db.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, errDB := db.DB(); errDB == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

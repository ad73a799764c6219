package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biluochun/biluochun/internal/config"
	"github.com/biluochun/biluochun/internal/db/models"
)

func TestDialector(t *testing.T) {
	for engine, name := range map[string]string{
		"":         "mysql",
		"mysql":    "mysql",
		"postgres": "postgres",
		"sqlite":   "sqlite",
	} {
		d, err := Dialector(&config.Config{DB: config.DB{GormEngine: engine, Name: "x.db"}})
		require.NoError(t, err, engine)
		assert.Equal(t, name, d.Name(), engine)
	}

	_, err := Dialector(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		GormEngine: "sqlite",
		Name:       filepath.Join(t.TempDir(), "biluochun.db"),
	}}

	db, err := Open(cfg)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	// running it twice is a no-op
	require.NoError(t, Migrate(db))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}

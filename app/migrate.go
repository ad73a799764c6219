package app

import (
	"github.com/spf13/cobra"

	"github.com/biluochun/biluochun/internal/config"
	"github.com/biluochun/biluochun/internal/db"
	"github.com/biluochun/biluochun/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := config.ReadConfig(configPath)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err = logger.Init(c.Log); err != nil {
			return err //nolint:wrapcheck
		}

		gormDB, err := db.Open(&c)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return db.Migrate(gormDB) //nolint:wrapcheck
	},
}

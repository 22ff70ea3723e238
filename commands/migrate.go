package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"foodgram/db"
	"foodgram/logger"
)

var (
	migrateDown bool

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}
)

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back every migration")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	conn, err := db.Open(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Migrate closes conn
	if err := db.Migrate(conn, migrateDown); err != nil {
		return err
	}
	logger.Info().Msg("✅ Schema is up to date")
	return nil
}

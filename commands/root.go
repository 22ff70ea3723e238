// Package commands holds the foodgram command line.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"foodgram/config"
	"foodgram/logger"
)

var (
	envFile string

	rootCmd = &cobra.Command{
		Use:   "foodgram",
		Short: "Recipe sharing backend",
		Long: `foodgram serves the recipe API and builds shopping lists from users' carts.

Examples:
  foodgram serve                                   # Start the HTTP API
  foodgram migrate                                 # Create or update the database schema
  foodgram export --user 3 --format txt -o list.txt # Write a user's shopping list to a file`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded outside production")
	rootCmd.AddCommand(serveCmd, migrateCmd, exportCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the dotenv file, reads the configuration and sets up logging
func loadConfig() (*config.Config, error) {
	loaded := config.LoadDotEnv(envFile)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if loaded {
		logger.Info().Str("path", envFile).Msg("✓ Loaded environment variables (overriding system variables)")
	}
	return cfg, nil
}

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evalboard/evalboard/internal/infrastructure/config"
	"github.com/evalboard/evalboard/internal/infrastructure/database"
	"github.com/evalboard/evalboard/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates down to that version.

Examples:
  evalboard migrate      # Run all pending migrations
  evalboard migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	client, err := database.New(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer client.Close()

	ctx := context.Background()
	if len(args) == 1 {
		target, err := strconv.Atoi(args[0])
		if err != nil || target < 0 {
			return fmt.Errorf("invalid target version %q", args[0])
		}
		if err := migrate.DownTo(ctx, client.DB, target); err != nil {
			return err
		}
		fmt.Printf("Migrated down to version %d\n", target)
		return nil
	}

	applied, err := migrate.Up(ctx, client.DB)
	if err != nil {
		return err
	}
	fmt.Printf("Applied %d migrations\n", applied)
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evalboard/evalboard/internal/adapters/turso"
	"github.com/evalboard/evalboard/internal/infrastructure/config"
	"github.com/evalboard/evalboard/internal/infrastructure/database"
	"github.com/evalboard/evalboard/internal/migrate"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo dataset with experiment runs",
	Long: `Load a demo dataset with three experiments and their runs.

Does nothing when the database already holds a dataset.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
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
	if _, err := migrate.Up(ctx, client.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := turso.Seed(ctx, client.DB); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	fmt.Println("Seed data ready")
	return nil
}

package cmd

import (
	"fmt"

	"github.com/foogie-app/foogie/internal/cli"
	"github.com/foogie-app/foogie/internal/config"
	"github.com/foogie-app/foogie/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	dbPath := flagDB
	if dbPath == "" {
		dbPath = store.DefaultPath()
	}
	fmt.Printf("  Database:    %s\n", dbPath)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Base URL: %s\n", cfg.Server.BaseURL)
	fmt.Printf("    Bin ID:   %s\n", cli.MaskSecret(cfg.Server.BinID))
	if cfg.Server.SyncURL != "" {
		fmt.Printf("    Sync URL: %s\n", cfg.Server.SyncURL)
	}
	fmt.Printf("    Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Println()

	fmt.Println("  [Recipes]")
	fmt.Printf("    Default count: %d\n", cfg.Recipes.DefaultCount)
	if cfg.Recipes.DietaryRestrictions != "" {
		fmt.Printf("    Diet:          %s\n", cfg.Recipes.DietaryRestrictions)
	}
	if cfg.Recipes.Cuisine != "" {
		fmt.Printf("    Cuisine:       %s\n", cfg.Recipes.Cuisine)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Poll interval: %s\n", cfg.PollInterval())
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/foogie-app/foogie/internal/config"
	"github.com/foogie-app/foogie/internal/settings"
	"github.com/foogie-app/foogie/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	cur, err := settings.Load(ctx, db)
	if err != nil {
		return err
	}

	vals := tui.NewSetupValues(cfg, cur)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	vals.Apply(&cfg)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	if err := settings.Save(ctx, db, vals.SettingsFields()); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `foogie` to see today's budget, or `foogie tui` for the dashboard.")
	fmt.Println()
	return nil
}

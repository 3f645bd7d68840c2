package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/foogie-app/foogie/internal/cli"

	"github.com/spf13/cobra"
)

var fridgeCmd = &cobra.Command{
	Use:   "fridge",
	Short: "Show fridge inventory, soonest expiry first",
	RunE:  runFridge,
}

func init() {
	rootCmd.AddCommand(fridgeCmd)
}

func runFridge(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := requireBinID(e.cfg); err != nil {
		return err
	}

	inv, err := e.client.Fridge(ctx, e.cfg.Server.BinID)
	if err != nil {
		return err
	}

	fmt.Println()
	if len(inv.Items) == 0 {
		fmt.Println("  Your fridge is empty.")
		fmt.Println()
		return nil
	}
	fmt.Print(cli.RenderTable(cli.FridgeTable(inv.Items, time.Now())))
	fmt.Printf("  %d items\n\n", len(inv.Items))
	return nil
}

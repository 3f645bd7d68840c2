package cmd

import (
	"context"
	"fmt"

	"github.com/foogie-app/foogie/internal/cli"

	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's calorie budget and meals",
	RunE:  runToday,
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func runToday(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	sum, err := e.ledger.Summary(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	if e.ledger.Settings().ShowCalorieProgress {
		fmt.Println(cli.RenderTitle("TODAY"))
		fmt.Println(cli.RenderBudgetBanner(sum))
	}

	if len(sum.Meals) == 0 {
		fmt.Println("  No meals logged yet today.")
		fmt.Println()
		return nil
	}
	fmt.Print(cli.RenderTable(cli.MealsTable(sum.Meals)))
	fmt.Println()
	return nil
}

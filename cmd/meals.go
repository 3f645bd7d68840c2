package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/foogie-app/foogie/internal/cli"

	"github.com/spf13/cobra"
)

var mealsCmd = &cobra.Command{
	Use:   "meals",
	Short: "List today's meals",
	RunE:  runMeals,
}

var mealsRmCmd = &cobra.Command{
	Use:     "rm INDEX",
	Aliases: []string{"remove"},
	Short:   "Remove a meal by its index from `foogie meals`",
	Args:    cobra.ExactArgs(1),
	RunE:    runMealsRm,
}

func init() {
	mealsCmd.AddCommand(mealsRmCmd)
	rootCmd.AddCommand(mealsCmd)
}

func runMeals(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	day, err := e.ledger.Today(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Meals for %s\n\n", day.Date)
	if len(day.Meals) == 0 {
		fmt.Println("  No meals logged yet today.")
		fmt.Println()
		return nil
	}
	fmt.Print(cli.RenderTable(cli.MealsTable(day.Meals)))
	fmt.Println()
	return nil
}

func runMealsRm(_ *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}

	ctx := context.Background()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	ok, err := e.ledger.RemoveMeal(ctx, idx)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no meal at that index; see `foogie meals`")
	}
	fmt.Printf("  Removed meal %d\n", idx)
	return nil
}

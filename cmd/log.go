package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/foogie-app/foogie/internal/cli"
	"github.com/foogie-app/foogie/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagLogProtein  float64
	flagLogCarbs    float64
	flagLogFats     float64
	flagLogServings float64
)

var logCmd = &cobra.Command{
	Use:   "log NAME CALORIES",
	Short: "Log a meal for today",
	Args:  cobra.ExactArgs(2),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().Float64Var(&flagLogProtein, "protein", 0, "Protein in grams")
	logCmd.Flags().Float64Var(&flagLogCarbs, "carbs", 0, "Carbohydrates in grams")
	logCmd.Flags().Float64Var(&flagLogFats, "fats", 0, "Fats in grams")
	logCmd.Flags().Float64Var(&flagLogServings, "servings", 1, "Number of servings")
	rootCmd.AddCommand(logCmd)
}

func runLog(_ *cobra.Command, args []string) error {
	name := args[0]
	cal, err := strconv.ParseFloat(args[1], 64)
	if err != nil || cal < 0 {
		return fmt.Errorf("invalid calories %q: want a non-negative number", args[1])
	}

	ctx := context.Background()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	meal, err := e.ledger.AppendMeal(ctx, name, cal, model.Nutrients{
		Protein:  flagLogProtein,
		Carbs:    flagLogCarbs,
		Fats:     flagLogFats,
		Servings: flagLogServings,
	})
	if err != nil {
		return err
	}

	sum, err := e.ledger.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("  Logged %s (%s)\n", meal.Name, cli.FormatCalories(meal.Calories))
	if sum.IsOverGoal {
		fmt.Printf("  Over goal by %s\n", cli.FormatCalories(-sum.Remaining))
	} else {
		fmt.Printf("  Remaining today: %s\n", cli.FormatCalories(sum.Remaining))
	}
	return nil
}

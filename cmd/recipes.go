package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/foogie-app/foogie/internal/api"
	"github.com/foogie-app/foogie/internal/budget"
	"github.com/foogie-app/foogie/internal/cli"
	"github.com/foogie-app/foogie/internal/config"
	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/reconcile"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagRecipeCount   int
	flagRecipeDiet    string
	flagRecipeCuisine string
	flagUseYes        bool
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Generate recipes from your fridge sized to your remaining budget",
	RunE:  runRecipes,
}

var recipesUseCmd = &cobra.Command{
	Use:   "use N",
	Short: "Cook recipe N from the last list: update the fridge and log the meal",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipesUse,
}

var recipesResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Finish a recipe whose fridge update succeeded but was not logged",
	RunE:  runRecipesResume,
}

func init() {
	recipesCmd.Flags().IntVar(&flagRecipeCount, "count", 0, "Number of recipes (default from config)")
	recipesCmd.Flags().StringVar(&flagRecipeDiet, "diet", "", "Dietary restrictions")
	recipesCmd.Flags().StringVar(&flagRecipeCuisine, "cuisine", "", "Cuisine preference")

	recipesUseCmd.Flags().BoolVarP(&flagUseYes, "yes", "y", false, "Log the meal even if no fridge items match")

	recipesCmd.AddCommand(recipesUseCmd)
	recipesCmd.AddCommand(recipesResumeCmd)
	rootCmd.AddCommand(recipesCmd)
}

func runRecipes(_ *cobra.Command, _ []string) error {
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

	req := api.RecipeRequest{
		NumRecipes:            e.cfg.Recipes.DefaultCount,
		DietaryRestrictions:   e.cfg.Recipes.DietaryRestrictions,
		CuisinePreference:     e.cfg.Recipes.Cuisine,
		TargetCaloriesPerMeal: budget.TargetPerMeal(sum, config.DefaultMealTarget),
	}
	if flagRecipeCount > 0 {
		req.NumRecipes = flagRecipeCount
	}
	if flagRecipeDiet != "" {
		req.DietaryRestrictions = flagRecipeDiet
	}
	if flagRecipeCuisine != "" {
		req.CuisinePreference = flagRecipeCuisine
	}

	progress("  Generating %d recipes around %s per meal...\n",
		req.NumRecipes, cli.FormatCalories(float64(req.TargetCaloriesPerMeal)))

	recipes, err := e.client.GenerateRecipes(ctx, req)
	if errors.Is(err, api.ErrNoInventory) {
		return errors.New("your fridge is empty; add some items before generating recipes")
	}
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Println("  No recipes came back. Try again or loosen your preferences.")
		return nil
	}

	if err := reconcile.SaveRecipes(ctx, e.db, recipes); err != nil {
		e.log.Printf("recipes: %v", err)
	}

	fmt.Println()
	for i, r := range recipes {
		fmt.Println(cli.RenderRecipeCard(i+1, r, sum.Remaining))
	}
	fmt.Println("  Made one? Run `foogie recipes use N`.")
	return nil
}

func runRecipesUse(_ *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid recipe number %q", args[0])
	}

	ctx := context.Background()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := requireBinID(e.cfg); err != nil {
		return err
	}
	if err := reconcile.CheckNoPending(ctx, e.db); err != nil {
		if errors.Is(err, reconcile.ErrPending) {
			return fmt.Errorf("%w; run `foogie recipes resume` first", err)
		}
		return err
	}

	recipes, err := reconcile.LastRecipes(ctx, e.db)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		return errors.New("no saved recipes; run `foogie recipes` first")
	}
	if n < 1 || n > len(recipes) {
		return fmt.Errorf("recipe number must be between 1 and %d", len(recipes))
	}

	res, err := e.reconciler().Use(ctx, recipes[n-1])
	return reportUse(ctx, e, res, err)
}

func runRecipesResume(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	a, err := reconcile.LoadPending(ctx, e.db)
	if err != nil {
		return err
	}
	if a == nil {
		fmt.Println("  Nothing to resume.")
		return nil
	}

	progress("  Resuming %q from %s\n", a.Recipe.Name, a.Stage)
	res, err := e.reconciler().Resume(ctx, a)
	return reportUse(ctx, e, res, err)
}

func (e *env) reconciler() *reconcile.Reconciler {
	return reconcile.New(reconcile.Config{
		Consumer: e.client,
		Ledger:   e.ledger,
		BinID:    e.cfg.Server.BinID,
		Confirm:  confirmUnmatched,
		Logger:   e.log,
	})
}

// confirmUnmatched asks before logging a recipe that uses nothing from the
// fridge. --yes answers for the user.
func confirmUnmatched(_ context.Context, r model.Recipe) (bool, error) {
	if flagUseYes {
		return true, nil
	}
	ok := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("No fridge items matched %q.", r.Name)).
		Description("Log the meal anyway without updating the fridge?").
		Affirmative("Log it").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

// reportUse prints the outcome of a reconcile run and keeps the pending
// record in step with it.
func reportUse(ctx context.Context, e *env, res *reconcile.Result, err error) error {
	var se *reconcile.StageError
	switch {
	case errors.Is(err, reconcile.ErrDeclined):
		fmt.Println("  Cancelled; nothing was logged.")
		return nil
	case errors.As(err, &se) && se.Inconsistent():
		if perr := reconcile.SavePending(ctx, e.db, se.Attempt); perr != nil {
			e.log.Printf("recipes: %v", perr)
		}
		return fmt.Errorf("fridge updated but the meal was not logged (%w); run `foogie recipes resume`", se.Err)
	case err != nil:
		return err
	}

	if cerr := reconcile.ClearPending(ctx, e.db); cerr != nil {
		e.log.Printf("recipes: %v", cerr)
	}

	if res.Skipped() {
		fmt.Println("  Fridge unchanged")
	} else {
		fmt.Printf("  Fridge updated: %s\n", res.Consumed)
	}
	fmt.Printf("  Logged %s (%s)\n", res.Meal.Name, cli.FormatCalories(res.Meal.Calories))
	return nil
}

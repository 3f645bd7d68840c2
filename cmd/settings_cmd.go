package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/foogie-app/foogie/internal/cli"
	"github.com/foogie-app/foogie/internal/settings"
	"github.com/foogie-app/foogie/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagSetDailyCalories string
	flagSetDailyMeals    string
	flagSetShowProgress  bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show daily goals",
	RunE:  runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update daily goals",
	Long:  "Update daily goals. Values are stored as given; anything that is not a positive number falls back to the previous value when read.",
	RunE:  runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&flagSetDailyCalories, "daily-calories", "", "Daily calorie goal")
	settingsSetCmd.Flags().StringVar(&flagSetDailyMeals, "daily-meals", "", "Meals per day")
	settingsSetCmd.Flags().BoolVar(&flagSetShowProgress, "show-progress", true, "Show the calorie progress banner")
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	s, err := settings.Load(context.Background(), db)
	if err != nil {
		return err
	}

	fmt.Printf("  Settings record: %s in %s\n", store.KeySettings, db.Path())
	fmt.Println()
	fmt.Printf("    Daily calories: %s\n", cli.FormatNumber(int64(s.DailyCalories)))
	fmt.Printf("    Meals per day:  %d\n", s.DailyMeals)
	fmt.Printf("    Show progress:  %v\n", s.ShowCalorieProgress)
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	fields := map[string]any{}
	if cmd.Flags().Changed("daily-calories") {
		fields[settings.FieldDailyCalories] = flagSetDailyCalories
	}
	if cmd.Flags().Changed("daily-meals") {
		fields[settings.FieldDailyMeals] = flagSetDailyMeals
	}
	if cmd.Flags().Changed("show-progress") {
		fields[settings.FieldShowCalorieProgress] = flagSetShowProgress
	}
	if len(fields) == 0 {
		return errors.New("nothing to set; see `foogie settings set --help`")
	}

	ctx := context.Background()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := settings.Save(ctx, e.db, fields); err != nil {
		return err
	}
	s := e.ledger.UpdateSettings(fields)

	fmt.Println("  Settings saved")
	fmt.Printf("    Daily calories: %s\n", cli.FormatNumber(int64(s.DailyCalories)))
	fmt.Printf("    Meals per day:  %d\n", s.DailyMeals)
	fmt.Printf("    Show progress:  %v\n", s.ShowCalorieProgress)
	return nil
}

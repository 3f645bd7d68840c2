package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/foogie-app/foogie/internal/config"
	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/settings"
	"github.com/foogie-app/foogie/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// SetupValues backs the first-run form. Goals are kept as entered and
// coerced when read back, like any other stored settings value.
type SetupValues struct {
	DailyCalories string
	DailyMeals    string
	BaseURL       string
	BinID         string
	Theme         string
}

// NewSetupValues seeds the setup form from the current config and goals.
func NewSetupValues(cfg config.Config, s model.Settings) *SetupValues {
	return &SetupValues{
		DailyCalories: strconv.Itoa(s.DailyCalories),
		DailyMeals:    strconv.Itoa(s.DailyMeals),
		BaseURL:       cfg.Server.BaseURL,
		BinID:         cfg.Server.BinID,
		Theme:         cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the first-run form writing into v.
func NewSetupForm(v *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to foogie").
				Description("Set your daily goals and point foogie at your fridge."),
			huh.NewInput().
				Title("Daily calorie goal").
				Placeholder(strconv.Itoa(model.DefaultDailyCalories)).
				Value(&v.DailyCalories).
				Validate(validatePositive),
			huh.NewInput().
				Title("Meals per day").
				Placeholder(strconv.Itoa(model.DefaultDailyMeals)).
				Value(&v.DailyMeals).
				Validate(validatePositive),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Recipe service URL").
				Placeholder(config.DefaultBaseURL).
				Value(&v.BaseURL),
			huh.NewInput().
				Title("Fridge bin ID").
				Description("Identifies your inventory on the service.").
				Value(&v.BinID),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
		),
	).WithTheme(huh.ThemeCharm())
}

// Apply copies the server and appearance answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	if u := strings.TrimSpace(v.BaseURL); u != "" {
		cfg.Server.BaseURL = strings.TrimRight(u, "/")
	}
	cfg.Server.BinID = strings.TrimSpace(v.BinID)
	if theme.Valid(v.Theme) {
		cfg.Appearance.Theme = v.Theme
	}
}

// SettingsFields returns the goal answers as a settings partial.
func (v SetupValues) SettingsFields() map[string]any {
	return map[string]any{
		settings.FieldDailyCalories: strings.TrimSpace(v.DailyCalories),
		settings.FieldDailyMeals:    strings.TrimSpace(v.DailyMeals),
	}
}

var errNotPositive = errors.New("enter a whole number greater than zero")

func validatePositive(s string) error {
	if settings.CoerceInt(s, 0) <= 0 {
		return errNotPositive
	}
	return nil
}

func saveSetupCmd(deps Deps, v SetupValues) tea.Cmd {
	return func() tea.Msg {
		cfg := deps.Config
		v.Apply(&cfg)
		if err := config.Save(cfg); err != nil {
			return settingsSavedMsg{err: err}
		}
		theme.SetActive(cfg.Appearance.Theme)

		fields := v.SettingsFields()
		if err := settings.Save(context.Background(), deps.Store, fields); err != nil {
			return settingsSavedMsg{err: err}
		}
		return settingsSavedMsg{
			settings: deps.Ledger.UpdateSettings(fields),
			cfg:      &cfg,
			note:     "Setup saved to " + config.Path(),
		}
	}
}

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/foogie-app/foogie/internal/cli"
	"github.com/foogie-app/foogie/internal/config"
	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/settings"
	"github.com/foogie-app/foogie/internal/tui/components"
	"github.com/foogie-app/foogie/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// settingsState tracks the settings tab state.
type settingsState struct {
	form *huh.Form
	vals *settingsValues
}

type settingsValues struct {
	DailyCalories string
	DailyMeals    string
	ShowProgress  bool
}

type settingsSavedMsg struct {
	settings model.Settings
	cfg      *config.Config
	note     string
	err      error
}

func newSettingsForm(v *settingsValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily calorie goal").
				Value(&v.DailyCalories).
				Validate(validatePositive),
			huh.NewInput().
				Title("Meals per day").
				Value(&v.DailyMeals).
				Validate(validatePositive),
			huh.NewConfirm().
				Title("Show calorie progress").
				Affirmative("Show").
				Negative("Hide").
				Value(&v.ShowProgress),
		),
	).WithTheme(huh.ThemeCharm())
}

// fields returns the form answers as a settings partial, stored as entered.
func (v settingsValues) fields() map[string]any {
	return map[string]any{
		settings.FieldDailyCalories:       strings.TrimSpace(v.DailyCalories),
		settings.FieldDailyMeals:          strings.TrimSpace(v.DailyMeals),
		settings.FieldShowCalorieProgress: v.ShowProgress,
	}
}

func saveSettingsCmd(deps Deps, v settingsValues) tea.Cmd {
	return func() tea.Msg {
		fields := v.fields()
		if err := settings.Save(context.Background(), deps.Store, fields); err != nil {
			return settingsSavedMsg{err: err}
		}
		return settingsSavedMsg{settings: deps.Ledger.UpdateSettings(fields), note: "Settings saved"}
	}
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key != "enter" && key != "e" {
		return a, nil, false
	}
	cur := a.deps.Ledger.Settings()
	a.settings.vals = &settingsValues{
		DailyCalories: strconv.Itoa(cur.DailyCalories),
		DailyMeals:    strconv.Itoa(cur.DailyMeals),
		ShowProgress:  cur.ShowCalorieProgress,
	}
	a.settings.form = newSettingsForm(a.settings.vals)
	return a, a.settings.form.Init(), true
}

func (a App) updateSettingsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.settings.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.settings.form = f
	}

	switch a.settings.form.State {
	case huh.StateCompleted:
		vals := *a.settings.vals
		a.settings.form = nil
		return a, saveSettingsCmd(a.deps, vals)
	case huh.StateAborted:
		a.settings.form = nil
		return a, nil
	}
	return a, cmd
}

func (a App) handleSettingsSaved(msg settingsSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.setStatus(fmt.Sprintf("Save failed: %v", msg.err), true)
		return a, nil
	}
	if msg.cfg != nil {
		a.deps.Config = *msg.cfg
	}
	a.setStatus(msg.note, false)
	a.refreshing = true
	return a, loadSummaryCmd(a.deps.Ledger)
}

func (a App) renderSettingsTab(cw int) string {
	if a.settings.form != nil {
		return components.ContentCard("Edit goals", a.settings.form.View(), cw)
	}

	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	s := a.deps.Ledger.Settings()
	cfg := a.deps.Config

	show := "hidden"
	if s.ShowCalorieProgress {
		show = "shown"
	}

	rows := []struct{ label, value string }{
		{"Daily calorie goal", cli.FormatCalories(float64(s.DailyCalories))},
		{"Meals per day", strconv.Itoa(s.DailyMeals)},
		{"Calorie progress", show},
		{"", ""},
		{"Recipe service", cfg.Server.BaseURL},
		{"Fridge bin ID", cli.MaskSecret(cfg.Server.BinID)},
		{"Recipes per request", strconv.Itoa(cfg.Recipes.DefaultCount)},
		{"Theme", cfg.Appearance.Theme},
		{"Config file", config.Path()},
	}

	var b strings.Builder
	for _, r := range rows {
		if r.label == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-20s", r.label)), valueStyle.Render(r.value))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press Enter to edit goals. Server settings live in the config file (`foogie setup`)."))

	return components.ContentCard("Settings", b.String(), cw)
}

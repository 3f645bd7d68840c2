package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/foogie-app/foogie/internal/cli"
	"github.com/foogie-app/foogie/internal/ledger"
	"github.com/foogie-app/foogie/internal/tui/components"
	"github.com/foogie-app/foogie/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// todayState tracks the meal list selection.
type todayState struct {
	cursor int
}

func (s *todayState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

func (s *todayState) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

type mealRemovedMsg struct {
	name string
	ok   bool
	err  error
}

func removeMealCmd(l *ledger.Service, index int, name string) tea.Cmd {
	return func() tea.Msg {
		ok, err := l.RemoveMeal(context.Background(), index)
		return mealRemovedMsg{name: name, ok: ok, err: err}
	}
}

func (a App) updateTodayKeys(key string) (tea.Model, tea.Cmd, bool) {
	meals := a.summary.Meals
	switch key {
	case "j", "down":
		a.today.move(1, len(meals))
		return a, nil, true
	case "k", "up":
		a.today.move(-1, len(meals))
		return a, nil, true
	case "d", "delete":
		if len(meals) == 0 {
			return a, nil, true
		}
		idx := a.today.cursor
		return a, removeMealCmd(a.deps.Ledger, idx, meals[idx].Name), true
	}
	return a, nil, false
}

func (a App) handleMealRemoved(msg mealRemovedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		a.setStatus(fmt.Sprintf("Delete failed: %v", msg.err), true)
	case !msg.ok:
		// The ledger changed underneath us (rollover or another process).
		a.setStatus("Meal no longer exists", true)
	default:
		a.setStatus(fmt.Sprintf("Removed %s", msg.name), false)
	}
	a.refreshing = true
	return a, loadSummaryCmd(a.deps.Ledger)
}

func (a App) renderTodayTab(cw int) string {
	t := theme.Active
	sum := a.summary

	var b strings.Builder

	if a.deps.Ledger.Settings().ShowCalorieProgress {
		remaining := components.Metric{
			Label: "Remaining",
			Value: cli.FormatCalories(sum.Remaining),
			Color: t.Green,
		}
		if sum.IsOverGoal {
			remaining = components.Metric{
				Label: "Over goal",
				Value: cli.FormatCalories(-sum.Remaining),
				Color: t.Red,
			}
		}
		perMeal := components.Metric{Label: "Per meal", Value: "n/a", Note: "no meals left"}
		if sum.MealsLeft > 0 {
			perMeal = components.Metric{
				Label: "Per meal",
				Value: cli.FormatCalories(float64(sum.CaloriesPerMeal)),
				Note:  fmt.Sprintf("%d meal(s) left", sum.MealsLeft),
			}
		}

		b.WriteString(components.MetricCardRow([]components.Metric{
			{Label: "Daily goal", Value: cli.FormatCalories(float64(sum.Goal))},
			{Label: "Consumed", Value: cli.FormatCalories(sum.Consumed), Color: t.Blue},
			remaining,
			perMeal,
		}, cw))
		b.WriteString("\n\n ")

		barW := cw - 20
		if barW < 10 {
			barW = 10
		}
		b.WriteString(components.CalorieBar("Calories", sum.PercentConsumed, 10, barW))
		b.WriteString("\n\n")
	}

	b.WriteString(components.ContentCard("Today's meals", a.renderMealList(cw), cw))
	return b.String()
}

func (a App) renderMealList(cw int) string {
	t := theme.Active
	meals := a.summary.Meals
	if len(meals) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("No meals logged yet. Use a recipe or `foogie log`.")
	}

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	nameW := components.CardInnerWidth(cw) - 40
	if nameW < 12 {
		nameW = 12
	}

	var lines []string
	for i, m := range meals {
		line := fmt.Sprintf("%-*s %5s %10s  P %-6s C %-6s F %-6s",
			nameW, truncStr(m.Name, nameW),
			cli.FormatTime(m.Timestamp),
			cli.FormatCalories(m.Calories),
			cli.FormatGrams(m.Protein), cli.FormatGrams(m.Carbs), cli.FormatGrams(m.Fats))
		if i == a.today.cursor {
			lines = append(lines, selStyle.Render("▸ "+line))
		} else {
			lines = append(lines, rowStyle.Render("  "+line))
		}
	}
	lines = append(lines, "", dimStyle.Render(fmt.Sprintf("  Macros today: P %s  C %s  F %s",
		cli.FormatGrams(a.summary.Nutrition.Protein),
		cli.FormatGrams(a.summary.Nutrition.Carbs),
		cli.FormatGrams(a.summary.Nutrition.Fats))))
	return strings.Join(lines, "\n")
}

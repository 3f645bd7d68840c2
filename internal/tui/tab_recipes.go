package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foogie-app/foogie/internal/api"
	"github.com/foogie-app/foogie/internal/budget"
	"github.com/foogie-app/foogie/internal/cli"
	"github.com/foogie-app/foogie/internal/config"
	"github.com/foogie-app/foogie/internal/consume"
	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/reconcile"
	"github.com/foogie-app/foogie/internal/store"
	"github.com/foogie-app/foogie/internal/tui/components"
	"github.com/foogie-app/foogie/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// recipesState tracks the recipes tab.
type recipesState struct {
	list       []model.Recipe
	cursor     int
	used       map[int]bool
	generating bool
	using      bool

	// Confirmation for recipes whose ingredients match nothing in the fridge.
	confirm    *huh.Form
	confirmYes *bool
	confirmIdx int
}

func newRecipesState() recipesState {
	return recipesState{used: make(map[int]bool)}
}

func (s *recipesState) move(delta int) {
	s.cursor += delta
	if s.cursor >= len(s.list) {
		s.cursor = len(s.list) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

type recipesMsg struct {
	recipes []model.Recipe
	cached  bool
	err     error
}

type recipeUsedMsg struct {
	index int
	res   *reconcile.Result
	err   error
}

func loadCachedRecipesCmd(kv store.KV) tea.Cmd {
	return func() tea.Msg {
		recipes, err := reconcile.LastRecipes(context.Background(), kv)
		return recipesMsg{recipes: recipes, cached: true, err: err}
	}
}

// recipeRequest sizes a request to the current per-meal budget.
func recipeRequest(cfg config.Config, sum budget.Summary) api.RecipeRequest {
	return api.RecipeRequest{
		NumRecipes:            cfg.Recipes.DefaultCount,
		DietaryRestrictions:   cfg.Recipes.DietaryRestrictions,
		CuisinePreference:     cfg.Recipes.Cuisine,
		TargetCaloriesPerMeal: budget.TargetPerMeal(sum, config.DefaultMealTarget),
	}
}

func generateRecipesCmd(deps Deps, req api.RecipeRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		recipes, err := deps.Recipes.GenerateRecipes(ctx, req)
		if err != nil {
			return recipesMsg{err: err}
		}
		if err := reconcile.SaveRecipes(ctx, deps.Store, recipes); err != nil {
			deps.Logger.Printf("tui: %v", err)
		}
		return recipesMsg{recipes: recipes}
	}
}

func useRecipeCmd(deps Deps, index int, recipe model.Recipe, confirmed bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		r := reconcile.New(reconcile.Config{
			Consumer: deps.Consumer,
			Ledger:   deps.Ledger,
			BinID:    deps.Config.Server.BinID,
			Confirm: func(context.Context, model.Recipe) (bool, error) {
				return confirmed, nil
			},
			Logger: deps.Logger,
		})

		if err := reconcile.CheckNoPending(ctx, deps.Store); err != nil {
			return recipeUsedMsg{index: index, err: err}
		}

		res, err := r.Use(ctx, recipe)
		var se *reconcile.StageError
		if errors.As(err, &se) && se.Inconsistent() {
			if perr := reconcile.SavePending(ctx, deps.Store, se.Attempt); perr != nil {
				deps.Logger.Printf("tui: %v", perr)
			}
		}
		return recipeUsedMsg{index: index, res: res, err: err}
	}
}

func newConfirmForm(recipe model.Recipe, yes *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("No fridge items matched %q.", recipe.Name)).
				Description("Log the meal anyway without updating the fridge?").
				Affirmative("Log it").
				Negative("Cancel").
				Value(yes),
		),
	).WithTheme(huh.ThemeCharm())
}

func (a App) updateRecipesKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.recipes.move(1)
		return a, nil, true
	case "k", "up":
		a.recipes.move(-1)
		return a, nil, true
	case "g":
		if a.recipes.generating {
			return a, nil, true
		}
		a.recipes.generating = true
		a.setStatus("Generating recipes...", false)
		return a, generateRecipesCmd(a.deps, recipeRequest(a.deps.Config, a.summary)), true
	case "u", "enter":
		if a.recipes.using || len(a.recipes.list) == 0 {
			return a, nil, true
		}
		idx := a.recipes.cursor
		if a.recipes.used[idx] {
			a.setStatus("Already logged this recipe", false)
			return a, nil, true
		}
		recipe := a.recipes.list[idx]

		if len(consume.Extract(recipe.InventoryItemsUsed, a.deps.Logger)) == 0 {
			yes := false
			a.recipes.confirmYes = &yes
			a.recipes.confirmIdx = idx
			a.recipes.confirm = newConfirmForm(recipe, a.recipes.confirmYes)
			return a, a.recipes.confirm.Init(), true
		}

		a.recipes.using = true
		a.setStatus(fmt.Sprintf("Using %s...", recipe.Name), false)
		return a, useRecipeCmd(a.deps, idx, recipe, false), true
	}
	return a, nil, false
}

func (a App) updateConfirmForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.recipes.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.recipes.confirm = f
	}

	switch a.recipes.confirm.State {
	case huh.StateCompleted:
		a.recipes.confirm = nil
		if !*a.recipes.confirmYes {
			a.setStatus("Cancelled", false)
			return a, nil
		}
		idx := a.recipes.confirmIdx
		a.recipes.using = true
		return a, useRecipeCmd(a.deps, idx, a.recipes.list[idx], true)
	case huh.StateAborted:
		a.recipes.confirm = nil
		a.setStatus("Cancelled", false)
		return a, nil
	}
	return a, cmd
}

func (a App) handleRecipes(msg recipesMsg) (tea.Model, tea.Cmd) {
	if msg.cached {
		if msg.err == nil && len(a.recipes.list) == 0 {
			a.recipes.list = msg.recipes
		}
		return a, nil
	}

	a.recipes.generating = false
	switch {
	case errors.Is(msg.err, api.ErrNoInventory):
		a.setStatus("Your fridge is empty. Add items first.", true)
		return a, nil
	case msg.err != nil:
		a.setStatus(fmt.Sprintf("Failed to generate recipes: %v", msg.err), true)
		return a, nil
	}

	a.recipes.list = msg.recipes
	a.recipes.cursor = 0
	a.recipes.used = make(map[int]bool)
	if len(msg.recipes) == 0 {
		a.setStatus("No recipes generated. Try different preferences.", false)
	} else {
		a.setStatus(fmt.Sprintf("%d recipe(s) generated", len(msg.recipes)), false)
	}
	return a, nil
}

func (a App) handleRecipeUsed(msg recipeUsedMsg) (tea.Model, tea.Cmd) {
	a.recipes.using = false

	var se *reconcile.StageError
	switch {
	case errors.Is(msg.err, reconcile.ErrDeclined):
		a.setStatus("Cancelled", false)
		return a, nil
	case errors.Is(msg.err, reconcile.ErrPending):
		a.setStatus("A cooked recipe was never logged. Run `foogie recipes resume` first.", true)
		return a, nil
	case errors.As(msg.err, &se) && se.Inconsistent():
		a.recipes.used[msg.index] = true
		a.setStatus("Fridge updated but the meal was not logged. Run `foogie recipes resume`.", true)
		return a, nil
	case msg.err != nil:
		a.setStatus(fmt.Sprintf("Error: %v", msg.err), true)
		return a, nil
	}

	a.recipes.used[msg.index] = true
	res := msg.res
	note := fmt.Sprintf("Logged %s (%s)", res.Recipe.Name, cli.FormatCalories(res.Meal.Calories))
	if !res.Skipped() {
		note += ", removed " + res.Consumed.String()
	}
	a.setStatus(note, false)
	a.refreshing = true
	return a, loadSummaryCmd(a.deps.Ledger)
}

func (a App) renderRecipesTab(cw int) string {
	t := theme.Active

	if a.recipes.confirm != nil {
		return components.ContentCard("Confirm", a.recipes.confirm.View(), cw)
	}

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	if a.recipes.generating {
		return "\n  " + a.spinner.View() + dimStyle.Render(fmt.Sprintf(" Generating recipes for ~%s per meal...",
			cli.FormatCalories(float64(budget.TargetPerMeal(a.summary, config.DefaultMealTarget)))))
	}
	if len(a.recipes.list) == 0 {
		return "\n" + dimStyle.Render("  No recipes yet. Press g to generate some from your fridge.")
	}

	listW := cw / 3
	if listW < 24 {
		listW = 24
	}
	detailW := cw - listW

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	usedStyle := lipgloss.NewStyle().Foreground(t.Green)

	nameW := components.CardInnerWidth(listW) - 4
	var rows []string
	for i, r := range a.recipes.list {
		mark := "  "
		if a.recipes.used[i] {
			mark = usedStyle.Render("✓ ")
		}
		name := truncStr(r.Name, nameW)
		if i == a.recipes.cursor {
			rows = append(rows, mark+selStyle.Render(name))
		} else {
			rows = append(rows, mark+rowStyle.Render(name))
		}
	}

	list := components.ContentCard("Suggestions", strings.Join(rows, "\n"), listW)
	detail := components.ContentCard("", a.renderRecipeDetail(a.recipes.list[a.recipes.cursor], detailW), detailW)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

func (a App) renderRecipeDetail(r model.Recipe, w int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)

	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	goodStyle := lipgloss.NewStyle().Foreground(t.Green)
	badStyle := lipgloss.NewStyle().Foreground(t.Red)

	urgencyColor := t.Green
	switch r.UrgencyLevel() {
	case model.UrgencyHigh:
		urgencyColor = t.Red
	case model.UrgencyMedium:
		urgencyColor = t.Orange
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncStr(r.Name, inner-10)))
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Foreground(urgencyColor).Render("[" + strings.ToUpper(r.UrgencyLevel()) + "]"))
	b.WriteString("\n")

	meta := []string{cli.FormatServings(r.ServingCount())}
	if r.CookingTime != "" {
		meta = append(meta, r.CookingTime)
	}
	b.WriteString(dimStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n")

	if r.NutritionPerServing != nil {
		total := r.TotalCalories()
		fit := goodStyle.Render("fits budget")
		if !r.FitsBudget(a.summary.Remaining) {
			fit = badStyle.Render("over budget")
		}
		fmt.Fprintf(&b, "%s total · %s\n", cli.FormatCalories(total), fit)
	}
	if r.UrgencyReason != "" {
		b.WriteString(dimStyle.Render(truncStr(r.UrgencyReason, inner)))
		b.WriteString("\n")
	}

	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n" + labelStyle.Render(title) + "\n")
		for _, it := range items {
			b.WriteString("• " + truncStr(it, inner-2) + "\n")
		}
	}
	list("From your fridge", r.InventoryItemsUsed)
	list("Also needed", r.AdditionalIngredients)

	if len(r.Instructions) > 0 {
		b.WriteString("\n" + labelStyle.Render("Steps") + "\n")
		for i, step := range r.Instructions {
			b.WriteString(truncStr(fmt.Sprintf("%d. %s", i+1, step), inner) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

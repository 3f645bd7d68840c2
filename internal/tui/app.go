// Package tui provides the interactive Bubble Tea dashboard for foogie.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/foogie-app/foogie/internal/api"
	"github.com/foogie-app/foogie/internal/budget"
	"github.com/foogie-app/foogie/internal/config"
	"github.com/foogie-app/foogie/internal/ledger"
	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/reconcile"
	"github.com/foogie-app/foogie/internal/store"
	"github.com/foogie-app/foogie/internal/tui/components"
	"github.com/foogie-app/foogie/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// RecipeSource generates recipe suggestions.
type RecipeSource interface {
	GenerateRecipes(ctx context.Context, req api.RecipeRequest) ([]model.Recipe, error)
}

// Deps wires the dashboard to the ledger, local store and remote service.
type Deps struct {
	Ledger   *ledger.Service
	Store    store.KV
	Recipes  RecipeSource
	Consumer reconcile.Consumer
	Config   config.Config
	Logger   *log.Logger
	// NeedSetup shows the first-run form once the ledger has loaded.
	NeedSetup bool
}

// summaryMsg carries a freshly computed budget summary.
type summaryMsg struct {
	sum budget.Summary
	err error
}

type tickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	deps Deps

	// Data
	summary     budget.Summary
	loaded      bool
	lastRefresh time.Time
	refreshing  bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	status    string
	statusErr bool

	// Per-tab state
	today    todayState
	recipes  recipesState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5

	refreshInterval = 15 * time.Second
)

const (
	tabToday = iota
	tabRecipes
	tabSettings
)

// NewApp creates a new TUI app model.
func NewApp(deps Deps) App {
	if deps.Logger == nil {
		deps.Logger = ledger.Discard
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		deps:      deps,
		needSetup: deps.NeedSetup,
		spinner:   sp,
		recipes:   newRecipesState(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadSummaryCmd(a.deps.Ledger),
		loadCachedRecipesCmd(a.deps.Store),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.modalActive() {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// Forms intercept all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.recipes.confirm != nil {
			return a.updateConfirmForm(msg)
		}
		if a.settings.form != nil {
			return a.updateSettingsForm(msg)
		}

		// Help toggle
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch a.activeTab {
		case tabToday:
			if m, cmd, ok := a.updateTodayKeys(key); ok {
				return m, cmd
			}
		case tabRecipes:
			if m, cmd, ok := a.updateRecipesKeys(key); ok {
				return m, cmd
			}
		case tabSettings:
			if m, cmd, ok := a.updateSettingsKeys(key); ok {
				return m, cmd
			}
		}

		if key == "q" {
			return a, tea.Quit
		}

		// Manual refresh
		if key == "R" && !a.refreshing {
			a.refreshing = true
			return a, loadSummaryCmd(a.deps.Ledger)
		}

		// Tab navigation
		switch key {
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(key) == 1 {
				if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case summaryMsg:
		a.refreshing = false
		if msg.err != nil {
			a.setStatus(fmt.Sprintf("Ledger error: %v", msg.err), true)
			if !a.loaded {
				a.loaded = true
			}
			return a, nil
		}
		a.summary = msg.sum
		a.lastRefresh = time.Now()
		a.today.clamp(len(a.summary.Meals))

		if !a.loaded {
			a.loaded = true
			if a.needSetup {
				a.setupVals = NewSetupValues(a.deps.Config, a.deps.Ledger.Settings())
				a.setupForm = NewSetupForm(a.setupVals)
				if a.width > 0 {
					a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
				}
				return a, a.setupForm.Init()
			}
		}
		return a, nil

	case mealRemovedMsg:
		return a.handleMealRemoved(msg)

	case recipesMsg:
		return a.handleRecipes(msg)

	case recipeUsedMsg:
		return a.handleRecipeUsed(msg)

	case settingsSavedMsg:
		return a.handleSettingsSaved(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && !a.refreshing && time.Since(a.lastRefresh) >= refreshInterval {
			a.refreshing = true
			cmds = append(cmds, loadSummaryCmd(a.deps.Ledger))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	switch {
	case a.needSetup && a.setupForm != nil:
		return a.updateSetupForm(msg)
	case a.recipes.confirm != nil:
		return a.updateConfirmForm(msg)
	case a.settings.form != nil:
		return a.updateSettingsForm(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		vals := *a.setupVals
		a.needSetup = false
		a.setupForm = nil
		return a, saveSetupCmd(a.deps, vals)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) modalActive() bool {
	return (a.needSetup && a.setupForm != nil) || a.recipes.confirm != nil || a.settings.form != nil
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabToday:
		a.today.move(delta, len(a.summary.Meals))
	case tabRecipes:
		a.recipes.move(delta)
	}
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  foogie needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ foogie"))
	b.WriteString(subtitleStyle.Render(" · fridge to fork"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading today's ledger..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	section := func(title string, bindings []struct{ key, desc string }) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
		b.WriteString("\n")
	}

	section("Navigation", []struct{ key, desc string }{
		{"t r x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move selection"},
	})
	section("Today", []struct{ key, desc string }{
		{"d", "Delete selected meal"},
		{"R", "Reload ledger"},
	})
	section("Recipes", []struct{ key, desc string }{
		{"g", "Generate recipes for the per-meal budget"},
		{"u", "I made this: update fridge and log meal"},
	})
	section("Settings", []struct{ key, desc string }{
		{"Enter", "Edit goals"},
	})

	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	hints := "[?]help  [q]uit"
	switch a.activeTab {
	case tabToday:
		hints = "[d]elete  [R]eload  " + hints
	case tabRecipes:
		hints = "[g]enerate  [u]se  " + hints
	case tabSettings:
		hints = "[enter]edit  " + hints
	}
	statusBar := components.RenderStatusBar(w, hints, a.status, a.statusErr)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabToday:
		content = a.renderTodayTab(cw)
	case tabRecipes:
		content = a.renderRecipesTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func loadSummaryCmd(l *ledger.Service) tea.Cmd {
	return func() tea.Msg {
		sum, err := l.Summary(context.Background())
		return summaryMsg{sum: sum, err: err}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// tabAtX maps a click column on the tab bar row to a tab index, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i := range components.Tabs {
		w := components.TabWidth(i, a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

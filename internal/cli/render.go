package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/foogie-app/foogie/internal/budget"
	"github.com/foogie-app/foogie/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	calStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	badStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if len(h) > widths[i] {
				widths[i] = len(h)
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && len(cell) > widths[i] {
					widths[i] = len(cell)
				}
			}
		}
	}

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := fmt.Sprintf(" %-*s ", w, h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		// Header separator
		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	// Data rows
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			// Separator row
			b.WriteString(dimStyle.Render("├"))
			for i, w := range widths {
				b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
				if i < numCols-1 {
					b.WriteString(dimStyle.Render("┼"))
				}
			}
			b.WriteString(dimStyle.Render("┤"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", w, cell)
			} else {
				padded = fmt.Sprintf(" %*s ", w, cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	// Bottom border
	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}

// RenderProgressBar renders a text progress bar for a 0-100+ percentage.
// Values above 100 fill the bar and switch to the warning color.
func RenderProgressBar(pct int, width int) string {
	if width <= 0 {
		return ""
	}

	filled := pct * width / 100
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	style := goodStyle
	switch {
	case pct > 100:
		style = badStyle
	case pct >= 90:
		style = warnStyle
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", style.Render(bar), FormatPercent(pct))
}

// RenderBudgetBanner renders the daily calorie summary box.
func RenderBudgetBanner(sum budget.Summary) string {
	var b strings.Builder

	row := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render(fmt.Sprintf("%-16s", label)), value)
	}

	row("Daily goal", valueStyle.Render(FormatCalories(float64(sum.Goal))))
	row("Consumed", calStyle.Render(FormatCalories(sum.Consumed)))
	if sum.IsOverGoal {
		row("Over goal by", badStyle.Render(FormatCalories(-sum.Remaining)))
	} else {
		row("Remaining", goodStyle.Render(FormatCalories(sum.Remaining)))
	}

	perMeal := dimStyle.Render("no meals left")
	if sum.MealsLeft > 0 {
		perMeal = fmt.Sprintf("%s %s",
			valueStyle.Render(FormatCalories(float64(sum.CaloriesPerMeal))),
			dimStyle.Render(fmt.Sprintf("(%d meal%s left)", sum.MealsLeft, plural(sum.MealsLeft))))
	}
	row("Per meal", perMeal)
	row("Macros", dimStyle.Render(fmt.Sprintf("P %s  C %s  F %s",
		FormatGrams(sum.Nutrition.Protein),
		FormatGrams(sum.Nutrition.Carbs),
		FormatGrams(sum.Nutrition.Fats))))

	b.WriteString("\n  ")
	b.WriteString(RenderProgressBar(sum.PercentConsumed, 40))
	b.WriteString("\n")

	return b.String()
}

// MealsTable builds the table for today's meals. Indexes are the ones
// accepted by "meals rm".
func MealsTable(meals []model.Meal) Table {
	t := Table{
		Title:   "Today's Meals",
		Headers: []string{"Meal", "#", "Time", "Calories", "Protein", "Carbs", "Fats"},
	}
	var total model.DailyLog
	for i, m := range meals {
		t.Rows = append(t.Rows, []string{
			m.Name,
			strconv.Itoa(i),
			FormatTime(m.Timestamp),
			FormatCalories(m.Calories),
			FormatGrams(m.Protein),
			FormatGrams(m.Carbs),
			FormatGrams(m.Fats),
		})
		total.Add(m)
	}
	if len(meals) > 1 {
		t.Rows = append(t.Rows, []string{"---"}, []string{
			"Total", "", "",
			FormatCalories(total.TotalCalories),
			FormatGrams(total.TotalProtein),
			FormatGrams(total.TotalCarbs),
			FormatGrams(total.TotalFats),
		})
	}
	return t
}

// FridgeTable builds the inventory table, soonest expiry first.
func FridgeTable(items []model.InventoryItem, now time.Time) Table {
	sorted := append([]model.InventoryItem(nil), items...)
	model.SortByExpiry(sorted)

	t := Table{
		Title:   "Fridge",
		Headers: []string{"Item", "Quantity", "Expires", "Left", "Calories"},
	}
	for _, it := range sorted {
		left := "?"
		if d, ok := it.DaysUntilExpiry(now); ok {
			left = FormatDaysLeft(d)
		}
		expires := it.ExpectedExpiryDate
		if expires == "" {
			expires = "unknown"
		}
		t.Rows = append(t.Rows, []string{
			it.Name,
			strings.TrimSpace(FormatQuantity(it.Quantity) + " " + it.Unit),
			expires,
			left,
			FormatCalories(it.Calories),
		})
	}
	return t
}

// RenderRecipeCard renders one generated recipe. n is its 1-based position;
// remaining is the day's remaining calorie budget.
func RenderRecipeCard(n int, r model.Recipe, remaining float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s  %s\n",
		headerStyle.Render(fmt.Sprintf("%d.", n)),
		titleStyle.Render(r.Name),
		urgencyBadge(r.UrgencyLevel()))

	meta := []string{FormatServings(r.ServingCount())}
	if r.CookingTime != "" {
		meta = append(meta, r.CookingTime)
	}
	if r.InventoryOnly {
		meta = append(meta, "fridge only")
	}
	b.WriteString("   " + dimStyle.Render(strings.Join(meta, " · ")) + "\n")

	if r.NutritionPerServing != nil {
		total := r.TotalCalories()
		fit := goodStyle.Render("fits budget")
		if !r.FitsBudget(remaining) {
			fit = badStyle.Render(fmt.Sprintf("over budget by %s", FormatCalories(total-remaining)))
		}
		ps := r.PerServing()
		fmt.Fprintf(&b, "   %s total (%s/serving, P %s C %s F %s)  %s\n",
			calStyle.Render(FormatCalories(total)),
			FormatCalories(ps.Calories),
			FormatGrams(ps.Protein), FormatGrams(ps.Carbs), FormatGrams(ps.Fats),
			fit)
	}
	if r.UrgencyReason != "" {
		b.WriteString("   " + mutedStyle.Render(r.UrgencyReason) + "\n")
	}

	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString("   " + headerStyle.Render(title) + "\n")
		for _, it := range items {
			b.WriteString("     • " + valueStyle.Render(it) + "\n")
		}
	}
	list("From your fridge", r.InventoryItemsUsed)
	list("Also needed", r.AdditionalIngredients)

	if len(r.Instructions) > 0 {
		b.WriteString("   " + headerStyle.Render("Steps") + "\n")
		for i, step := range r.Instructions {
			fmt.Fprintf(&b, "     %s %s\n", dimStyle.Render(fmt.Sprintf("%d.", i+1)), step)
		}
	}

	return b.String()
}

func urgencyBadge(level string) string {
	style := goodStyle
	switch level {
	case model.UrgencyHigh:
		style = badStyle
	case model.UrgencyMedium:
		style = warnStyle
	}
	return style.Render("[" + strings.ToUpper(level) + "]")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

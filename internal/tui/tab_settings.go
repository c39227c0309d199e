package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/config"
	"github.com/theirongolddev/kharcha/internal/tui/components"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

const (
	settingsFieldBudget = iota
	settingsFieldSalaryDay
	settingsFieldTheme
	settingsFieldDarkMode
	settingsFieldPeriod
	settingsFieldName
	settingsFieldAge
	settingsFieldOccupation
	settingsFieldCity
	settingsFieldCount // sentinel
)

// settingsPeriods are the named periods cycled for the default period.
var settingsPeriods = []string{"today", "week", "month", "all"}

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor int
}

func (a App) updateSettingsKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
		return a, nil, true
	case "k", "up":
		a.moveCursor(-1)
		return a, nil, true
	case "enter":
		next, cmd := a.settingsActivate()
		return next, cmd, true
	}
	return a, nil, false
}

// settingsActivate toggles or cycles choice fields and opens the editor
// for free-form ones.
func (a App) settingsActivate() (tea.Model, tea.Cmd) {
	st := a.state
	switch a.settings.cursor {
	case settingsFieldBudget:
		return a.startEdit(editSetting, "50000", st.Budget.MonthlyBudget.String())
	case settingsFieldSalaryDay:
		return a.startEdit(editSetting, "1-31", strconv.Itoa(st.Budget.SalaryDay))
	case settingsFieldTheme:
		names := append([]string{""}, theme.Names()...)
		idx := 0
		for i, n := range names {
			if n == a.cfg.Appearance.Theme {
				idx = i
			}
		}
		a.cfg.Appearance.Theme = names[(idx+1)%len(names)]
		theme.Active = theme.ForPreference(a.cfg.Appearance.Theme, st.Preferences.DarkMode)
		a.expenses.table.SetStyles(tableStyles())
		return a.persistConfig("Theme: " + themeLabel(a.cfg.Appearance.Theme))
	case settingsFieldDarkMode:
		prefs := st.Preferences
		prefs.DarkMode = !prefs.DarkMode
		a.state.Preferences = prefs
		theme.Active = theme.ForPreference(a.cfg.Appearance.Theme, prefs.DarkMode)
		a.expenses.table.SetStyles(tableStyles())
		tr := a.tr
		return a, mutateCmd(tr, "Dark mode "+onOff(prefs.DarkMode), func(ctx context.Context) error {
			return tr.SetPreferences(ctx, prefs)
		})
	case settingsFieldPeriod:
		idx := 0
		for i, p := range settingsPeriods {
			if p == a.cfg.General.DefaultPeriod {
				idx = i
			}
		}
		a.cfg.General.DefaultPeriod = settingsPeriods[(idx+1)%len(settingsPeriods)]
		return a.persistConfig("Default period: " + a.cfg.General.DefaultPeriod)
	case settingsFieldName:
		return a.startEdit(editSetting, "Your name", st.Profile.Name)
	case settingsFieldAge:
		age := ""
		if st.Profile.Age > 0 {
			age = strconv.Itoa(st.Profile.Age)
		}
		return a.startEdit(editSetting, "Age", age)
	case settingsFieldOccupation:
		return a.startEdit(editSetting, "Occupation", st.Profile.Occupation)
	case settingsFieldCity:
		return a.startEdit(editSetting, "City", st.Profile.City)
	}
	return a, nil
}

func (a App) persistConfig(flash string) (tea.Model, tea.Cmd) {
	if err := a.saveConfig(a.cfg); err != nil {
		a.setFlash("Save failed: "+err.Error(), true)
		return a, nil
	}
	a.setFlash(flash, false)
	return a, nil
}

// commitSetting applies an edited free-form field.
func (a App) commitSetting(val string) (tea.Model, tea.Cmd) {
	tr := a.tr
	profile := a.state.Profile

	switch a.settings.cursor {
	case settingsFieldBudget:
		amount, err := decimal.NewFromString(val)
		if err != nil || !amount.IsPositive() {
			a.setFlash(fmt.Sprintf("Invalid budget %q", val), true)
			return a, nil
		}
		return a, mutateCmd(tr, "Monthly budget set to "+cli.FormatMoney(amount), func(ctx context.Context) error {
			return tr.SetBudget(ctx, amount)
		})
	case settingsFieldSalaryDay:
		day, err := strconv.Atoi(val)
		if err != nil || day < 1 || day > 31 {
			a.setFlash(fmt.Sprintf("Salary day must be 1-31, got %q", val), true)
			return a, nil
		}
		return a, mutateCmd(tr, fmt.Sprintf("Salary day set to %d", day), func(ctx context.Context) error {
			return tr.SetSalaryDay(ctx, day)
		})
	case settingsFieldName:
		profile.Name = val
	case settingsFieldAge:
		if val == "" {
			profile.Age = 0
			break
		}
		age, err := strconv.Atoi(val)
		if err != nil || age < 0 || age > 150 {
			a.setFlash(fmt.Sprintf("Invalid age %q", val), true)
			return a, nil
		}
		profile.Age = age
	case settingsFieldOccupation:
		profile.Occupation = val
	case settingsFieldCity:
		profile.City = val
	default:
		return a, nil
	}

	return a, mutateCmd(tr, "Profile saved", func(ctx context.Context) error {
		return tr.SetProfile(ctx, profile)
	})
}

func themeLabel(name string) string {
	if name == "" {
		return "auto (follows dark mode)"
	}
	return name
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	st := a.state

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	orUnset := func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	}
	age := "(not set)"
	if st.Profile.Age > 0 {
		age = strconv.Itoa(st.Profile.Age)
	}

	fields := []struct {
		label string
		value string
	}{
		{"Monthly Budget", cli.FormatMoney(st.Budget.MonthlyBudget)},
		{"Salary Day", strconv.Itoa(st.Budget.SalaryDay)},
		{"Theme", themeLabel(a.cfg.Appearance.Theme)},
		{"Dark Mode", onOff(st.Preferences.DarkMode)},
		{"Default Period", a.cfg.General.DefaultPeriod},
		{"Name", orUnset(st.Profile.Name)},
		{"Age", age},
		{"Occupation", orUnset(st.Profile.Occupation)},
		{"City", orUnset(st.Profile.City)},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.edit.target == editSetting && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.edit.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := innerW - used; pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}
	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit or toggle  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Database:     ") + valueStyle.Render(a.cfg.DBPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Reminders:    ") + valueStyle.Render(strconv.Itoa(len(st.Reminders))) + "\n")
	infoBody.WriteString(labelStyle.Render("Expenses:     ") + valueStyle.Render(cli.FormatNumber(int64(len(st.Expenses)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.Path()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}

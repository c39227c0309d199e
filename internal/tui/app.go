// Package tui provides the interactive Bubble Tea dashboard for kharcha.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kharcha/internal/config"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
	"github.com/theirongolddev/kharcha/internal/tracker"
	"github.com/theirongolddev/kharcha/internal/tui/components"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

// StateLoadedMsg carries a fresh copy of the tracker state.
type StateLoadedMsg struct {
	State model.State
	Err   error
}

// MutationMsg reports the outcome of a tracker change.
type MutationMsg struct {
	State model.State
	Flash string
	Err   error
}

type tickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	tr         *tracker.Tracker
	cfg        config.Config
	saveConfig func(config.Config) error

	// Data
	state  model.State
	snap   model.Snapshot
	now    time.Time
	loaded bool

	// Auto-refresh state
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model

	// Per-tab state
	expenses  expensesState
	catCursor int
	remCursor int
	settings  settingsState
	whatIf    whatIfState

	// Shared single-line editor for settings, category budgets and what-if
	edit editState

	// Modal huh form (add expense, new reminder)
	form     *huh.Form
	formKind formKind
	expVals  *expenseValues
	remVals  *reminderValues

	flash      string
	flashErr   bool
	flashTicks int
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
	flashDuration    = 4 // ticks
)

// NewApp creates a new TUI app model over an open tracker.
func NewApp(tr *tracker.Tracker, cfg config.Config) App {
	st := tr.State()
	theme.Active = theme.ForPreference(cfg.Appearance.Theme, st.Preferences.DarkMode)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		tr:              tr,
		cfg:             cfg,
		saveConfig:      config.Save,
		refreshInterval: cfg.RefreshInterval(),
		spinner:         sp,
		expenses:        newExpensesState(cfg.General.DefaultPeriod),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadCmd(a.tr),
		a.spinner.Tick,
		tickCmd(),
	)
}

// loadCmd evaluates today's streak and returns the resulting state.
func loadCmd(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := tr.EvaluateStreak(ctx); err != nil {
			return StateLoadedMsg{State: tr.State(), Err: err}
		}
		return StateLoadedMsg{State: tr.State()}
	}
}

// reloadCmd reads the store again so changes made by other commands show up.
func reloadCmd(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := tr.Reload(ctx)
		return StateLoadedMsg{State: tr.State(), Err: err}
	}
}

// mutateCmd runs fn against the tracker and reports the new state.
func mutateCmd(tr *tracker.Tracker, flash string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := fn(ctx)
		return MutationMsg{State: tr.State(), Flash: flash, Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// recompute derives every view model from the current state.
func (a *App) recompute() {
	a.now = a.tr.Now()
	a.snap = pipeline.Snapshot(a.state, a.now)
	a.refreshExpenseTable()

	if a.catCursor >= len(model.Categories) {
		a.catCursor = len(model.Categories) - 1
	}
	if a.remCursor >= len(a.state.Reminders) {
		a.remCursor = max(0, len(a.state.Reminders)-1)
	}
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
	a.flashTicks = flashDuration
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth()).WithHeight(msg.Height)
		}
		a.refreshExpenseTable()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil || a.edit.active() {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
					a.activeTab = tab
				}
			}
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case StateLoadedMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		a.state = msg.State
		a.loaded = true
		if msg.Err != nil {
			a.setFlash("Load failed: "+msg.Err.Error(), true)
		}
		a.recompute()
		return a, nil

	case MutationMsg:
		a.state = msg.State
		if msg.Err != nil {
			a.setFlash(msg.Err.Error(), true)
		} else if msg.Flash != "" {
			a.setFlash(msg.Flash, false)
		}
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.flashTicks > 0 {
			a.flashTicks--
			if a.flashTicks == 0 {
				a.flash = ""
			}
		}
		idle := a.form == nil && !a.edit.active()
		if a.loaded && idle && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, reloadCmd(a.tr))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the active form or editor (cursor blinks).
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.edit.active() {
		var cmd tea.Cmd
		a.edit.input, cmd = a.edit.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	if a.form != nil {
		if key == "esc" {
			a.form = nil
			return a, nil
		}
		return a.updateForm(msg)
	}

	if a.edit.active() {
		return a.updateEdit(msg)
	}

	if a.expenses.confirmDelete {
		return a.updateConfirmDelete(key)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "a":
		return a.openExpenseForm()
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	var (
		handled bool
		next    tea.Model
		cmd     tea.Cmd
	)
	switch a.activeTab {
	case components.TabExpenses:
		next, cmd, handled = a.updateExpensesKey(msg)
	case components.TabCategories:
		next, cmd, handled = a.updateCategoriesKey(key)
	case components.TabInsights:
		next, cmd, handled = a.updateInsightsKey(key)
	case components.TabReminders:
		next, cmd, handled = a.updateRemindersKey(key)
	case components.TabSettings:
		next, cmd, handled = a.updateSettingsKey(key)
	}
	if handled {
		return next, cmd
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case components.TabExpenses:
		if delta < 0 {
			a.expenses.table.MoveUp(-delta)
		} else {
			a.expenses.table.MoveDown(delta)
		}
	case components.TabCategories:
		a.catCursor = clamp(a.catCursor+delta, 0, len(model.Categories)-1)
	case components.TabReminders:
		a.remCursor = clamp(a.remCursor+delta, 0, max(0, len(a.state.Reminders)-1))
	case components.TabSettings:
		a.settings.cursor = clamp(a.settings.cursor+delta, 0, settingsFieldCount-1)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
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
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  kharcha needs at least %d columns.\n",
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
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ kharcha"))
	b.WriteString(subtitleStyle.Render(" · Expenses & Budget"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading ledger..."))

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
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d e c i r s", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move selection"},
		}},
		{"Actions", [][2]string{
			{"a", "Add expense"},
			{"x", "Delete expense / reminder"},
			{"p f", "Cycle period / category filter"},
			{"n", "New reminder"},
			{"[ ]", "Previous / next chart month"},
			{"w", "What-if savings"},
			{"Enter", "Edit selected"},
			{"Esc", "Cancel"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-12s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
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

	statusBar := components.RenderStatusBar(w, a.hints(), a.statusInfo(), a.flash, a.flashErr)

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch a.activeTab {
	case components.TabDashboard:
		content = a.renderDashboardTab(cw)
	case components.TabExpenses:
		content = a.renderExpensesTab(cw)
	case components.TabCategories:
		content = a.renderCategoriesTab(cw)
	case components.TabInsights:
		content = a.renderInsightsTab(cw)
	case components.TabReminders:
		content = a.renderRemindersTab(cw)
	case components.TabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) hints() string {
	if a.edit.active() {
		return "[Enter] save  [Esc] cancel"
	}
	if a.expenses.confirmDelete {
		return "Delete selected expense? [y] yes  [any] no"
	}
	switch a.activeTab {
	case components.TabExpenses:
		return "[a]dd  [x] delete  [p]eriod  [f]ilter  [?]help  [q]uit"
	case components.TabCategories:
		return "[j/k] select  [Enter] set budget  [?]help  [q]uit"
	case components.TabInsights:
		return "[ ] month  [w]hat-if  [?]help  [q]uit"
	case components.TabReminders:
		return "[n]ew  [x] remove  [?]help  [q]uit"
	case components.TabSettings:
		return "[j/k] select  [Enter] edit  [?]help  [q]uit"
	}
	return "[a]dd expense  [?]help  [q]uit"
}

func (a App) statusInfo() string {
	info := fmt.Sprintf("%d expenses", a.snap.Expenses)
	if a.refreshing {
		info = "refreshing… " + info
	}
	return info
}

// ─── Shared editor ──────────────────────────────────────────────

type editTarget int

const (
	editNone editTarget = iota
	editSetting
	editCategoryBudget
	editWhatIf
)

type editState struct {
	target editTarget
	input  textinput.Model
}

func (e editState) active() bool { return e.target != editNone }

func (a App) startEdit(target editTarget, placeholder, value string) (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 30
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.Focus()

	a.edit = editState{target: target, input: ti}
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.edit = editState{}
		return a, nil
	case "enter":
		val := strings.TrimSpace(a.edit.input.Value())
		target := a.edit.target
		a.edit = editState{}
		switch target {
		case editSetting:
			return a.commitSetting(val)
		case editCategoryBudget:
			return a.commitCategoryBudget(val)
		case editWhatIf:
			return a.commitWhatIf(val)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.edit.input, cmd = a.edit.input.Update(msg)
	return a, cmd
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
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
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

func tableStyles() table.Styles {
	t := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.Accent).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary)
	s.Selected = s.Selected.
		Foreground(t.TextPrimary).
		Background(t.SurfaceBright).
		Bold(true)
	return s
}

// editorLine renders the shared input when it is editing target.
func (a App) editorLine(target editTarget, label string) string {
	if a.edit.target != target {
		return ""
	}
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	return labelStyle.Render(label+" ") + a.edit.input.View()
}

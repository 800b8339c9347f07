// Package dashtui is the terminal dashboard shown by gx dash.
package dashtui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/session"
	"github.com/amonks/guidex/store"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tabKind int

const (
	tabOverview tabKind = iota
	tabGoals
	tabJournal
)

var tabLabels = []string{"[1] Overview", "[2] Goals", "[3] Journal"}

type focusPane int

const (
	focusList focusPane = iota
	focusDetail
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type (
	tickMsg         time.Time
	boardChangedMsg struct{ kind store.Kind }
	refreshedMsg    struct{ err error }
	toggledMsg      struct {
		goalID string
		err    error
	}
	focusToggledMsg struct {
		started bool
		elapsed time.Duration
		err     error
	}
)

type model struct {
	ctx   context.Context
	board *dashboard.Board
	timer *session.Timer
	now   func() time.Time

	width     int
	height    int
	activeTab tabKind
	focus     focusPane
	showHelp  bool

	view        dashboard.View
	goalList    list.Model
	entryList   list.Model
	detail      viewport.Model
	taskIndex   int
	focusStatus session.Status

	status      string
	statusLevel statusLevel
}

// Options configures Run.
type Options struct {
	Board *dashboard.Board
	// Timer backs the focus session indicator. Nil hides it.
	Timer *session.Timer
	Now   func() time.Time
}

// Run shows the dashboard until the user quits or ctx is done. Changes made
// by other processes are picked up through the board's subscription.
func Run(ctx context.Context, opts Options) error {
	if opts.Board == nil {
		return fmt.Errorf("dashboard board is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	stop, err := opts.Board.Subscribe(ctx, func(kind store.Kind) {
		program.Send(boardChangedMsg{kind: kind})
	})
	if err != nil {
		return err
	}
	defer stop()

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newModel(ctx context.Context, opts Options) model {
	goalList := list.New(nil, newGoalItemDelegate(), 0, 0)
	goalList.Title = "Goals"
	goalList.SetShowStatusBar(false)
	goalList.SetFilteringEnabled(false)
	goalList.SetShowHelp(false)
	goalList.SetShowPagination(false)

	entryList := list.New(nil, newEntryItemDelegate(), 0, 0)
	entryList.Title = "Journal"
	entryList.SetShowStatusBar(false)
	entryList.SetFilteringEnabled(false)
	entryList.SetShowHelp(false)
	entryList.SetShowPagination(false)

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := model{
		ctx:       ctx,
		board:     opts.Board,
		timer:     opts.Timer,
		now:       now,
		activeTab: tabOverview,
		focus:     focusList,
		goalList:  goalList,
		entryList: entryList,
		detail:    viewport.New(0, 0),
	}
	m.reload()
	m.readFocus()
	return m
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		updated, cmd, handled := m.handleKey(msg)
		if handled {
			return updated, cmd
		}
		m = updated
	case tickMsg:
		m.readFocus()
		return m, tickCmd()
	case boardChangedMsg:
		m.reload()
		return m, nil
	case refreshedMsg:
		m.reload()
		if msg.err != nil {
			m.setStatus(dashboard.UserMessage(msg.err), statusError)
		} else {
			m.setStatus("Refreshed", statusInfo)
		}
		return m, nil
	case toggledMsg:
		m.reload()
		if msg.err != nil {
			m.setStatus(dashboard.UserMessage(msg.err), statusError)
		} else {
			m.setStatus("Saved", statusInfo)
		}
		return m, nil
	case focusToggledMsg:
		m.readFocus()
		switch {
		case msg.err != nil:
			m.setStatus(msg.err.Error(), statusError)
		case msg.started:
			m.setStatus("Focus session started", statusInfo)
		default:
			m.setStatus("Focus session ended after "+session.FormatElapsed(msg.elapsed), statusInfo)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabGoals:
		if m.focus == focusList {
			m.goalList, cmd = m.goalList.Update(msg)
			m.taskIndex = 0
			m.refreshDetail()
		}
	case tabJournal:
		if m.focus == focusList {
			m.entryList, cmd = m.entryList.Update(msg)
			m.refreshDetail()
		} else {
			m.detail, cmd = m.detail.Update(msg)
		}
	}
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	key := msg.String()
	if m.showHelp {
		if key == "?" || key == "esc" || key == "q" {
			m.showHelp = false
		}
		return m, nil, true
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "?":
		m.showHelp = true
		return m, nil, true
	case "1":
		return m.activateTab(tabOverview), nil, true
	case "2":
		return m.activateTab(tabGoals), nil, true
	case "3":
		return m.activateTab(tabJournal), nil, true
	case "tab", "]":
		return m.activateTab((m.activeTab + 1) % tabKind(len(tabLabels))), nil, true
	case "shift+tab", "backtab", "[":
		return m.activateTab((m.activeTab + tabKind(len(tabLabels)) - 1) % tabKind(len(tabLabels))), nil, true
	case "f":
		return m, m.toggleFocusCmd(), true
	case "r":
		m.setStatus("Refreshing...", statusNone)
		return m, m.refreshCmd(), true
	case "enter":
		if m.activeTab != tabOverview && m.focus == focusList {
			m.focus = focusDetail
			m.refreshDetail()
			return m, nil, true
		}
	case "esc":
		if m.focus == focusDetail {
			m.focus = focusList
			m.refreshDetail()
			return m, nil, true
		}
	}

	if m.activeTab == tabGoals && m.focus == focusDetail {
		return m.handleTaskKey(key)
	}
	return m, nil, false
}

func (m model) handleTaskKey(key string) (model, tea.Cmd, bool) {
	g, ok := m.currentGoal()
	if !ok {
		return m, nil, false
	}
	switch key {
	case "up", "k":
		if m.taskIndex > 0 {
			m.taskIndex--
		}
	case "down", "j":
		if m.taskIndex < len(g.Tasks)-1 {
			m.taskIndex++
		}
	case " ", "x":
		if m.taskIndex >= len(g.Tasks) {
			return m, nil, true
		}
		m.setStatus("Saving...", statusNone)
		return m, m.toggleTaskCmd(g.ID, g.Tasks[m.taskIndex].ID), true
	default:
		return m, nil, false
	}
	m.refreshDetail()
	return m, nil, true
}

func (m model) activateTab(target tabKind) model {
	m.activeTab = target
	m.focus = focusList
	m.refreshDetail()
	return m
}

func (m model) toggleTaskCmd(goalID, taskID string) tea.Cmd {
	ctx, board := m.ctx, m.board
	return func() tea.Msg {
		_, err := board.ToggleTask(ctx, goalID, taskID)
		return toggledMsg{goalID: goalID, err: err}
	}
}

func (m model) refreshCmd() tea.Cmd {
	ctx, board := m.ctx, m.board
	return func() tea.Msg {
		return refreshedMsg{err: board.Refresh(ctx)}
	}
}

func (m model) toggleFocusCmd() tea.Cmd {
	timer := m.timer
	if timer == nil {
		return nil
	}
	active := m.focusStatus.Active()
	return func() tea.Msg {
		if active {
			elapsed, err := timer.Stop()
			return focusToggledMsg{elapsed: elapsed, err: err}
		}
		_, err := timer.Start()
		return focusToggledMsg{started: err == nil, err: err}
	}
}

// reload recomputes the view from the board and keeps list selections.
func (m *model) reload() {
	m.view = m.board.View()

	goalIndex := m.goalList.Index()
	m.goalList.SetItems(goalItems(m.view))
	if items := len(m.goalList.Items()); goalIndex >= items {
		goalIndex = max(items-1, 0)
	}
	m.goalList.Select(goalIndex)

	entryIndex := m.entryList.Index()
	m.entryList.SetItems(entryItems(m.board.Entries()))
	if items := len(m.entryList.Items()); entryIndex >= items {
		entryIndex = max(items-1, 0)
	}
	m.entryList.Select(entryIndex)

	if g, ok := m.currentGoal(); ok && m.taskIndex >= len(g.Tasks) {
		m.taskIndex = max(len(g.Tasks)-1, 0)
	}
	m.refreshDetail()
}

func (m *model) readFocus() {
	if m.timer == nil {
		return
	}
	status, err := m.timer.Status()
	if err != nil {
		m.setStatus(err.Error(), statusError)
		return
	}
	m.focusStatus = status
}

func (m model) currentGoal() (dashboard.GoalView, bool) {
	item, ok := m.goalList.SelectedItem().(goalItem)
	if !ok {
		return dashboard.GoalView{}, false
	}
	return item.goal, true
}

func (m model) currentEntry() (journal.Entry, bool) {
	item, ok := m.entryList.SelectedItem().(entryItem)
	if !ok {
		return journal.Entry{}, false
	}
	return item.entry, true
}

func (m *model) refreshDetail() {
	switch m.activeTab {
	case tabGoals:
		g, _ := m.currentGoal()
		m.detail.SetContent(renderGoalDetail(g, m.taskIndex, m.focus == focusDetail, m.now()))
	case tabJournal:
		entry, _ := m.currentEntry()
		m.detail.SetContent(renderEntryDetail(entry, m.detail.Width))
	default:
		m.detail.SetContent("")
	}
}

func (m *model) resize() {
	contentHeight := max(m.height-3, 1)
	leftWidth, rightWidth := splitWidths(m.width)
	listHeight := max(contentHeight-2, 1)
	listWidth := max(leftWidth-4, 1)
	m.goalList.SetSize(listWidth, listHeight)
	m.entryList.SetSize(listWidth, listHeight)
	m.detail.Width = max(rightWidth-4, 1)
	m.detail.Height = max(contentHeight-2, 1)
	m.refreshDetail()
}

func splitWidths(width int) (int, int) {
	left := width / 3
	if left < 30 {
		left = 30
	}
	if left > width-20 {
		left = width / 2
	}
	right := width - left
	if right < 20 {
		right = 20
		left = width - right
	}
	return left, right
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading dashboard..."
	}
	if m.showHelp {
		modal := modalStyle.Render(helpContent())
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	contentHeight := max(m.height-3, 1)
	var content string
	switch m.activeTab {
	case tabOverview:
		content = m.renderPane(renderOverview(m.view), m.width, contentHeight, true)
	case tabGoals:
		content = m.renderSplit(m.goalList.View(), contentHeight)
	case tabJournal:
		content = m.renderSplit(m.entryList.View(), contentHeight)
	}
	return strings.Join([]string{m.renderTabs(), m.renderHelpLine(), content, m.renderStatusLine()}, "\n")
}

func (m model) renderSplit(listContent string, height int) string {
	leftWidth, rightWidth := splitWidths(m.width)
	listPane := m.renderPane(listContent, leftWidth, height, m.focus == focusList)
	detailPane := m.renderPane(m.detail.View(), rightWidth, height, m.focus == focusDetail)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m model) renderTabs() string {
	parts := make([]string, 0, len(tabLabels)+1)
	for i, label := range tabLabels {
		style := tabInactiveStyle
		if tabKind(i) == m.activeTab {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	indicator := m.renderFocusIndicator()
	spacerWidth := max(m.width-lipgloss.Width(tabs)-lipgloss.Width(indicator), 1)
	return tabBarStyle.Width(m.width).Render(tabs + strings.Repeat(" ", spacerWidth) + indicator)
}

func (m model) renderFocusIndicator() string {
	if m.timer == nil {
		return ""
	}
	if !m.focusStatus.Active() {
		return focusIdleStyle.Render("Focus: idle")
	}
	elapsed := m.focusStatus.ElapsedAt(m.now())
	return focusActiveStyle.Render("Focus: " + session.FormatElapsed(elapsed))
}

func (m model) renderPane(content string, width, height int, focused bool) string {
	style := paneStyle
	if focused {
		style = paneActiveStyle
	}
	return style.Width(max(width, 0)).Height(max(height, 0)).Render(content)
}

func (m model) renderStatusLine() string {
	if strings.TrimSpace(m.status) == "" {
		return ""
	}
	style := valueMuted
	switch m.statusLevel {
	case statusError:
		style = statusErrorStyle
	case statusInfo:
		style = statusSuccessStyle
	}
	return style.Render(m.status)
}

func (m model) renderHelpLine() string {
	return helpBarStyle.Width(m.width).Render(truncateText(m.helpSummary(), m.width))
}

func (m model) helpSummary() string {
	switch {
	case m.activeTab == tabGoals && m.focus == focusDetail:
		return "Keys: up/down move | space toggle milestone | esc back | f focus | ? help"
	case m.activeTab == tabJournal && m.focus == focusDetail:
		return "Keys: up/down/pgup/pgdown scroll | esc back | ? help | q quit"
	case m.activeTab == tabOverview:
		return "Keys: tab switch tabs | f start/stop focus | r refresh | ? help | q quit"
	}
	return "Keys: up/down move | enter detail | tab switch tabs | f focus | r refresh | ? help | q quit"
}

func helpContent() string {
	sections := []string{
		labelStyle.Render("Global"),
		"q or ctrl+c: quit",
		"[ or ] / 1-3 / tab: switch tabs",
		"f: start or stop a focus session",
		"r: reload from the store",
		"?: toggle help",
		"",
		labelStyle.Render("Navigation"),
		"up/down or j/k: move selection",
		"enter: focus detail pane",
		"esc: return to list",
		"",
		labelStyle.Render("Goals"),
		"space or x: toggle the selected milestone",
		"",
		labelStyle.Render("Help"),
		"press ? or esc to close",
	}
	return strings.Join(sections, "\n")
}

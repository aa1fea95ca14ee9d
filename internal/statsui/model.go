// Package statsui provides the Bubble Tea player dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/idiomquiz/internal/model"
	"github.com/verte-zerg/idiomquiz/internal/progress"
	"github.com/verte-zerg/idiomquiz/internal/stats"
)

const (
	tabOverview = iota
	tabTopics
	tabMistakes
	tabLeaderboard
)

const historyPlotHeight = 6

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea dashboard for one player.
type Model struct {
	src   stats.Source
	rules progress.Rules
	name  string

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    map[int]*table.Model

	width  int
	height int

	playerMode  bool
	playerInput textinput.Model
}

// NewModel constructs a dashboard for the named player.
func NewModel(src stats.Source, rules progress.Rules, name string) *Model {
	m := &Model{
		src:      src,
		rules:    rules,
		name:     name,
		tabs:     []string{"Overview", "Topics", "Mistakes", "Leaderboard"},
		overview: viewport.New(0, 0),
		tables:   map[int]*table.Model{},
	}
	for _, tab := range []int{tabTopics, tabMistakes, tabLeaderboard} {
		t := newTable(nil, nil, 0, 1)
		m.tables[tab] = &t
	}
	m.playerInput = textinput.New()
	m.playerInput.Prompt = "Player: "
	m.playerInput.CharLimit = 32
	m.playerInput.Cursor.SetMode(cursor.CursorBlink)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.playerMode {
			return m.updatePlayerInput(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "/":
			m.playerMode = true
			m.playerInput.SetValue(m.name)
			return m, m.playerInput.Focus()
		case "g", "home":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if t, ok := m.tables[m.activeTab]; ok {
				*t, cmd = t.Update(msg)
				return m, cmd
			}
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updatePlayerInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.playerMode = false
		m.playerInput.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.playerInput.Value())
		m.playerMode = false
		m.playerInput.Blur()
		if name != "" {
			m.name = name
			m.refreshReport()
			m.updateLayout()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.playerInput, cmd = m.playerInput.Update(msg)
	return m, cmd
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.playerMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.overview.SetContent(m.renderOverview())
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(maxInt(1, bodyHeight-1))
	}
	m.playerInput.Width = maxInt(10, m.width-lipgloss.Width(m.playerInput.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := (m.activeTab + delta + count) % count
	if t, ok := m.tables[m.activeTab]; ok {
		t.Blur()
	}
	m.activeTab = next
	if t, ok := m.tables[m.activeTab]; ok {
		t.Focus()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.name)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
		m.overview.SetContent("Failed to load player.")
		for _, t := range m.tables {
			t.SetRows(nil)
		}
		return
	}
	m.errMsg = ""
	m.report = report

	cols, rows := topicTableData(report.Profile, m.rules)
	m.tables[tabTopics].SetColumns(cols)
	m.tables[tabTopics].SetRows(rows)
	cols, rows = mistakeTableData(report.Profile)
	m.tables[tabMistakes].SetColumns(cols)
	m.tables[tabMistakes].SetRows(rows)
	cols, rows = LeaderboardTableData(report.Standings)
	m.tables[tabLeaderboard].SetColumns(cols)
	m.tables[tabLeaderboard].SetRows(rows)
	m.overview.SetContent(m.renderOverview())
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	if m.playerMode {
		return tabs + "\n" + padLine(m.playerInput.View(), m.width)
	}
	summary := fmt.Sprintf("Player: %s", m.name)
	if m.report.Rank > 0 {
		summary += fmt.Sprintf("  rank %d of %d", m.report.Rank, m.report.Players)
	}
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.playerMode {
		return headerStyle.Render("enter: show player  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Player: /  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	t, ok := m.tables[m.activeTab]
	if !ok {
		return m.overview.View()
	}
	if m.errMsg != "" {
		return "Failed to load player."
	}
	if len(t.Rows()) == 0 {
		switch m.activeTab {
		case tabTopics:
			return "No topics practiced yet."
		case tabMistakes:
			return "No mistakes recorded."
		default:
			return "No players found."
		}
	}
	return tableMutedStyle.Render(t.View())
}

func (m *Model) renderOverview() string {
	if m.errMsg != "" {
		return "Failed to load player."
	}
	p := m.report.Profile
	answered, correct := 0, 0
	for _, tp := range p.Topics {
		answered += tp.Answered
		correct += tp.Correct
	}
	acc := 0.0
	if answered > 0 {
		acc = float64(correct) / float64(answered) * 100
	}
	rank := "-"
	if m.report.Rank > 0 {
		rank = fmt.Sprintf("%d/%d", m.report.Rank, m.report.Players)
	}
	cards := []string{
		metricCard("XP", strconv.Itoa(p.XP)),
		metricCard("Stamina", fmt.Sprintf("%d/%d", p.Stamina, m.rules.MaxStamina)),
		metricCard("Rank", rank),
		metricCard("Answered", strconv.Itoa(answered)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", acc)),
	}
	var grid string
	if m.width < 80 {
		grid = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		grid = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	var buf bytes.Buffer
	if err := stats.RenderTopics(&buf, p, m.rules); err != nil {
		return grid + "\n\n" + fmt.Sprintf("Failed to render topics: %v", err)
	}
	badges := "Badges: none"
	if len(p.Badges) > 0 {
		badges = "Badges: " + strings.Join(p.Badges, ", ")
	}
	return strings.TrimRight(grid+"\n"+badges+"\n\n"+m.renderHistory()+buf.String(), "\n")
}

// renderHistory charts the recent answers, followed by a blank line.
func (m *Model) renderHistory() string {
	history := m.report.Profile.History
	if len(history) == 0 {
		return "No answers recorded yet.\n\n"
	}
	width := stats.PlotWidthFor(m.width-2, stats.AxisLabelWidth(len(history)))
	var buf bytes.Buffer
	if err := stats.PlotHistory(&buf, history, width, historyPlotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render history: %v\n\n", err)
	}
	return buf.String() + "\n"
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func topicTableData(p model.Profile, rules progress.Rules) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Topic", Width: 10},
		{Title: "Tier", Width: 5},
		{Title: "In tier", Width: 8},
		{Title: "Streak", Width: 7},
		{Title: "Best", Width: 5},
		{Title: "Accuracy", Width: 9},
	}
	names := make([]string, 0, len(p.Topics))
	for name := range p.Topics {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		tp := p.Topics[name]
		rows = append(rows, table.Row{
			name,
			fmt.Sprintf("%d/%d", tp.Tier, rules.MaxTier()),
			fmt.Sprintf("%d/%d", tp.CorrectInTier, rules.Rule(tp.Tier).Target),
			strconv.Itoa(tp.Streak),
			strconv.Itoa(tp.BestStreak),
			fmt.Sprintf("%.1f%%", tp.Accuracy()*100),
		})
	}
	return columns, rows
}

func mistakeTableData(p model.Profile) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Phrase", Width: 14},
		{Title: "Last answer", Width: 14},
		{Title: "Misses", Width: 6},
	}
	mistakes := stats.TopMistakes(p.Mistakes, 0)
	rows := make([]table.Row, 0, len(mistakes))
	for _, mk := range mistakes {
		rows = append(rows, table.Row{mk.Phrase, mk.WrongAnswer, strconv.Itoa(mk.Count)})
	}
	return columns, rows
}

// LeaderboardTableData returns ranked leaderboard columns and rows.
func LeaderboardTableData(standings []model.Standing) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: 16},
		{Title: "XP", Width: 7},
		{Title: "Top tier", Width: 8},
		{Title: "Badges", Width: 6},
	}
	rows := make([]table.Row, 0, len(standings))
	for i, s := range standings {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			s.Name,
			strconv.Itoa(s.XP),
			strconv.Itoa(s.TopTier),
			strconv.Itoa(s.Badges),
		})
	}
	return columns, rows
}

// NewLeaderboardTable builds a styled leaderboard table.
func NewLeaderboardTable(standings []model.Standing, width, height int) table.Model {
	cols, rows := LeaderboardTableData(standings)
	return newTable(cols, rows, width, height)
}

func newTable(columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

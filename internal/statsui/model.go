// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pokeguess/internal/model"
	"github.com/verte-zerg/pokeguess/internal/stats"
)

const (
	tabOverview = iota
	tabSettings
)

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
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// StatsStore exposes the persisted counters.
type StatsStore interface {
	Current() model.Stats
	Reset(ctx context.Context) (model.Stats, error)
}

// SettingsReader exposes the saved settings.
type SettingsReader interface {
	Snapshot() model.Settings
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	ctx      context.Context
	stats    StatsStore
	settings SettingsReader

	tabs      []string
	activeTab int
	genTable  table.Model

	width  int
	height int

	confirmReset bool
	errMsg       string
	statusMsg    string
}

// NewModel constructs a stats UI model.
func NewModel(ctx context.Context, st StatsStore, settings SettingsReader) *Model {
	m := &Model{
		ctx:      ctx,
		stats:    st,
		settings: settings,
		tabs:     []string{"Overview", "Settings"},
	}
	m.genTable = buildGenTable(settings.Snapshot(), 0, model.MaxGeneration+1)
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
		m.genTable = buildGenTable(m.settings.Snapshot(), m.width, m.bodyHeight())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmReset {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.confirmReset = true
			m.statusMsg = ""
			return m, nil
		}
		if m.activeTab == tabSettings {
			var cmd tea.Cmd
			m.genTable, cmd = m.genTable.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.confirmReset = false
		if _, err := m.stats.Reset(m.ctx); err != nil {
			m.errMsg = fmt.Sprintf("Failed to reset stats: %v", err)
			return m, nil
		}
		m.errMsg = ""
		m.statusMsg = "Stats reset."
	case "n", "N", "esc", "q":
		m.confirmReset = false
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirmReset {
		return fitLines(m.renderConfirmModal(), m.width, m.height)
	}
	header := padLines(m.renderTabs(), m.width)
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) bodyHeight() int {
	h := m.height - lipgloss.Height(activeNavStyle.Render("X")) - 2
	return maxInt(3, h)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabSettings {
		m.genTable.Focus()
	} else {
		m.genTable.Blur()
	}
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

func (m *Model) renderBody() string {
	if m.activeTab == tabSettings {
		return tableMutedStyle.Render(m.genTable.View())
	}
	return renderSummaryCards(m.stats.Current(), m.width)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Reset: r  Quit: q")
	switch {
	case m.errMsg != "":
		return help + "\n" + errorStyle.Render(m.errMsg)
	case m.statusMsg != "":
		return help + "\n" + headerStyle.Render(m.statusMsg)
	}
	return help
}

func (m *Model) renderConfirmModal() string {
	body := []string{
		cardValueStyle.Render("Reset stats?"),
		"Best time, guesses and accuracy will be cleared.",
		headerStyle.Render("y to confirm / n to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderSummaryCards(s model.Stats, width int) string {
	sum := stats.Summarize(s)
	cards := []string{
		metricCard("Best time", sum.BestTime),
		metricCard("Accuracy", sum.Accuracy),
		metricCard("Correct", sum.Correct),
		metricCard("Guesses", sum.Guesses),
	}
	if s.TotalGuesses == 0 {
		cards = append(cards, headerStyle.Render("No guesses yet."))
	}
	if width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildGenTable(cfg model.Settings, width, height int) table.Model {
	rows := make([]table.Row, 0, model.MaxGeneration+2)
	for i := 0; i < model.MaxGeneration; i++ {
		on := i < len(cfg.SelectedGens) && cfg.SelectedGens[i]
		rows = append(rows, table.Row{"Generation " + strconv.Itoa(i+1), yesNo(on)})
	}
	rows = append(rows,
		table.Row{"Difficulty", cfg.Difficulty.String()},
		table.Row{"Exact spelling", yesNo(cfg.ExactSpelling)},
	)
	valueWidth := 10
	nameWidth := maxInt(16, minInt(width-valueWidth-4, 30))
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Setting", Width: nameWidth},
			{Title: "Value", Width: valueWidth},
		}),
		table.WithRows(rows),
		table.WithHeight(maxInt(3, minInt(height, len(rows)+1))),
		table.WithStyles(genTableStyles()),
	)
}

func genTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#4A4A4A")).
		Bold(false)
	return styles
}

func yesNo(on bool) string {
	if on {
		return "yes"
	}
	return "no"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
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

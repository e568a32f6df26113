// Package tui provides the Bubble Tea guessing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/pokeguess/internal/catalog"
	"github.com/verte-zerg/pokeguess/internal/game"
	"github.com/verte-zerg/pokeguess/internal/match"
	"github.com/verte-zerg/pokeguess/internal/model"
	"github.com/verte-zerg/pokeguess/internal/pokeapi"
	"github.com/verte-zerg/pokeguess/internal/timer"
)

// Session is the subset of the game controller the UI drives.
type Session interface {
	Initialize(ctx context.Context) error
	NewRound(ctx context.Context) error
	Reveal()
	SetGuess(text string)
	SubmitGuess(ctx context.Context, text string) (match.Result, error)
	State() model.SessionState
	Stats() model.Stats
}

// SettingsEditor reads and persists the player's settings.
type SettingsEditor interface {
	Snapshot() model.Settings
	ToggleGeneration(ctx context.Context, idx int) (model.Settings, error)
	SetDifficulty(ctx context.Context, d model.Difficulty) (model.Settings, error)
	ToggleExactSpelling(ctx context.Context) (model.Settings, error)
}

type roundMsg struct {
	err error
}

type guessMsg struct {
	result match.Result
	err    error
}

type tickMsg time.Time

// Model implements the Bubble Tea guessing UI.
type Model struct {
	ctx      context.Context
	session  Session
	settings SettingsEditor
	log      zerolog.Logger

	input   textinput.Model
	spinner spinner.Model

	width  int
	height int

	pending    bool
	panelOpen  bool
	panelIndex int
	notice     string
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	hiddenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle    = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs a guessing TUI model.
func NewModel(ctx context.Context, session Session, settings SettingsEditor, log zerolog.Logger) *Model {
	input := textinput.New()
	input.Placeholder = "Guess the name..."
	input.Prompt = "> "
	input.CharLimit = 64
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		ctx:      ctx,
		session:  session,
		settings: settings,
		log:      log,
		input:    input,
		spinner:  spin,
		pending:  true,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.initializeCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(timer.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) initializeCmd() tea.Cmd {
	return func() tea.Msg {
		return roundMsg{err: m.session.Initialize(m.ctx)}
	}
}

// newRoundCmd starts a round, loading the catalog first when it never loaded.
func (m *Model) newRoundCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.session.NewRound(m.ctx)
		if errors.Is(err, game.ErrNotInitialized) {
			err = m.session.Initialize(m.ctx)
		}
		return roundMsg{err: err}
	}
}

func (m *Model) submitCmd(text string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.session.SubmitGuess(m.ctx, text)
		return guessMsg{result: res, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(10, minInt(40, m.width-6))
		return m, nil
	case tickMsg:
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case roundMsg:
		m.pending = false
		m.handleRoundResult(msg.err)
		return m, nil
	case guessMsg:
		m.pending = false
		m.handleGuessResult(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.panelOpen {
			return m.updatePanel(msg)
		}
		return m.updatePlay(msg)
	}
	return m, nil
}

func (m *Model) handleRoundResult(err error) {
	switch {
	case err == nil:
		m.notice = ""
		m.input.Reset()
	case errors.Is(err, catalog.ErrNoGenerationSelected):
		m.notice = "Select at least one generation to start a round."
		m.panelOpen = true
	case errors.Is(err, game.ErrBusy):
		m.notice = "Still loading, please wait."
	default:
		m.notice = ""
		m.log.Error().Err(err).Msg("round failed")
	}
}

func (m *Model) handleGuessResult(msg guessMsg) {
	switch {
	case errors.Is(msg.err, game.ErrNotAwaitingAnswer):
		m.notice = "Start a new round to guess again."
	case msg.err != nil:
		m.notice = "Stats could not be saved."
		m.log.Error().Err(msg.err).Msg("failed to save stats")
	default:
		m.notice = ""
	}
	if msg.result.Correct {
		m.input.Reset()
	}
}

func (m *Model) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		m.panelOpen = true
		return m, nil
	case tea.KeyCtrlR:
		m.session.Reveal()
		return m, nil
	case tea.KeyCtrlN:
		return m.startRound()
	case tea.KeyEnter:
		st := m.session.State()
		switch {
		case st.AwaitingAnswer:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.pending {
				return m, nil
			}
			m.pending = true
			return m, m.submitCmd(text)
		case st.Phase == model.Loading:
			return m, nil
		default:
			return m.startRound()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetGuess(m.input.Value())
	return m, cmd
}

func (m *Model) startRound() (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	m.pending = true
	m.notice = ""
	return m, tea.Batch(m.spinner.Tick, m.newRoundCmd())
}

// View implements tea.Model.
func (m *Model) View() string {
	st := m.session.State()
	sections := []string{
		titleStyle.Render("Who's That Pokémon?"),
		m.renderSubject(st),
		m.renderStatus(st),
	}
	if st.AwaitingAnswer {
		sections = append(sections, m.input.View())
	}
	if m.notice != "" {
		sections = append(sections, wrongStyle.Render(m.notice))
	}
	if m.panelOpen {
		sections = append(sections, m.renderPanel())
	}
	sections = append(sections, mutedStyle.Render(m.renderHelp(st)))
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)

	footer := m.renderFooter(st)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderSubject(st model.SessionState) string {
	width := m.contentWidth()
	var lines []string
	switch {
	case st.Phase == model.Loading || (m.pending && !st.Current.Valid()):
		lines = append(lines, m.spinner.View()+" Loading catalog...")
	case st.Phase == model.Failed:
		lines = append(lines, wrongStyle.Render(failureText(st.Err)))
		lines = append(lines, wrapText(errorDetail(st.Err), width)...)
	case st.Hidden:
		lines = append(lines, hiddenStyle.Render(silhouette(st.Current.Name, m.settings.Snapshot().Difficulty)))
		if st.Current.CryURL != "" {
			lines = append(lines, mutedStyle.Render("Cry:"))
			lines = append(lines, wrapText(st.Current.CryURL, width)...)
		}
	default:
		name := match.DisplayName(st.Current.Name)
		if st.Current.Valid() {
			name = fmt.Sprintf("#%03d %s", st.Current.ID, name)
		}
		lines = append(lines, nameStyle.Render(name))
		if st.Current.Valid() {
			lines = append(lines, wrapText(pokeapi.SpriteURL(st.Current), width)...)
		}
		if st.Current.CryURL != "" {
			lines = append(lines, wrapText(st.Current.CryURL, width)...)
		}
	}
	return cardStyle.Width(width + 6).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderStatus(st model.SessionState) string {
	clock := timer.Format(st.Elapsed) + "s"
	switch st.Outcome {
	case model.Correct:
		return correctStyle.Render("Correct! " + clock)
	case model.Wrong:
		return wrongStyle.Render("Not quite. Try again. ") + clock
	}
	if st.Phase == model.Revealed {
		return mutedStyle.Render("Revealed. " + clock)
	}
	return clock
}

func (m *Model) renderHelp(st model.SessionState) string {
	if st.AwaitingAnswer {
		return "enter guess · ctrl+r reveal · ctrl+n skip · tab settings · esc quit"
	}
	return "enter new round · tab settings · esc quit"
}

// renderFooter shows persisted stats for the player.
func (m *Model) renderFooter(st model.SessionState) string {
	stats := m.session.Stats()
	cfg := m.settings.Snapshot()
	segments := []string{
		fmt.Sprintf("Best %s", timer.Format(stats.BestTime)),
		fmt.Sprintf("Correct %d/%d · %.1f%%", stats.CorrectGuesses, stats.TotalGuesses, stats.Accuracy()*100),
		fmt.Sprintf("Difficulty %s", cfg.Difficulty),
	}
	if cfg.ExactSpelling {
		segments = append(segments, "Exact spelling")
	}
	if st.Phase == model.Loading {
		segments = append(segments, "Loading")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := int(float64(m.width) * 0.70)
	return maxInt(10, minInt(w, 80))
}

// silhouette hides the name. Normal shows one mark per letter, Hard shows none.
func silhouette(name string, difficulty model.Difficulty) string {
	if difficulty == model.Hard {
		return "? ? ?"
	}
	words := strings.Fields(match.DisplayName(name))
	for i, w := range words {
		words[i] = strings.TrimSpace(strings.Repeat("_ ", len([]rune(w))))
	}
	if len(words) == 0 {
		return "?"
	}
	return strings.Join(words, "   ")
}

func failureText(err error) string {
	switch {
	case errors.Is(err, catalog.ErrCatalogLoad):
		return "Could not load the catalog. Press enter to retry."
	case errors.Is(err, catalog.ErrSubjectResolution):
		return "Could not load this Pokémon. Press enter to try another."
	default:
		return "Something went wrong. Press enter to retry."
	}
}

func errorDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
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

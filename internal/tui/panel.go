package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pokeguess/internal/model"
)

const (
	panelRowDifficulty = model.MaxGeneration + iota
	panelRowExact
	panelRows
)

func (m *Model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "esc", "q":
		m.panelOpen = false
		return m, nil
	case "up", "k":
		m.panelIndex = (m.panelIndex + panelRows - 1) % panelRows
		return m, nil
	case "down", "j":
		m.panelIndex = (m.panelIndex + 1) % panelRows
		return m, nil
	case "left", "h":
		if m.panelIndex == panelRowDifficulty {
			m.shiftDifficulty(-1)
		}
		return m, nil
	case "right", "l":
		if m.panelIndex == panelRowDifficulty {
			m.shiftDifficulty(1)
		}
		return m, nil
	case " ", "enter", "x":
		m.togglePanelRow()
		return m, nil
	}
	return m, nil
}

func (m *Model) togglePanelRow() {
	var err error
	switch {
	case m.panelIndex < model.MaxGeneration:
		_, err = m.settings.ToggleGeneration(m.ctx, m.panelIndex)
	case m.panelIndex == panelRowDifficulty:
		m.shiftDifficulty(1)
		return
	case m.panelIndex == panelRowExact:
		_, err = m.settings.ToggleExactSpelling(m.ctx)
	}
	m.reportSettingsErr(err)
}

func (m *Model) shiftDifficulty(delta int) {
	n := len(model.Difficulties)
	cur := int(m.settings.Snapshot().Difficulty)
	next := model.Difficulties[((cur+delta)%n+n)%n]
	_, err := m.settings.SetDifficulty(m.ctx, next)
	m.reportSettingsErr(err)
}

func (m *Model) reportSettingsErr(err error) {
	if err == nil {
		if len(m.settings.Snapshot().SelectedIndices()) > 0 {
			m.notice = ""
		}
		return
	}
	m.notice = "Settings could not be saved."
	m.log.Error().Err(err).Msg("failed to save settings")
}

func (m *Model) renderPanel() string {
	cfg := m.settings.Snapshot()
	lines := make([]string, 0, panelRows+2)
	lines = append(lines, titleStyle.Render("Settings"))
	for i := 0; i < model.MaxGeneration; i++ {
		on := i < len(cfg.SelectedGens) && cfg.SelectedGens[i]
		lines = append(lines, m.panelLine(i, fmt.Sprintf("%s Generation %d", checkbox(on), i+1)))
	}
	lines = append(lines, m.panelLine(panelRowDifficulty, "Difficulty  "+difficultyRadio(cfg.Difficulty)))
	lines = append(lines, m.panelLine(panelRowExact, checkbox(cfg.ExactSpelling)+" Exact spelling"))
	lines = append(lines, mutedStyle.Render("↑/↓ move · space toggle · ←/→ difficulty · tab close"))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) panelLine(row int, text string) string {
	if row == m.panelIndex {
		return nameStyle.Render("› " + text)
	}
	return "  " + text
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func difficultyRadio(selected model.Difficulty) string {
	parts := make([]string, 0, len(model.Difficulties))
	for _, d := range model.Difficulties {
		mark := "( )"
		if d == selected {
			mark = "(•)"
		}
		parts = append(parts, mark+" "+d.String())
	}
	return strings.Join(parts, "  ")
}

package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/raytone/pkg/engine"
	"github.com/matzehuels/raytone/pkg/errors"
)

// bpmStep is how far +/- move the tempo.
const bpmStep = 5

// stepMsg asks the monitor to run one control step.
type stepMsg time.Time

// =============================================================================
// MonitorModel - Live view of a playing patch
// =============================================================================

// MonitorModel is the bubbletea model behind play --tui. It owns the engine
// while the program runs: every step and every key goes through Update.
type MonitorModel struct {
	Engine *engine.Engine
	Title  string

	// Limit stops playback after that many steps. Zero plays until quit.
	Limit int

	Steps  int
	Paused bool
	Cycle  string
}

// NewMonitorModel creates a monitor for eng.
func NewMonitorModel(eng *engine.Engine, title string, limit int) MonitorModel {
	return MonitorModel{Engine: eng, Title: title, Limit: limit}
}

func (m MonitorModel) Init() tea.Cmd {
	return m.next()
}

func (m MonitorModel) next() tea.Cmd {
	return tea.Tick(m.Engine.Period(), func(t time.Time) tea.Msg { return stepMsg(t) })
}

func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		if !m.Paused {
			m.Cycle = ""
			if err := m.Engine.Tick(); err != nil {
				m.Cycle = errors.UserMessage(err)
			}
			m.Steps++
			if m.Limit > 0 && m.Steps >= m.Limit {
				return m, tea.Quit
			}
		}
		return m, m.next()
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "up":
			m.Engine.SetBPM(m.Engine.BPM() + bpmStep)
		case "-", "down":
			m.Engine.SetBPM(m.Engine.BPM() - bpmStep)
		case " ":
			m.Paused = !m.Paused
		case "enter":
			m.Engine.ResetStep()
		default:
			if len(msg.Runes) == 1 {
				// Terminals report presses only, so the key is held for one step.
				m.Engine.KeyDown(key)
				m.Engine.Defer(func() { m.Engine.KeyUp(key) })
			}
		}
	}
	return m, nil
}

func (m MonitorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	status := fmt.Sprintf("step %d · %d bpm", m.Steps, m.Engine.BPM())
	if m.Paused {
		status += " · paused"
	}
	b.WriteString(StyleDim.Render(status))
	if m.Cycle != "" {
		b.WriteString("  " + StyleWarning.Render(m.Cycle))
	}
	b.WriteString("\n\n")

	if m.Engine.Registry().Len() > 0 {
		b.WriteString(unitTable(m.Engine.Registry()))
		b.WriteString("\n\n")
	}
	b.WriteString(StyleDim.Render("+/- tempo  space pause  ⏎ reset  a-z keys  q quit"))
	return b.String()
}

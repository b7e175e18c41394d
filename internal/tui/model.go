// Package tui is a terminal control surface for the parameters of a
// running patch. Edits go straight to the modules' atomic parameters.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-rack/eurorack"
	"github.com/cwbudde/algo-rack/module"
	"github.com/cwbudde/algo-rack/patch"
)

const refreshInterval = 200 * time.Millisecond

// row is one editable parameter value.
type row struct {
	instance int
	label    string
	param    module.Scalar
}

// Model is the bubbletea model of the parameter editor.
type Model struct {
	// Status, when set, is rendered in the header on every refresh.
	Status func() string

	instances []patch.Instance
	rows      []row
	cursor    int
	quitting  bool
	styles    styles
}

type refreshMsg struct{}

// NewModel lists the parameters of instances.
func NewModel(instances []patch.Instance) Model {
	m := Model{instances: instances, styles: defaultStyles()}

	for i, inst := range instances {
		for _, f := range inst.Module.Params() {
			if f.List == nil {
				m.rows = append(m.rows, row{instance: i, label: f.Name, param: f.Scalar})
				continue
			}

			for j, s := range f.List {
				m.rows = append(m.rows, row{instance: i, label: fmt.Sprintf("%s[%d]", f.Name, j), param: s})
			}
		}
	}

	return m
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m Model) Init() tea.Cmd {
	return refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.cursor = max(m.cursor-1, 0)

		case "down", "j":
			m.cursor = min(m.cursor+1, max(len(m.rows)-1, 0))

		case "left", "h":
			m.adjust(-1, false)

		case "right", "l":
			m.adjust(1, false)

		case "shift+left", "H":
			m.adjust(-1, true)

		case "shift+right", "L":
			m.adjust(1, true)
		}

	case refreshMsg:
		return m, refresh()
	}

	return m, nil
}

// adjust nudges the selected parameter. Notes move by semitones (octaves
// when coarse); other values by 0.01 below magnitude 1 and by 5% above.
func (m *Model) adjust(dir float32, coarse bool) {
	if len(m.rows) == 0 {
		return
	}

	p := m.rows[m.cursor].param
	v := p.Value()

	var step float32

	switch p.(type) {
	case *module.Note:
		step = 1
		if coarse {
			step = 12
		}
	default:
		step = 0.01
		if a := float32(math.Abs(float64(v))); a >= 1 {
			step = a * 0.05
		}

		if coarse {
			step *= 10
		}
	}

	p.SetValue(v + dir*step)
}

// Selected returns the label and value of the selected parameter.
func (m Model) Selected() (string, float32, bool) {
	if len(m.rows) == 0 {
		return "", 0, false
	}

	r := m.rows[m.cursor]

	return m.instances[r.instance].ID + "." + r.label, r.param.Value(), true
}

func formatValue(p module.Scalar) string {
	if n, ok := p.(*module.Note); ok {
		return fmt.Sprintf("%-4s (%d)", eurorack.NoteName(n.Get()), n.Get())
	}

	return fmt.Sprintf("%.4g", p.Value())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var out strings.Builder

	header := "oxrack"
	if m.Status != nil {
		header += "  " + m.Status()
	}

	out.WriteString("\n")
	out.WriteString(m.styles.header.Render(header))
	out.WriteString("\n")

	last := -1

	for i, r := range m.rows {
		if r.instance != last {
			inst := m.instances[r.instance]
			out.WriteString("\n")
			out.WriteString(m.styles.module.Render(fmt.Sprintf("%s %v", inst.ID, inst.Handle)))
			out.WriteString("\n")
			last = r.instance
		}

		line := lipgloss.JoinHorizontal(lipgloss.Top,
			"  ",
			m.styles.name.Render(r.label),
			m.styles.value.Render(formatValue(r.param)))
		if i == m.cursor {
			line = lipgloss.JoinHorizontal(lipgloss.Top,
				" ",
				m.styles.selected.Render(r.label+"  "+formatValue(r.param)))
		}

		out.WriteString(line)
		out.WriteString("\n")
	}

	if len(m.rows) == 0 {
		out.WriteString(m.styles.dim.Render("\nno parameters\n"))
	}

	out.WriteString("\n")
	out.WriteString(m.styles.dim.Render("j/k:select  h/l:adjust  H/L:coarse  q:quit"))

	return out.String()
}

// Run shows the editor until the user quits.
func Run(instances []patch.Instance, status func() string) error {
	m := NewModel(instances)
	m.Status = status

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()

	return err
}

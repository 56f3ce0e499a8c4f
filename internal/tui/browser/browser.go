// Package browser is an interactive table of discovered workloads.
package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nbkit/internal/tui/styles"
	"nbkit/internal/workload"
)

type Model struct {
	Workloads []workload.Desc
	Table     table.Model

	ShowDetail bool
	Quitting   bool

	Width  int
	Height int
}

func NewModel(workloads []workload.Desc) Model {
	columns := []table.Column{
		{Title: "Workload", Width: 40},
		{Title: "Scenarios", Width: 10},
		{Title: "Templates", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.ColorPrimary)
	s.Selected = s.Selected.
		Foreground(styles.ColorBg).
		Background(styles.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	rows := make([]table.Row, len(workloads))
	for i, w := range workloads {
		rows[i] = table.Row{
			w.YAMLPath(),
			fmt.Sprintf("%d", len(w.ScenarioNames())),
			fmt.Sprintf("%d", w.Templates().Len()),
		}
	}
	t.SetRows(rows)

	return Model{
		Workloads: workloads,
		Table:     t,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Selected returns the workload under the cursor.
func (m Model) Selected() (workload.Desc, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.Workloads) {
		return workload.Desc{}, false
	}
	return m.Workloads[i], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Table.SetWidth(msg.Width - 4)
		m.Table.SetHeight(max(msg.Height/2, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Quitting = true
			return m, tea.Quit
		case "enter", " ":
			m.ShowDetail = !m.ShowDetail
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	s := strings.Builder{}
	s.WriteString(styles.Title.Render(fmt.Sprintf("Workloads (%d)", len(m.Workloads))))
	s.WriteString("\n\n")

	if len(m.Workloads) == 0 {
		s.WriteString(styles.Subtle.Render("No workloads found."))
	} else {
		s.WriteString(m.Table.View())
	}

	if w, ok := m.Selected(); ok && m.ShowDetail {
		s.WriteString("\n\n")
		s.WriteString(renderDetail(w))
	}

	s.WriteString("\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		styles.RenderKey("↑/↓", "move"), "  ",
		styles.RenderKey("enter", "details"), "  ",
		styles.RenderKey("q", "quit"),
	))

	return styles.Box.Render(s.String())
}

func renderDetail(w workload.Desc) string {
	s := strings.Builder{}
	s.WriteString(styles.Active.Render(w.YAMLPath()))
	s.WriteString("\n")

	s.WriteString(styles.Subtle.Render("Scenarios: "))
	s.WriteString(styles.Value.Render(strings.Join(w.ScenarioNames(), ", ")))
	s.WriteString("\n")

	s.WriteString(styles.Subtle.Render("Templates: "))
	if w.Templates().Len() == 0 {
		s.WriteString(styles.Subtle.Render("none"))
	} else {
		s.WriteString(styles.Warn.Render(strings.Join(w.Templates().Sorted(), ", ")))
	}
	return s.String()
}

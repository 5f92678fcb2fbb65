package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/footrule/pkg/history"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// RunListModel - Interactive run selection
// =============================================================================

// RunListModel is the bubbletea model for browsing recorded runs.
type RunListModel struct {
	Runs     []*history.Run
	Cursor   int
	Selected *history.Run
	Height   int
	Offset   int

	now func() time.Time
}

// NewRunListModel creates a new run list model.
func NewRunListModel(runs []*history.Run) RunListModel {
	return RunListModel{
		Runs:   runs,
		Height: 15,
		now:    time.Now,
	}
}

func (m RunListModel) Init() tea.Cmd {
	return nil
}

func (m RunListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Runs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Runs) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Runs[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RunListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Recorded Runs"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ show  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Runs))

	now := time.Now
	if m.now != nil {
		now = m.now
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Runs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		cached := ""
		if r.Cached {
			cached = iconCached
		}
		rows = append(rows, []string{
			cursor,
			r.ID[:min(8, len(r.ID))],
			formatRelativeTime(r.CreatedAt, now()),
			fmt.Sprintf("%d", r.Len()),
			fmt.Sprintf("%.6f", r.Distance),
			r.Method,
			cached,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Run", "Created", "Items", "Distance", "Method", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 2 || col == 6 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Runs))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

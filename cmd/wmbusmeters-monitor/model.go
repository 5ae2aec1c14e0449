package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// row is one rendered table line: a single field of a single meter's most
// recent reading.
type row struct {
	meter, driver, id, field, value, unit string
	updated                               time.Time
}

type model struct {
	bridge string
	feed   *feed
	table  table.Model
	rows   map[string]row // keyed by meter+"/"+field
	lastErr string
	total   int
}

func newModel(bridge string, f *feed) model {
	columns := []table.Column{
		{Title: "Meter", Width: 14},
		{Title: "Driver", Width: 12},
		{Title: "ID", Width: 10},
		{Title: "Field", Width: 20},
		{Title: "Value", Width: 12},
		{Title: "Unit", Width: 6},
		{Title: "Updated", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
	)

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err == nil && width > 0 && height > 0 {
		t.SetWidth(width)
		t.SetHeight(height - 4)
	}

	return model{
		bridge: bridge,
		feed:   f,
		table:  t,
		rows:   make(map[string]row),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(msg.Height - 4)
	case reading:
		m.total++
		for _, f := range msg.fields {
			if !f.IncludeInTab {
				continue
			}
			key := msg.meter + "/" + f.Name
			m.rows[key] = row{
				meter:   msg.meter,
				driver:  msg.driver,
				id:      msg.id,
				field:   f.Name,
				value:   fmt.Sprintf("%.3f", f.Value),
				unit:    string(f.DefaultUnit),
				updated: time.Now(),
			}
		}
		m.table.SetRows(m.renderRows())
	case feedErr:
		m.lastErr = msg.err.Error()
	case feedDone:
		m.lastErr = "bridge connection closed"
	}
	return m, nil
}

func (m model) renderRows() []table.Row {
	keys := make([]string, 0, len(m.rows))
	for k := range m.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]table.Row, 0, len(keys))
	for _, k := range keys {
		r := m.rows[k]
		out = append(out, table.Row{
			r.meter, r.driver, r.id, r.field, r.value, r.unit,
			r.updated.Format("15:04:05"),
		})
	}
	return out
}

func (m model) View() string {
	header := headerStyle.Render(fmt.Sprintf("wmbusmeters monitor — %s", m.bridge))
	footer := footerStyle.Render(fmt.Sprintf("%d telegrams decoded · q to quit", m.total))

	view := header + "\n" + m.table.View() + "\n" + footer
	if m.lastErr != "" {
		view += "\n" + errorStyle.Render(m.lastErr)
	}
	return view
}

// Package picker is an interactive table for choosing a serial port.
package picker

import (
	"fmt"
	"strings"

	"github.com/allbin/serialprobe"
	"github.com/allbin/serialprobe/internal/tui/keys"
	"github.com/allbin/serialprobe/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ListFunc enumerates the ports shown in the picker
type ListFunc func() ([]serialprobe.PortInfo, error)

// PortsMsg carries the result of a port scan
type PortsMsg struct {
	Ports []serialprobe.PortInfo
	Err   error
}

// Model is the bubbletea model for choosing a port. It scans on Init and on
// refresh, and records the chosen port, or nothing if the user quits.
type Model struct {
	list     ListFunc
	patterns []string

	ports  []serialprobe.PortInfo
	err    error
	chosen *serialprobe.PortInfo

	table table.Model
	help  help.Model
	keys  keys.PickerKeys
	width int
}

// New creates a picker that scans with list and highlights ports
// matching patterns
func New(list ListFunc, patterns []string) *Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(styles.TableStyles())

	return &Model{
		list:     list,
		patterns: patterns,
		table:    t,
		help:     help.New(),
		keys:     keys.NewPickerKeys(),
		width:    80,
	}
}

func columns(width int) []table.Column {
	// marker, VID:PID and access columns are fixed
	fixed := 2 + 10 + 6 + 8
	rest := width - fixed
	if rest < 30 {
		rest = 30
	}
	portWidth := rest * 2 / 5
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Port", Width: portWidth},
		{Title: "Description", Width: rest - portWidth},
		{Title: "VID:PID", Width: 10},
		{Title: "Access", Width: 6},
	}
}

// Chosen returns the selected port, if the user picked one
func (m *Model) Chosen() (serialprobe.PortInfo, bool) {
	if m.chosen == nil {
		return serialprobe.PortInfo{}, false
	}
	return *m.chosen, true
}

// Err returns the last scan error
func (m *Model) Err() error {
	return m.err
}

func (m *Model) scan() tea.Msg {
	ports, err := m.list()
	return PortsMsg{Ports: ports, Err: err}
}

func (m *Model) Init() tea.Cmd {
	return m.scan
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		m.table.SetWidth(msg.Width)
		// title, blank line and help
		height := msg.Height - 4
		if height < 3 {
			height = 3
		}
		m.table.SetHeight(height)
		return m, nil

	case PortsMsg:
		m.setPorts(msg.Ports, msg.Err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.scan
		case key.Matches(msg, m.keys.Select):
			if len(m.ports) == 0 {
				return m, nil
			}
			port := m.ports[m.table.Cursor()]
			m.chosen = &port
			return m, tea.Quit
		case key.Matches(msg, m.keys.GotoTop):
			m.table.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.GotoBottom):
			m.table.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// setPorts replaces the rows and puts the cursor on the port discovery
// would pick
func (m *Model) setPorts(ports []serialprobe.PortInfo, err error) {
	m.ports = ports
	m.err = err

	rows := make([]table.Row, 0, len(ports))
	cursor := -1
	for i, p := range ports {
		marker := ""
		if p.Matches(m.patterns) {
			marker = "●"
			if cursor < 0 {
				cursor = i
			}
		}
		rows = append(rows, table.Row{marker, p.Path, p.Description, usbID(p), access(p)})
	}
	m.table.SetRows(rows)

	if cursor < 0 {
		cursor = 0
	}
	m.table.SetCursor(cursor)
}

func usbID(p serialprobe.PortInfo) string {
	if p.VendorID == "" && p.ProductID == "" {
		return "-"
	}
	return p.VendorID + ":" + p.ProductID
}

func access(p serialprobe.PortInfo) string {
	if p.Accessible {
		return "rw"
	}
	return "denied"
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Select a serial port"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Error listing ports: %v", m.err)))
		b.WriteString("\n")
	case len(m.ports) == 0:
		b.WriteString(styles.InfoStyle.Render("No serial ports found. Press r to rescan."))
		b.WriteString("\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.String(), m.help.View(m.keys))
}

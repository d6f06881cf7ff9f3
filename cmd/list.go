/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/allbin/serialprobe"
	"github.com/allbin/serialprobe/internal/tui/colors"
	"github.com/allbin/serialprobe/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

// allow tests to override the port listing
var listPorts = serialprobe.ListPorts

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all serial ports reported by the operating system, in the order
the system reports them.

Ports whose description matches the discovery patterns are marked. The
first of them is the port serialprobe connects to when no port is given.

Filters:
  usb       USB serial adapters and CDC/ACM devices
  match     only ports matching the discovery patterns
  standard  built-in UARTs (ttyS*, COM*)
  arm       ARM/Raspberry Pi UARTs (ttyAMA*)
  all       everything (default)`,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := listPorts()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error listing ports: %v\n", err)
			exit(1)
			return
		}

		out := cmd.OutOrStdout()
		if len(ports) == 0 {
			fmt.Fprintln(out, "No serial ports found")
			return
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")
		patterns := matchPatterns()

		filtered := filterPorts(ports, filterType, patterns)
		if len(filtered) == 0 {
			fmt.Fprintf(out, "No serial ports found matching filter: %s\n", filterType)
			return
		}

		selected, _ := serialprobe.FindDevice(ports, patterns)
		if tableFormat {
			renderTable(out, filtered, patterns, selected.Path)
		} else {
			renderSimple(out, filtered, patterns)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, match, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// matchPatterns returns the discovery patterns set by --match or the defaults
func matchPatterns() []string {
	if patterns := configuredPatterns(); len(patterns) > 0 {
		return patterns
	}
	return serialprobe.DefaultPatterns
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []serialprobe.PortInfo, filterType string, patterns []string) []serialprobe.PortInfo {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []serialprobe.PortInfo
	for _, port := range ports {
		name := strings.ToLower(port.Name)
		switch filterType {
		case "usb":
			if port.IsUSB || strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm") {
				filtered = append(filtered, port)
			}
		case "match":
			if port.Matches(patterns) {
				filtered = append(filtered, port)
			}
		case "standard":
			if !port.IsUSB && (strings.HasPrefix(name, "ttys") || strings.HasPrefix(name, "com")) {
				filtered = append(filtered, port)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, port)
			}
		}
	}
	return filtered
}

// renderSimple prints one port per line, tab separated, matches flagged
func renderSimple(w io.Writer, ports []serialprobe.PortInfo, patterns []string) {
	for _, port := range ports {
		line := port.Path + "\t" + port.Description
		if port.Matches(patterns) {
			line += "\t(match)"
		}
		fmt.Fprintln(w, line)
	}
}

const (
	columnKeyMarker = "marker"
	columnKeyPort   = "port"
	columnKeyType   = "type"
	columnKeyDesc   = "description"
	columnKeyUSB    = "usb"
	columnKeyAccess = "access"
)

// renderTable renders the port list as a static bordered table
func renderTable(w io.Writer, ports []serialprobe.PortInfo, patterns []string, selected string) {
	fmt.Fprintf(w, "Found %d serial port(s):\n\n", len(ports))

	columns := []table.Column{
		table.NewColumn(columnKeyMarker, "", 2),
		table.NewColumn(columnKeyPort, "Port", 16),
		table.NewColumn(columnKeyType, "Type", 16),
		table.NewColumn(columnKeyDesc, "Description", 32),
		table.NewColumn(columnKeyUSB, "VID:PID", 10),
		table.NewColumn(columnKeyAccess, "Access", 7),
	}

	rows := make([]table.Row, 0, len(ports))
	for _, port := range ports {
		marker := ""
		style := lipgloss.NewStyle()
		switch {
		case port.Path == selected:
			marker = "▶"
			style = styles.MatchStyle
		case port.Matches(patterns):
			marker = "●"
			style = styles.MatchStyle
		case !port.Accessible:
			style = styles.InaccessibleStyle
		}

		access := "rw"
		if !port.Accessible {
			access = "denied"
		}
		usbID := "-"
		if port.VendorID != "" || port.ProductID != "" {
			usbID = port.VendorID + ":" + port.ProductID
		}

		rows = append(rows, table.NewRow(table.RowData{
			columnKeyMarker: marker,
			columnKeyPort:   port.Path,
			columnKeyType:   getPortType(port.Name),
			columnKeyDesc:   port.Description,
			columnKeyUSB:    usbID,
			columnKeyAccess: access,
		}).WithStyle(style))
	}

	t := table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Mauve)).
		WithBaseStyle(lipgloss.NewStyle().BorderForeground(colors.Surface2).Align(lipgloss.Left))

	fmt.Fprintln(w, t.View())
	if selected != "" {
		fmt.Fprintf(w, "\n▶ %s is used when no port is given\n", selected)
	}
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "tty.usbmodem"), strings.HasPrefix(name, "cu.usbmodem"):
		return "USB Modem"
	case strings.HasPrefix(name, "tty.usbserial"), strings.HasPrefix(name, "cu.usbserial"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	case strings.HasPrefix(name, "com"):
		return "COM Port"
	default:
		return "Serial Port"
	}
}

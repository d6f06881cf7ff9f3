/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/allbin/serialprobe"
	"github.com/allbin/serialprobe/internal/tui/picker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// allow tests to skip the interactive program
var runPicker = func(m *picker.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// pickCmd represents the pick command
var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose a serial port interactively and connect to it",
	Long: `Show the serial ports of this host in an interactive table and connect
to the one you choose.

The cursor starts on the port discovery would pick. Press enter to connect
with the same settings the root command uses, r to rescan, q to quit.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Invalid configuration: %v\n", err)
			exit(serialprobe.ExitFailure)
			return
		}

		m := picker.New(listPorts, config.Patterns)
		if err := runPicker(m); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exit(serialprobe.ExitFailure)
			return
		}

		port, ok := m.Chosen()
		if !ok {
			return
		}

		logger := newLogger(cmd.ErrOrStderr())
		if code := runSession(cmd, config, port.Path, logger); code != serialprobe.ExitOK {
			exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

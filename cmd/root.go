/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/serialprobe"
	"github.com/allbin/serialprobe/internal/console"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// allow tests to override process exit and the session driver
var (
	exit       = os.Exit
	newSession = func(config serialprobe.Config, reporter serialprobe.Reporter, device string, logger zerolog.Logger) sessionRunner {
		return serialprobe.NewSession(config, reporter,
			serialprobe.WithDevice(device),
			serialprobe.WithLogger(logger),
		)
	}
)

type sessionRunner interface {
	Run(ctx context.Context) serialprobe.Result
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialprobe [port]",
	Short: "Find an Arduino-class board and check that its serial port opens",
	Long: `Find an Arduino-class microcontroller on the serial ports of this host,
open a connection to it and report whether it succeeded.

Discovery picks the first port whose description contains "Arduino" or
"CH340" (override with --match). When nothing matches, the fallback port
is used if one is configured. Passing a port skips discovery entirely.

After opening, serialprobe waits for the board to finish the reset that
opening the port triggers, reports success and closes the port again.
With --hold the port stays open until interrupted.

Every flag can also be set through the environment, e.g.:
  SERIALPROBE_FALLBACK_PORT=COM5
  SERIALPROBE_BAUD_RATE=9600
  SERIALPROBE_SETTLE_DELAY=500ms

Exit status is 0 on success or interrupt and 1 when no port could be
opened.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var device string
		if len(args) == 1 {
			device = args[0]
		}
		if code := probe(cmd, device); code != serialprobe.ExitOK {
			exit(code)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print diagnostic logging to stderr")
	rootCmd.PersistentFlags().StringSliceP("match", "m", nil, `Description substrings that identify the board (default "Arduino,CH340")`)

	rootCmd.PersistentFlags().IntP("baud", "b", serialprobe.DefaultConfig().BaudRate, "Baud rate")
	rootCmd.PersistentFlags().Duration("timeout", serialprobe.DefaultConfig().ReadTimeout, "Read timeout")
	rootCmd.PersistentFlags().Duration("settle", serialprobe.DefaultConfig().SettleDelay, "Time to wait for the board to reset after opening")
	rootCmd.PersistentFlags().String("fallback-port", "", "Port to use when discovery finds nothing")
	rootCmd.PersistentFlags().Bool("hold", false, "Keep the port open until interrupted")

	bindFlags(rootCmd.PersistentFlags())
}

// probe runs one session and returns the process exit status
func probe(cmd *cobra.Command, device string) int {
	logger := newLogger(cmd.ErrOrStderr())

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Invalid configuration: %v\n", err)
		return serialprobe.ExitFailure
	}

	return runSession(cmd, config, device, logger)
}

// runSession connects to device, or to the discovered port when device is
// empty, and reports through the console
func runSession(cmd *cobra.Command, config serialprobe.Config, device string, logger zerolog.Logger) int {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	session := newSession(config, reporter, device, logger)

	result := session.Run(ctx)
	logger.Debug().
		Stringer("outcome", result.Outcome).
		Str("port", result.Target.Path).
		Msg("session finished")

	return result.Outcome.ExitCode()
}

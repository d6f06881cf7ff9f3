/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/allbin/serialprobe"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix namespaces the environment variables read by viper
const envPrefix = "SERIALPROBE"

// configKeys maps viper keys to the flags that set them
var configKeys = map[string]string{
	"baud_rate":     "baud",
	"timeout":       "timeout",
	"settle_delay":  "settle",
	"fallback_port": "fallback-port",
	"match":         "match",
	"hold":          "hold",
	"verbose":       "verbose",
}

// initConfig reads in ENV variables if set. There is no config file.
func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindFlags binds every configKeys entry to its flag. BindPFlag only fails
// when the flag does not exist, so an error here is a misspelled name in
// configKeys.
func bindFlags(flags *pflag.FlagSet) {
	for key, name := range configKeys {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(name)))
	}
}

// loadConfig builds the connection settings from flags and environment
func loadConfig() (serialprobe.Config, error) {
	opts := []serialprobe.Option{
		serialprobe.WithBaudRate(viper.GetInt("baud_rate")),
		serialprobe.WithReadTimeout(viper.GetDuration("timeout")),
		serialprobe.WithSettleDelay(viper.GetDuration("settle_delay")),
		serialprobe.WithFallbackPort(viper.GetString("fallback_port")),
		serialprobe.WithHold(viper.GetBool("hold")),
	}
	if patterns := configuredPatterns(); len(patterns) > 0 {
		opts = append(opts, serialprobe.WithPatterns(patterns...))
	}
	return serialprobe.NewConfig(opts...)
}

// configuredPatterns returns the patterns set by --match or SERIALPROBE_MATCH.
// Viper splits environment values on whitespace only, so every entry is split
// on commas again to accept the same "Arduino,CH340" form as the flag.
func configuredPatterns() []string {
	var patterns []string
	for _, value := range viper.GetStringSlice("match") {
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

// newLogger returns the diagnostic logger. It only prints warnings unless
// --verbose is set.
func newLogger(w io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

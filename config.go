package serialprobe

import (
	"strings"
	"time"
)

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParityMark
	ParitySpace
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	case ParityMark:
		return "M"
	case ParitySpace:
		return "S"
	default:
		return "N"
	}
}

// DefaultPatterns are the description substrings that identify an
// Arduino-class board or its USB-serial bridge.
var DefaultPatterns = []string{"Arduino", "CH340"}

// Config holds the configuration for a probe run
type Config struct {
	BaudRate    int
	DataBits    int
	StopBits    int
	Parity      Parity
	ReadTimeout time.Duration // 0 blocks reads indefinitely
	SettleDelay time.Duration // Wait after open while the board resets

	// FallbackPort is used when discovery finds nothing. Empty means
	// the run fails instead.
	FallbackPort string

	// Patterns are matched case-sensitively against port descriptions.
	Patterns []string

	// Hold keeps the connection open after settling until interrupted.
	Hold bool
}

// Option is a functional option for configuring a probe run
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate:    115200,
		DataBits:    8,
		StopBits:    1,
		Parity:      ParityNone,
		ReadTimeout: time.Second,
		SettleDelay: 2 * time.Second,
		Patterns:    append([]string(nil), DefaultPatterns...),
	}
}

// NewConfig applies opts over DefaultConfig.
func NewConfig(opts ...Option) (Config, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if rate <= 0 {
			return ErrInvalidBaudRate
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits int) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 8 {
			return ErrInvalidConfig
		}
		c.DataBits = bits
		return nil
	}
}

// WithStopBits sets the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(c *Config) error {
		if bits != 1 && bits != 2 {
			return ErrInvalidConfig
		}
		c.StopBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		if parity < ParityNone || parity > ParitySpace {
			return ErrInvalidConfig
		}
		c.Parity = parity
		return nil
	}
}

// WithReadTimeout sets the read timeout of the opened port
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// WithSettleDelay sets how long to wait after opening before reporting success
func WithSettleDelay(delay time.Duration) Option {
	return func(c *Config) error {
		if delay < 0 {
			return ErrInvalidConfig
		}
		c.SettleDelay = delay
		return nil
	}
}

// WithFallbackPort sets the device used when discovery finds no match
func WithFallbackPort(port string) Option {
	return func(c *Config) error {
		c.FallbackPort = strings.TrimSpace(port)
		return nil
	}
}

// WithPatterns replaces the description patterns used by discovery
func WithPatterns(patterns ...string) Option {
	return func(c *Config) error {
		if len(patterns) == 0 {
			return ErrInvalidConfig
		}
		for _, p := range patterns {
			if p == "" {
				return ErrInvalidConfig
			}
		}
		c.Patterns = append([]string(nil), patterns...)
		return nil
	}
}

// WithHold keeps the port open after a successful connect until interrupted
func WithHold(hold bool) Option {
	return func(c *Config) error {
		c.Hold = hold
		return nil
	}
}

package serialprobe

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var hints = []string{
	"Is the Arduino plugged in?",
	"Is the port correct?",
	"Is another program using the port?",
}

// Hints returns the suggestions shown after a failed connection attempt.
// Each call returns a new slice.
func Hints() []string {
	return append([]string(nil), hints...)
}

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
)

// State is a step of the session lifecycle
type State int

const (
	StateIdle State = iota
	StateDiscovering
	StateConnecting
	StateConnected
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscovering:
		return "discovering"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Outcome tags how a session ended
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeConnectionError
	OutcomeInterrupted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeConnectionError:
		return "connection error"
	case OutcomeInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ExitCode maps the outcome to a process exit status. An interrupt is a
// normal termination.
func (o Outcome) ExitCode() int {
	if o == OutcomeConnectionError {
		return ExitFailure
	}
	return ExitOK
}

// Result is what a session run produced
type Result struct {
	Outcome Outcome
	Target  Target
	Err     error // set for OutcomeConnectionError
}

// Reporter receives the user-facing lifecycle events of a session
type Reporter interface {
	Discovered(port PortInfo)
	FallbackUsed(path string, discoveryErr error)
	Connecting(path string)
	Connected(path string)
	ConnectionFailed(err error, hints []string)
	Interrupted()
	Closed(path string)
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithDevice skips discovery and connects to path
func WithDevice(path string) SessionOption {
	return func(s *Session) {
		s.device = path
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session runs one discover, connect, settle and close cycle
type Session struct {
	config   Config
	device   string
	reporter Reporter
	logger   zerolog.Logger

	open  func(device string, config Config) (Port, error)
	after func(d time.Duration) <-chan time.Time

	mu    sync.Mutex
	state State
}

// NewSession creates a session in the idle state
func NewSession(config Config, reporter Reporter, opts ...SessionOption) *Session {
	s := &Session{
		config:   config,
		reporter: reporter,
		logger:   zerolog.Nop(),
		open:     OpenWithConfig,
		after:    time.After,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.mu.Unlock()

	s.logger.Debug().Stringer("from", prev).Stringer("to", state).Msg("session state")
}

// Run resolves the target port, opens it, waits for the board to settle
// and reports the result. Cancelling ctx is treated as a user interrupt.
// Whatever the path taken, an opened port is closed before Run returns.
func (s *Session) Run(ctx context.Context) Result {
	var handle Port
	defer func() {
		if handle != nil && handle.IsOpen() {
			if err := handle.Close(); err != nil {
				s.logger.Warn().Err(err).Str("port", handle.Path()).Msg("error closing port")
			}
			s.reporter.Closed(handle.Path())
		}
		s.setState(StateClosed)
	}()

	if ctx.Err() != nil {
		return s.interrupted(Target{})
	}

	s.setState(StateDiscovering)
	target, err := s.resolve()
	if err != nil {
		return s.failed(target, err)
	}
	if ctx.Err() != nil {
		return s.interrupted(target)
	}

	s.setState(StateConnecting)
	s.reporter.Connecting(target.Path)
	s.logger.Debug().
		Str("port", target.Path).
		Stringer("source", target.Source).
		Int("baud", s.config.BaudRate).
		Dur("timeout", s.config.ReadTimeout).
		Msg("opening port")

	handle, err = s.open(target.Path, s.config)
	if err != nil {
		handle = nil
		return s.failed(target, err)
	}
	if ctx.Err() != nil {
		return s.interrupted(target)
	}

	s.logger.Debug().Dur("settle", s.config.SettleDelay).Msg("waiting for board reset")
	select {
	case <-ctx.Done():
		return s.interrupted(target)
	case <-s.after(s.config.SettleDelay):
	}

	s.setState(StateConnected)
	s.reporter.Connected(target.Path)

	if s.config.Hold {
		<-ctx.Done()
		return s.interrupted(target)
	}

	return Result{Outcome: OutcomeSuccess, Target: target}
}

func (s *Session) resolve() (Target, error) {
	target, err := ResolvePort(s.device, s.config)
	if err != nil {
		return target, err
	}

	switch target.Source {
	case SourceDiscovered:
		s.reporter.Discovered(*target.Info)
	case SourceFallback:
		if target.DiscoveryErr != nil {
			s.logger.Warn().Err(target.DiscoveryErr).Msg("port enumeration failed")
		}
		s.reporter.FallbackUsed(target.Path, target.DiscoveryErr)
	}
	return target, nil
}

func (s *Session) failed(target Target, err error) Result {
	s.setState(StateFailed)
	s.logger.Debug().Err(err).Str("port", target.Path).Msg("connection failed")
	s.reporter.ConnectionFailed(err, Hints())
	return Result{Outcome: OutcomeConnectionError, Target: target, Err: err}
}

func (s *Session) interrupted(target Target) Result {
	s.reporter.Interrupted()
	return Result{Outcome: OutcomeInterrupted, Target: target}
}

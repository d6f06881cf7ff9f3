package serialprobe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakePort struct {
	path       string
	closed     bool
	closeCalls int
}

func (f *fakePort) Path() string                   { return f.path }
func (f *fakePort) IsOpen() bool                   { return !f.closed }
func (f *fakePort) Read(buf []byte) (int, error)   { return 0, nil }
func (f *fakePort) Write(data []byte) (int, error) { return len(data), nil }

func (f *fakePort) Close() error {
	f.closeCalls++
	f.closed = true
	return nil
}

// recorder is a Reporter that logs every event in order
type recorder struct {
	events      []string
	hints       []string
	err         error
	onConnected func()
}

func (r *recorder) Discovered(port PortInfo) {
	r.events = append(r.events, "discovered "+port.Path)
}

func (r *recorder) FallbackUsed(path string, discoveryErr error) {
	r.events = append(r.events, "fallback "+path)
}

func (r *recorder) Connecting(path string) {
	r.events = append(r.events, "connecting "+path)
}

func (r *recorder) Connected(path string) {
	r.events = append(r.events, "connected "+path)
	if r.onConnected != nil {
		r.onConnected()
	}
}

func (r *recorder) ConnectionFailed(err error, hints []string) {
	r.err = err
	r.hints = hints
	r.events = append(r.events, "failed")
}

func (r *recorder) Interrupted() {
	r.events = append(r.events, "interrupted")
}

func (r *recorder) Closed(path string) {
	r.events = append(r.events, "closed "+path)
}

type harness struct {
	session *Session
	rec     *recorder
	port    *fakePort
	opened  []string
	settles []time.Duration
}

// newHarness builds a session whose opener and settle timer are fakes.
// openErr makes every open fail. after, when set, replaces the settle timer.
func newHarness(t *testing.T, config Config, openErr error, opts ...SessionOption) *harness {
	t.Helper()
	h := &harness{rec: &recorder{}}
	h.session = NewSession(config, h.rec, opts...)
	h.session.open = func(device string, config Config) (Port, error) {
		h.opened = append(h.opened, device)
		if openErr != nil {
			return nil, openErr
		}
		h.port = &fakePort{path: device}
		return h.port, nil
	}
	h.session.after = func(d time.Duration) <-chan time.Time {
		h.settles = append(h.settles, d)
		h.rec.events = append(h.rec.events, fmt.Sprintf("settle %v", d))
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}
	return h
}

func assertEvents(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("events:\n got  %q\n want %q", got, want)
	}
}

func TestSessionSuccessWithDiscovery(t *testing.T) {
	stubListPorts(t, []PortInfo{
		{Path: "/dev/ttyS0", Description: "Standard Serial Port"},
		{Path: "/dev/ttyACM0", Description: "Arduino Uno"},
	}, nil)

	h := newHarness(t, DefaultConfig(), nil)
	h.rec.onConnected = func() {
		if !h.port.IsOpen() {
			t.Error("port should still be open when success is reported")
		}
	}

	res := h.session.Run(context.Background())

	if res.Outcome != OutcomeSuccess || res.Outcome.ExitCode() != 0 {
		t.Errorf("outcome = %v (exit %d), want success (exit 0)", res.Outcome, res.Outcome.ExitCode())
	}
	if res.Target.Source != SourceDiscovered {
		t.Errorf("source = %v, want discovered", res.Target.Source)
	}
	assertEvents(t, h.rec.events,
		"discovered /dev/ttyACM0",
		"connecting /dev/ttyACM0",
		"settle 2s",
		"connected /dev/ttyACM0",
		"closed /dev/ttyACM0",
	)
	if len(h.settles) != 1 || h.settles[0] != 2*time.Second {
		t.Errorf("settle delays = %v, want [2s]", h.settles)
	}
	if h.port.closeCalls != 1 {
		t.Errorf("port closed %d times, want 1", h.port.closeCalls)
	}
	if h.session.State() != StateClosed {
		t.Errorf("final state = %v, want closed", h.session.State())
	}
}

func TestSessionFallbackPort(t *testing.T) {
	stubListPorts(t, nil, nil)

	config := DefaultConfig()
	config.FallbackPort = "COM5"
	h := newHarness(t, config, nil)

	res := h.session.Run(context.Background())

	if res.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", res.Outcome)
	}
	if res.Target.Source != SourceFallback {
		t.Errorf("source = %v, want fallback", res.Target.Source)
	}
	assertEvents(t, h.rec.events,
		"fallback COM5",
		"connecting COM5",
		"settle 2s",
		"connected COM5",
		"closed COM5",
	)
}

func TestSessionExplicitDeviceSkipsDiscovery(t *testing.T) {
	stubListPorts(t, nil, errors.New("enumeration must not run"))

	h := newHarness(t, DefaultConfig(), nil, WithDevice("/dev/ttyUSB4"))
	res := h.session.Run(context.Background())

	if res.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", res.Outcome)
	}
	if len(h.opened) != 1 || h.opened[0] != "/dev/ttyUSB4" {
		t.Errorf("opened %v, want [/dev/ttyUSB4]", h.opened)
	}
}

func TestSessionOpenFailure(t *testing.T) {
	openErr := fmt.Errorf("failed to open /dev/ttyUSB0: %w", ErrDeviceInUse)

	h := newHarness(t, DefaultConfig(), openErr, WithDevice("/dev/ttyUSB0"))
	res := h.session.Run(context.Background())

	if res.Outcome != OutcomeConnectionError || res.Outcome.ExitCode() != 1 {
		t.Errorf("outcome = %v (exit %d), want connection error (exit 1)", res.Outcome, res.Outcome.ExitCode())
	}
	if !errors.Is(res.Err, ErrDeviceInUse) {
		t.Errorf("result error = %v, want ErrDeviceInUse", res.Err)
	}
	if !errors.Is(h.rec.err, ErrDeviceInUse) {
		t.Errorf("reported error = %v, want ErrDeviceInUse", h.rec.err)
	}
	if len(h.rec.hints) != 3 {
		t.Errorf("got %d hints, want exactly 3", len(h.rec.hints))
	}
	// nothing was opened, so nothing is closed and there is no settle
	assertEvents(t, h.rec.events, "connecting /dev/ttyUSB0", "failed")
	if h.session.State() != StateClosed {
		t.Errorf("final state = %v, want closed", h.session.State())
	}
}

func TestSessionHintsNotShared(t *testing.T) {
	openErr := fmt.Errorf("failed to open /dev/ttyUSB0: %w", ErrDeviceNotFound)

	first := newHarness(t, DefaultConfig(), openErr, WithDevice("/dev/ttyUSB0"))
	first.session.Run(context.Background())
	first.rec.hints[0] = "changed by a reporter"

	external := Hints()
	external[1] = "changed by a caller"

	second := newHarness(t, DefaultConfig(), openErr, WithDevice("/dev/ttyUSB0"))
	second.session.Run(context.Background())

	want := []string{
		"Is the Arduino plugged in?",
		"Is the port correct?",
		"Is another program using the port?",
	}
	for _, got := range [][]string{Hints(), second.rec.hints} {
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("hints = %q, want %q", got, want)
		}
	}
}

func TestSessionNoPort(t *testing.T) {
	stubListPorts(t, []PortInfo{{Path: "/dev/ttyS0", Description: "Standard Serial Port"}}, nil)

	h := newHarness(t, DefaultConfig(), nil)
	res := h.session.Run(context.Background())

	if res.Outcome != OutcomeConnectionError {
		t.Errorf("outcome = %v, want connection error", res.Outcome)
	}
	if !errors.Is(res.Err, ErrNoPort) {
		t.Errorf("error = %v, want ErrNoPort", res.Err)
	}
	if len(h.opened) != 0 {
		t.Errorf("nothing should be opened, got %v", h.opened)
	}
	assertEvents(t, h.rec.events, "failed")
}

func TestSessionInterruptDuringSettle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHarness(t, DefaultConfig(), nil, WithDevice("/dev/ttyACM0"))
	h.session.after = func(d time.Duration) <-chan time.Time {
		cancel()
		return make(chan time.Time)
	}

	res := h.session.Run(ctx)

	if res.Outcome != OutcomeInterrupted || res.Outcome.ExitCode() != 0 {
		t.Errorf("outcome = %v (exit %d), want interrupted (exit 0)", res.Outcome, res.Outcome.ExitCode())
	}
	assertEvents(t, h.rec.events,
		"connecting /dev/ttyACM0",
		"interrupted",
		"closed /dev/ttyACM0",
	)
	if h.port.closeCalls != 1 {
		t.Errorf("port closed %d times, want 1", h.port.closeCalls)
	}
}

func TestSessionHoldUntilInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := DefaultConfig()
	config.Hold = true
	h := newHarness(t, config, nil, WithDevice("/dev/ttyACM0"))
	h.rec.onConnected = cancel

	res := h.session.Run(ctx)

	if res.Outcome != OutcomeInterrupted || res.Outcome.ExitCode() != 0 {
		t.Errorf("outcome = %v (exit %d), want interrupted (exit 0)", res.Outcome, res.Outcome.ExitCode())
	}
	assertEvents(t, h.rec.events,
		"connecting /dev/ttyACM0",
		"settle 2s",
		"connected /dev/ttyACM0",
		"interrupted",
		"closed /dev/ttyACM0",
	)
}

func TestSessionAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarness(t, DefaultConfig(), nil, WithDevice("/dev/ttyACM0"))
	res := h.session.Run(ctx)

	if res.Outcome != OutcomeInterrupted {
		t.Errorf("outcome = %v, want interrupted", res.Outcome)
	}
	if len(h.opened) != 0 {
		t.Errorf("nothing should be opened, got %v", h.opened)
	}
	assertEvents(t, h.rec.events, "interrupted")
}

func TestSessionExplicitCloseNotRepeated(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil, WithDevice("/dev/ttyACM0"))
	h.rec.onConnected = func() {
		if err := h.port.Close(); err != nil {
			t.Errorf("explicit close failed: %v", err)
		}
	}

	res := h.session.Run(context.Background())

	if res.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", res.Outcome)
	}
	if h.port.closeCalls != 1 {
		t.Errorf("port closed %d times, want 1", h.port.closeCalls)
	}
	for _, e := range h.rec.events {
		if strings.HasPrefix(e, "closed") {
			t.Errorf("cleanup must not report a port that is already closed: %q", h.rec.events)
		}
	}
}

func TestSessionClosesOnPanic(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil, WithDevice("/dev/ttyACM0"))
	h.rec.onConnected = func() { panic("reporter exploded") }

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected the panic to propagate")
			}
		}()
		h.session.Run(context.Background())
	}()

	if h.port.closeCalls != 1 {
		t.Errorf("port closed %d times, want 1", h.port.closeCalls)
	}
	if h.session.State() != StateClosed {
		t.Errorf("final state = %v, want closed", h.session.State())
	}
}

func TestSessionUsesConfiguredSettleDelay(t *testing.T) {
	config := DefaultConfig()
	config.SettleDelay = 250 * time.Millisecond
	h := newHarness(t, config, nil, WithDevice("COM3"))

	h.session.Run(context.Background())

	if len(h.settles) != 1 || h.settles[0] != 250*time.Millisecond {
		t.Errorf("settle delays = %v, want [250ms]", h.settles)
	}
}

func TestOutcomeExitCodes(t *testing.T) {
	tests := []struct {
		outcome Outcome
		code    int
		name    string
	}{
		{OutcomeSuccess, 0, "success"},
		{OutcomeConnectionError, 1, "connection error"},
		{OutcomeInterrupted, 0, "interrupted"},
	}
	for _, tt := range tests {
		if got := tt.outcome.ExitCode(); got != tt.code {
			t.Errorf("%v.ExitCode() = %d, want %d", tt.outcome, got, tt.code)
		}
		if got := tt.outcome.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestStateString(t *testing.T) {
	want := []string{"idle", "discovering", "connecting", "connected", "failed", "closed"}
	for i, name := range want {
		if got := State(i).String(); got != name {
			t.Errorf("State(%d).String() = %q, want %q", i, got, name)
		}
	}
	if got := State(99).String(); got != "unknown" {
		t.Errorf("State(99).String() = %q, want unknown", got)
	}
}

func TestNewSessionStartsIdle(t *testing.T) {
	s := NewSession(DefaultConfig(), &recorder{})
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

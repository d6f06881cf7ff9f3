package serialprobe

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.bug.st/serial"
	"go.uber.org/atomic"
)

// Port represents an open serial connection to one device
type Port interface {
	Path() string
	IsOpen() bool
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)

	// Close releases the device. Only the first call does any work;
	// later calls return nil.
	Close() error
}

// portHandle is the subset of go.bug.st/serial.Port used by this package
type portHandle interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// allow tests to override the host serial driver
var openPort = func(name string, mode *serial.Mode) (portHandle, error) {
	return serial.Open(name, mode)
}

// port is the concrete implementation of the Port interface
type port struct {
	path   string
	handle portHandle
	config Config
	closed atomic.Bool
}

// Ensure port implements Port interface at compile time
var _ Port = (*port)(nil)

// Open opens a serial port with the given device path and options
func Open(device string, opts ...Option) (Port, error) {
	config, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return OpenWithConfig(device, config)
}

// OpenWithConfig opens a serial port using an already built configuration
func OpenWithConfig(device string, config Config) (Port, error) {
	if device == "" {
		return nil, fmt.Errorf("failed to open port: %w", ErrInvalidPort)
	}

	mode, err := serialMode(config)
	if err != nil {
		return nil, err
	}

	h, err := openPort(device, mode)
	if err != nil {
		return nil, classifyOpenError(device, err)
	}

	timeout := config.ReadTimeout
	if timeout == 0 {
		timeout = serial.NoTimeout
	}
	if err := h.SetReadTimeout(timeout); err != nil {
		h.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", device, err)
	}

	return &port{
		path:   device,
		handle: h,
		config: config,
	}, nil
}

// serialMode converts a Config into the driver's line settings
func serialMode(config Config) (*serial.Mode, error) {
	if config.BaudRate <= 0 {
		return nil, ErrInvalidBaudRate
	}

	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: config.DataBits,
	}

	switch config.StopBits {
	case 1:
		mode.StopBits = serial.OneStopBit
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, ErrInvalidConfig
	}

	switch config.Parity {
	case ParityNone:
		mode.Parity = serial.NoParity
	case ParityOdd:
		mode.Parity = serial.OddParity
	case ParityEven:
		mode.Parity = serial.EvenParity
	case ParityMark:
		mode.Parity = serial.MarkParity
	case ParitySpace:
		mode.Parity = serial.SpaceParity
	default:
		return nil, ErrInvalidConfig
	}

	return mode, nil
}

// classifyOpenError joins the driver's diagnostic with one of the package
// sentinels so callers can use errors.Is
func classifyOpenError(device string, err error) error {
	var sentinel error

	var portErr *serial.PortError
	switch {
	case errors.As(err, &portErr):
		switch portErr.Code() {
		case serial.PortBusy:
			sentinel = ErrDeviceInUse
		case serial.PortNotFound:
			sentinel = ErrDeviceNotFound
		case serial.PermissionDenied:
			sentinel = ErrPermissionDenied
		case serial.InvalidSerialPort:
			sentinel = ErrInvalidPort
		case serial.InvalidSpeed:
			sentinel = ErrInvalidBaudRate
		case serial.InvalidDataBits, serial.InvalidParity, serial.InvalidStopBits, serial.InvalidTimeoutValue:
			sentinel = ErrInvalidConfig
		}
	case errors.Is(err, fs.ErrNotExist):
		sentinel = ErrDeviceNotFound
	case errors.Is(err, fs.ErrPermission):
		sentinel = ErrPermissionDenied
	}

	if sentinel == nil {
		return fmt.Errorf("failed to open %s: %w", device, err)
	}
	return fmt.Errorf("failed to open %s: %w: %w", device, sentinel, err)
}

// Path returns the device identifier the port was opened with
func (p *port) Path() string {
	return p.path
}

// IsOpen reports whether Close has not been called yet
func (p *port) IsOpen() bool {
	return !p.closed.Load()
}

// Close closes the serial port
func (p *port) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.handle.Close()
}

// Read reads data from the serial port
func (p *port) Read(buf []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrPortClosed
	}
	return p.handle.Read(buf)
}

// Write writes data to the serial port
func (p *port) Write(data []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrPortClosed
	}
	return p.handle.Write(data)
}

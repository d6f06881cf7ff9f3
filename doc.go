// Package serialprobe finds an Arduino-class board among the host's serial
// ports and checks that a connection to it can be opened.
//
// # Port Discovery
//
// ListPorts enumerates the ports in the order the host reports them. Each
// port carries a human readable description built from the USB product or
// manufacturer string. Known USB IDs add a label, so a CH340 adapter whose
// product string is "USB2.0-Serial" is described as "USB2.0-Serial (CH340)".
//
//	ports, err := serialprobe.ListPorts()
//	port, found := serialprobe.FindDevice(ports, serialprobe.DefaultPatterns)
//
// FindDevice returns the first port whose description contains one of the
// patterns. Not finding a port is not an error.
//
// ResolvePort combines discovery with an explicit device and a fallback:
//
//	config, _ := serialprobe.NewConfig(serialprobe.WithFallbackPort("COM5"))
//	target, err := serialprobe.ResolvePort("", config)
//	if errors.Is(err, serialprobe.ErrNoPort) {
//	    // nothing matched and no fallback configured
//	}
//
// # Opening a Port
//
// Open a serial port with default configuration (115200 8N1, 1s read timeout):
//
//	port, err := serialprobe.Open("/dev/ttyACM0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
// Close is idempotent. Open failures wrap one of ErrDeviceNotFound,
// ErrDeviceInUse or ErrPermissionDenied together with the driver's message:
//
//	if errors.Is(err, serialprobe.ErrDeviceInUse) {
//	    // another program holds the port
//	}
//
// # Sessions
//
// A Session runs the whole probe: resolve the port, open it, wait for the
// board to finish the reset that opening triggers, report and close.
// Cancelling the context counts as a user interrupt.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	result := serialprobe.NewSession(config, reporter).Run(ctx)
//	os.Exit(result.Outcome.ExitCode())
//
// Whatever the outcome, a port the session opened is closed before Run
// returns and the Reporter sees exactly one Closed event for it.
//
// # Default Configuration
//
//   - BaudRate: 115200
//   - DataBits: 8
//   - StopBits: 1
//   - Parity: None
//   - ReadTimeout: 1 second
//   - SettleDelay: 2 seconds
//   - FallbackPort: none
//   - Patterns: "Arduino", "CH340"
//
// # Platform Support
//
// Enumeration and serial I/O work wherever go.bug.st/serial does. The sysfs
// enrichment and the read/write access check are Linux only.
package serialprobe

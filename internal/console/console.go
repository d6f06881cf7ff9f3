// Package console renders session events as styled status lines.
package console

import (
	"fmt"
	"io"

	"github.com/allbin/serialprobe"
	"github.com/allbin/serialprobe/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

// Reporter writes human readable session events. Status lines go to out,
// failures to errOut. Styling follows the capabilities of each writer so
// redirected output stays plain text.
type Reporter struct {
	out    io.Writer
	errOut io.Writer

	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

var _ serialprobe.Reporter = (*Reporter)(nil)

// New creates a Reporter writing to out and errOut
func New(out, errOut io.Writer) *Reporter {
	r := lipgloss.NewRenderer(out)
	e := lipgloss.NewRenderer(errOut)

	return &Reporter{
		out:     out,
		errOut:  errOut,
		info:    r.NewStyle().Foreground(colors.Accent).Bold(true),
		success: r.NewStyle().Foreground(colors.Success).Bold(true),
		warn:    e.NewStyle().Foreground(colors.Warning).Bold(true),
		failure: e.NewStyle().Foreground(colors.Failure).Bold(true),
		muted:   e.NewStyle().Foreground(colors.Muted),
	}
}

// Discovered prints the port found by discovery
func (r *Reporter) Discovered(port serialprobe.PortInfo) {
	fmt.Fprintf(r.out, "%s Found %s on %s\n", r.success.Render("✓"), port.Description, port.Path)
}

// FallbackUsed warns that discovery missed and the fallback port is used.
// A non-nil discoveryErr is printed first.
func (r *Reporter) FallbackUsed(path string, discoveryErr error) {
	if discoveryErr != nil {
		fmt.Fprintf(r.errOut, "%s Port discovery failed: %v\n", r.warn.Render("!"), discoveryErr)
	}
	fmt.Fprintf(r.errOut, "%s No matching device found, using fallback port %s\n", r.warn.Render("!"), path)
}

// Connecting prints the port about to be opened
func (r *Reporter) Connecting(path string) {
	fmt.Fprintf(r.out, "%s Connecting to %s...\n", r.info.Render("⚡"), path)
}

// Connected prints the port that opened successfully
func (r *Reporter) Connected(path string) {
	fmt.Fprintf(r.out, "%s Connected to %s\n", r.success.Render("✓"), path)
}

// ConnectionFailed prints the open error followed by one line per hint
func (r *Reporter) ConnectionFailed(err error, hints []string) {
	fmt.Fprintf(r.errOut, "%s Connection failed: %v\n", r.failure.Render("✗"), err)
	for _, hint := range hints {
		fmt.Fprintf(r.errOut, "  %s %s\n", r.muted.Render("•"), hint)
	}
}

// Interrupted prints that the user stopped the session
func (r *Reporter) Interrupted() {
	fmt.Fprintf(r.out, "%s Terminated by user\n", r.info.Render("■"))
}

// Closed prints the port that was closed
func (r *Reporter) Closed(path string) {
	fmt.Fprintf(r.out, "%s Closed connection to %s\n", r.info.Render("✓"), path)
}

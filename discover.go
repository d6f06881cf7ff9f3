package serialprobe

import (
	"fmt"
	"strings"
)

// allow tests to override the port listing
var listPorts = ListPorts

// Source records how a Target's device was chosen
type Source int

const (
	SourceExplicit Source = iota
	SourceDiscovered
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceDiscovered:
		return "discovered"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Target is the device a session will connect to
type Target struct {
	Path   string
	Source Source
	Info   *PortInfo // set when the port came from discovery

	// DiscoveryErr is the enumeration failure that led to the fallback, if any
	DiscoveryErr error
}

// FindDevice returns the first port whose description contains any of
// the patterns. The match is a case-sensitive substring test and the
// ports are examined in the order given.
func FindDevice(ports []PortInfo, patterns []string) (PortInfo, bool) {
	for _, port := range ports {
		if matchesAny(port.Description, patterns) {
			return port, true
		}
	}
	return PortInfo{}, false
}

// Matches reports whether the port's description contains any of the patterns
func (p PortInfo) Matches(patterns []string) bool {
	return matchesAny(p.Description, patterns)
}

func matchesAny(description string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(description, pattern) {
			return true
		}
	}
	return false
}

// Discover enumerates the host's ports and returns the first match.
// A miss is reported as found == false with a nil error.
func Discover(patterns []string) (PortInfo, bool, error) {
	ports, err := listPorts()
	if err != nil {
		return PortInfo{}, false, err
	}
	port, found := FindDevice(ports, patterns)
	return port, found, nil
}

// ResolvePort picks the device to connect to. An explicit device wins,
// then discovery, then the configured fallback. An enumeration failure
// counts as a discovery miss.
func ResolvePort(explicit string, config Config) (Target, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return Target{Path: explicit, Source: SourceExplicit}, nil
	}

	port, found, err := Discover(config.Patterns)
	if found {
		return Target{Path: port.Path, Source: SourceDiscovered, Info: &port}, nil
	}

	if config.FallbackPort != "" {
		return Target{Path: config.FallbackPort, Source: SourceFallback, DiscoveryErr: err}, nil
	}

	if err != nil {
		return Target{}, fmt.Errorf("%w: %w", ErrNoPort, err)
	}
	return Target{}, ErrNoPort
}

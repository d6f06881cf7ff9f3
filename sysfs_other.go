//go:build !linux

package serialprobe

// enrichPlatformInfo is a no-op off Linux; the enumerator already reports
// everything the host exposes and access is only known by opening the port.
func enrichPlatformInfo(info *PortInfo) {}

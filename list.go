package serialprobe

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.bug.st/serial/enumerator"
)

// allow tests to override the host enumerator
var detailedPortsList = enumerator.GetDetailedPortsList

// PortInfo describes one serial port as reported by the host
type PortInfo struct {
	Name         string
	Path         string
	Description  string
	IsUSB        bool
	VendorID     string
	ProductID    string
	SerialNumber string
	Product      string
	Manufacturer string

	// Accessible reports whether the current user may open the device
	// read/write. Only checked on Linux.
	Accessible bool
}

// knownUSBLabels maps VID or VID:PID to the chip or vendor name a
// description should mention.
var knownUSBLabels = map[string]string{
	"2341":      "Arduino", // Arduino SA
	"2a03":      "Arduino", // Arduino.org
	"1a86:7523": "CH340",   // QinHeng CH340
}

// ListPorts returns the serial ports visible to the host, in the order
// the host reports them.
func ListPorts() ([]PortInfo, error) {
	details, err := detailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil || d.Name == "" {
			continue
		}
		info := PortInfo{
			Name:         filepath.Base(d.Name),
			Path:         d.Name,
			IsUSB:        d.IsUSB,
			VendorID:     strings.ToLower(d.VID),
			ProductID:    strings.ToLower(d.PID),
			SerialNumber: d.SerialNumber,
			Product:      strings.TrimSpace(d.Product),
			Accessible:   true,
		}
		enrichPlatformInfo(&info)
		info.Description = describe(info)
		ports = append(ports, info)
	}

	return ports, nil
}

// GetPortInfo returns detailed information about a specific port
func GetPortInfo(portPath string) (*PortInfo, error) {
	ports, err := ListPorts()
	if err != nil {
		return nil, err
	}

	for i := range ports {
		if ports[i].Path == portPath || ports[i].Name == portPath {
			return &ports[i], nil
		}
	}

	return nil, fmt.Errorf("%s: %w", portPath, ErrDeviceNotFound)
}

// describe builds the human-readable description that discovery matches on
func describe(info PortInfo) string {
	desc := info.Product
	if desc == "" {
		desc = info.Manufacturer
	}
	if desc == "" {
		desc = getPortDescription(info.Name)
	}

	if label := knownUSBLabel(info.VendorID, info.ProductID); label != "" && !strings.Contains(desc, label) {
		desc = fmt.Sprintf("%s (%s)", desc, label)
	}

	return desc
}

func knownUSBLabel(vid, pid string) string {
	if vid == "" {
		return ""
	}
	if label, ok := knownUSBLabels[vid+":"+pid]; ok {
		return label
	}
	return knownUSBLabels[vid]
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	case strings.HasPrefix(name, "cu.usbmodem"), strings.HasPrefix(name, "tty.usbmodem"):
		return "USB Modem Port"
	case strings.HasPrefix(name, "COM"):
		return "Communications Port"
	default:
		return "Serial Port"
	}
}

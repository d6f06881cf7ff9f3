//go:build linux

package serialprobe

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// sysfsRoot is overridden by tests to point at a fake sysfs tree
var sysfsRoot = "/sys"

// maxUSBDepth bounds the walk from the tty device up to its USB device node
const maxUSBDepth = 4

func enrichPlatformInfo(info *PortInfo) {
	info.Accessible = isAccessible(info.Path)
	if info.IsUSB || strings.HasPrefix(info.Name, "ttyUSB") || strings.HasPrefix(info.Name, "ttyACM") {
		enrichUSBInfo(info)
	}
}

// isAccessible checks read/write permission on the device node
func isAccessible(path string) bool {
	return unix.Access(path, unix.R_OK|unix.W_OK) == nil
}

// enrichUSBInfo fills USB metadata the enumerator does not expose by
// following /sys/class/tty/{device}/device up to the USB device directory.
func enrichUSBInfo(info *PortInfo) {
	devicePath := filepath.Join(sysfsRoot, "class", "tty", info.Name, "device")
	resolvedPath, err := filepath.EvalSymlinks(devicePath)
	if err != nil {
		return
	}

	// usb-serial drivers (ttyUSB) resolve to a child of the interface
	// directory, cdc_acm (ttyACM) to the interface itself.
	usbDevicePath := ""
	dir := resolvedPath
	for i := 0; i < maxUSBDepth; i++ {
		if fileExists(filepath.Join(dir, "idVendor")) {
			usbDevicePath = dir
			break
		}
		dir = filepath.Dir(dir)
	}
	if usbDevicePath == "" {
		return
	}

	info.IsUSB = true
	fillIfEmpty(&info.VendorID, strings.ToLower(readSysfsFile(filepath.Join(usbDevicePath, "idVendor"))))
	fillIfEmpty(&info.ProductID, strings.ToLower(readSysfsFile(filepath.Join(usbDevicePath, "idProduct"))))
	fillIfEmpty(&info.SerialNumber, readSysfsFile(filepath.Join(usbDevicePath, "serial")))
	fillIfEmpty(&info.Product, readSysfsFile(filepath.Join(usbDevicePath, "product")))
	fillIfEmpty(&info.Manufacturer, readSysfsFile(filepath.Join(usbDevicePath, "manufacturer")))
}

// readSysfsFile returns the trimmed content of a sysfs attribute, or "" if unreadable
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func fillIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

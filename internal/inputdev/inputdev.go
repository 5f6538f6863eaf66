//go:build linux

// Package inputdev enumerates and opens real evdev input device nodes.
package inputdev

import (
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"go.klb.dev/synq/internal/errs"
)

const devInputDir = "/dev/input"

// ioctl request numbers used here; the same values as evdev's, kept local so
// this package does not import evdev (which imports inputdev).
const (
	eviocgrab uintptr = 0x40044590
	eviocgid  uintptr = (2 << 30) | (8 << 16) | (0x45 << 8) | 0x02
)

// Info describes one enumerated evdev node.
type Info struct {
	Path string
	Name string
}

// DeviceID mirrors struct input_id, read back via EVIOCGID. `synqd devices`
// uses Identify to print each device's bus/vendor/product.
type DeviceID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// Identify reads path's bus/vendor/product/version via EVIOCGID.
func Identify(path string) (DeviceID, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return DeviceID{}, errs.Wrap(err, errs.Read, "inputdev: open for identify").WithCtx("path", path)
	}
	defer f.Close()

	var id DeviceID
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), eviocgid, uintptr(unsafe.Pointer(&id)))
	if errno != 0 {
		return DeviceID{}, errs.Wrap(errno, errs.Exec, "inputdev: EVIOCGID").WithCtx("path", path)
	}
	return id, nil
}

// List enumerates /dev/input/event* nodes.
func List() ([]Info, error) {
	entries, err := os.ReadDir(devInputDir)
	if err != nil {
		return nil, errs.Wrap(err, errs.Read, "inputdev: list /dev/input")
	}
	var out []Info
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		path := filepath.Join(devInputDir, e.Name())
		name, err := readDeviceName(path)
		if err != nil {
			continue // device may have vanished or be unreadable by this user; skip
		}
		out = append(out, Info{Path: path, Name: name})
	}
	return out, nil
}

// OpenReadOnly opens path read-only for use by the scroll receiver or
// as a capability-bitmap source for the uinput sink.
func OpenReadOnly(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errs.Wrap(err, errs.Read, "inputdev: open").WithCtx("path", path)
	}
	return f, nil
}

// Grab takes (grab=true) or releases (grab=false) exclusive ownership of f
// via EVIOCGRAB.
func Grab(f *os.File, grab bool) error {
	var arg uintptr
	if grab {
		arg = 1
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), eviocgrab, arg)
	if errno != 0 {
		return errs.Wrap(errno, errs.Exec, "inputdev: EVIOCGRAB").WithCtx("path", f.Name())
	}
	return nil
}

func readDeviceName(path string) (string, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf [256]byte
	const EVIOCGNAME = uintptr(2<<30) | uintptr(len(buf)<<16) | uintptr('E'<<8) | 0x06
	n, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), EVIOCGNAME, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	if n == 0 {
		return "(unnamed)", nil
	}
	end := int(n)
	if end > 0 && buf[end-1] == 0 {
		end--
	}
	return string(buf[:end]), nil
}

//go:build linux

// Package evdev provides the low-level Linux evdev/uinput primitives that
// back synq's scroll blocker, receiver, and uinput sink: ioctl numbers, the
// fixed-layout input_event record, and capability-bitmap replay between a
// grabbed real device and a synthetic uinput one.
//
// The numeric ioctl encodings are architecture ABI constants, not policy,
// so they are carried over unchanged; the syscalls go through
// golang.org/x/sys/unix rather than hand-rolled cgo.
package evdev

// Event types.
const (
	EV_SYN uint16 = 0x00
	EV_KEY uint16 = 0x01
	EV_REL uint16 = 0x02
	EV_ABS uint16 = 0x03
	EV_MSC uint16 = 0x04
	EV_SW  uint16 = 0x05
	EV_LED uint16 = 0x11
	EV_SND uint16 = 0x12
	EV_FF  uint16 = 0x15
)

// Highest code per event type; an EVIOCGBIT capability bitmap holds MAX+1 bits.
const (
	EV_MAX  = 0x1f
	KEY_MAX = 0x2ff
	REL_MAX = 0x0f
	ABS_MAX = 0x3f
	MSC_MAX = 0x07
	SW_MAX  = 0x10
	LED_MAX = 0x0f
	SND_MAX = 0x07
	FF_MAX  = 0x7f
)

// Relative axis codes.
const (
	RelHWheel      uint16 = 0x06
	RelWheel       uint16 = 0x08
	RelWheelHiRes  uint16 = 0x0b
	RelHWheelHiRes uint16 = 0x0c
)

const SynReport uint16 = 0x00

// ioctl request numbers (architecture ABI constants, taken verbatim from the
// kernel's input.h/uinput.h encodings).
const (
	EVIOCGRAB uintptr = 0x40044590
	EVIOCGID  uintptr = (2 << 30) | (8 << 16) | (0x45 << 8) | 0x02

	UI_SET_EVBIT  uintptr = 0x40045564
	UI_SET_KEYBIT uintptr = 0x40045565
	UI_SET_RELBIT uintptr = 0x40045566
	UI_SET_ABSBIT uintptr = 0x40045567
	UI_SET_MSCBIT uintptr = 0x40045568
	UI_SET_LEDBIT uintptr = 0x40045569
	UI_SET_SNDBIT uintptr = 0x4004556a
	UI_SET_FFBIT  uintptr = 0x4004556b
	UI_SET_SWBIT  uintptr = 0x4004556d
	UI_ABS_SETUP  uintptr = 0x401c5504
	UI_DEV_SETUP  uintptr = 0x405c5503
	UI_DEV_CREATE uintptr = 0x5501
	UI_DEV_DESTROY uintptr = 0x5502
)

// EVIOCGBIT(ev, len) returns the ioctl request number to read the capability
// bitmap for event type ev into a buffer of len bytes.
func EVIOCGBIT(ev, length int) uintptr {
	const ioctlRead = 2
	return uintptr(ioctlRead<<30) | uintptr(length<<16) | uintptr('E'<<8) | uintptr(0x20+ev)
}

// EVIOCGABS(abs) returns the ioctl request number to read abs_info for
// absolute axis abs.
func EVIOCGABS(abs int) uintptr {
	const ioctlRead = 2
	const absInfoSize = 24 // struct input_absinfo
	return uintptr(ioctlRead<<30) | uintptr(absInfoSize<<16) | uintptr('E'<<8) | uintptr(0x40+abs)
}

// ScrollDeviceName and ScrollDeviceID identify the synthesized virtual
// scroll device, matching the original daemon's uinput device identity so
// downstream tooling that recognizes it continues to.
var (
	ScrollDeviceName = "Virtual Scroll Device"
	ScrollDeviceID   = [4]uint16{0x06, 0x628, 0x1, 0x1}
)

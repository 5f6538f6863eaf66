//go:build linux

// Package uinput implements the shared virtual scroll device: a single
// /dev/uinput-backed sink that is grown from a real source device's
// capability bitmap and then written to, under a mutex, by both the blocker
// (forwarding non-scroll events) and the injector (synthesizing scroll
// events).
package uinput

import (
	"os"
	"strconv"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"go.klb.dev/synq/internal/errs"
	"go.klb.dev/synq/internal/evdev"
)

const uinputPath = "/dev/uinput"

// settleDelay is the pause after UI_DEV_CREATE that lets udev/libinput
// enumerate the new virtual device before anything tries to grab it.
const settleDelay = 200 * time.Millisecond

// absInfo mirrors struct input_absinfo for UI_ABS_SETUP payloads.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// uinputAbsSetup mirrors struct uinput_abs_setup.
type uinputAbsSetup struct {
	Code uint16
	_    [2]byte // alignment padding to match the kernel struct layout
	Abs  absInfo
}

// uinputSetup mirrors struct uinput_setup.
type uinputSetup struct {
	ID      [4]uint16 // bustype, vendor, product, version
	Name    [80]byte
	FFEffectsMax uint32
}

// Sink is the shared virtual scroll/forwarding uinput device. Every write is
// a full event-packet, serialized by mu so multi-threaded blockers and the
// injector never interleave partial records.
type Sink struct {
	f  *os.File
	mu sync.Mutex
}

// Open grabs capabilities from sourceFd (a real input device opened
// read-only), replays them onto a fresh uinput device forced to also carry
// the four scroll relative axes, creates the device, and sleeps settleDelay
// before returning so the virtual node is visible to userspace.
func Open(sourceFd int) (*Sink, error) {
	f, err := os.OpenFile(uinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, errs.Wrap(err, errs.Exec, "uinput: open /dev/uinput")
	}

	hasFF, err := replayCapabilities(f, sourceFd)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := forceScrollBits(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := setupDevice(f, hasFF); err != nil {
		f.Close()
		return nil, err
	}
	if err := ioctlNoArg(f, evdev.UI_DEV_CREATE); err != nil {
		f.Close()
		return nil, errs.Wrap(err, errs.Exec, "uinput: UI_DEV_CREATE")
	}

	time.Sleep(settleDelay)

	return &Sink{f: f}, nil
}

// WriteRaw writes buf, which must be a concatenation of whole 24-byte
// input_event records, in a single serialized write so the kernel sees one
// atomic batch of records.
func (s *Sink) WriteRaw(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.Write(buf); err != nil {
		return errs.Wrap(err, errs.Write, "uinput: write events")
	}
	return nil
}

// Close destroys the virtual device.
func (s *Sink) Close() error {
	_ = ioctlNoArg(s.f, evdev.UI_DEV_DESTROY)
	return s.f.Close()
}

// defaultFFEffectsMax is reported to the kernel when the source device
// advertises force-feedback capability; synq mirrors the bit so userspace
// sees the axis, it does not forward FF upload/play requests anywhere.
const defaultFFEffectsMax = 4

// replayCapabilities replays sourceFd's EV_KEY/REL/ABS/MSC/SW/LED/SND/FF
// capability bitmaps onto dst via UI_SET_*BIT (and, for EV_ABS, a per-axis
// EVIOCGABS->UI_ABS_SETUP replay), reporting whether FF was present so the
// caller can set ff_effects_max at device-setup time.
func replayCapabilities(dst *os.File, sourceFd int) (hasFF bool, err error) {
	type bitRange struct {
		evType   int
		maxBits  int
		setIoctl uintptr
	}
	ranges := []bitRange{
		{int(evdev.EV_KEY), evdev.KEY_MAX, evdev.UI_SET_KEYBIT},
		{int(evdev.EV_REL), evdev.REL_MAX, evdev.UI_SET_RELBIT},
		{int(evdev.EV_ABS), evdev.ABS_MAX, evdev.UI_SET_ABSBIT},
		{int(evdev.EV_MSC), evdev.MSC_MAX, evdev.UI_SET_MSCBIT},
		{int(evdev.EV_SW), evdev.SW_MAX, evdev.UI_SET_SWBIT},
		{int(evdev.EV_LED), evdev.LED_MAX, evdev.UI_SET_LEDBIT},
		{int(evdev.EV_SND), evdev.SND_MAX, evdev.UI_SET_SNDBIT},
		{int(evdev.EV_FF), evdev.FF_MAX, evdev.UI_SET_FFBIT},
	}

	if err := ioctlArg(dst, evdev.UI_SET_EVBIT, uintptr(evdev.EV_KEY)); err != nil {
		return false, errs.Wrap(err, errs.Exec, "uinput: UI_SET_EVBIT EV_KEY")
	}
	if err := ioctlArg(dst, evdev.UI_SET_EVBIT, uintptr(evdev.EV_REL)); err != nil {
		return false, errs.Wrap(err, errs.Exec, "uinput: UI_SET_EVBIT EV_REL")
	}
	if err := ioctlArg(dst, evdev.UI_SET_EVBIT, uintptr(evdev.EV_SYN)); err != nil {
		return false, errs.Wrap(err, errs.Exec, "uinput: UI_SET_EVBIT EV_SYN")
	}

	for _, r := range ranges {
		nbytes := r.maxBits/8 + 1
		bitmap := make([]byte, nbytes)
		if err := evioctlGBit(sourceFd, r.evType, bitmap); err != nil {
			continue // source lacks this capability class entirely; skip
		}
		needsEvbit := r.evType != int(evdev.EV_KEY) && r.evType != int(evdev.EV_REL)
		evbitSet := false
		for bit := 0; bit <= r.maxBits; bit++ {
			if bitmap[bit/8]&(1<<uint(bit%8)) == 0 {
				continue
			}
			if needsEvbit && !evbitSet {
				if err := ioctlArg(dst, evdev.UI_SET_EVBIT, uintptr(r.evType)); err != nil {
					return false, errs.Wrap(err, errs.Exec, "uinput: UI_SET_EVBIT").WithCtx("ev_type", strconv.Itoa(r.evType))
				}
				evbitSet = true
			}
			if err := ioctlArg(dst, r.setIoctl, uintptr(bit)); err != nil {
				return false, errs.Wrap(err, errs.Exec, "uinput: set bit").WithCtx("bit", string(rune(bit)))
			}
			if r.evType == int(evdev.EV_ABS) {
				if err := replayAbsAxis(dst, sourceFd, bit); err != nil {
					return false, err
				}
			}
			if r.evType == int(evdev.EV_FF) {
				hasFF = true
			}
		}
	}
	return hasFF, nil
}

// replayAbsAxis reads abs_info for axis from the source device via EVIOCGABS
// and replays it onto dst via UI_ABS_SETUP, so the mirrored axis carries the
// same range, fuzz, flat, and resolution as the real one.
func replayAbsAxis(dst *os.File, sourceFd int, axis int) error {
	var info absInfo
	req := evdev.EVIOCGABS(axis)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(sourceFd), req, uintptr(unsafe.Pointer(&info))); errno != 0 {
		return errs.Wrap(errno, errs.Exec, "uinput: EVIOCGABS").WithCtx("axis", strconv.Itoa(axis))
	}
	setup := uinputAbsSetup{Code: uint16(axis), Abs: info}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, dst.Fd(), evdev.UI_ABS_SETUP, uintptr(unsafe.Pointer(&setup))); errno != 0 {
		return errs.Wrap(errno, errs.Exec, "uinput: UI_ABS_SETUP").WithCtx("axis", strconv.Itoa(axis))
	}
	return nil
}

// forceScrollBits ensures the four relative scroll axes are always enabled
// regardless of what the source device natively reports.
func forceScrollBits(dst *os.File) error {
	if err := ioctlArg(dst, evdev.UI_SET_EVBIT, uintptr(evdev.EV_REL)); err != nil {
		return errs.Wrap(err, errs.Exec, "uinput: force EV_REL")
	}
	for _, code := range []uint16{evdev.RelWheel, evdev.RelHWheel, evdev.RelWheelHiRes, evdev.RelHWheelHiRes} {
		if err := ioctlArg(dst, evdev.UI_SET_RELBIT, uintptr(code)); err != nil {
			return errs.Wrap(err, errs.Exec, "uinput: force scroll relbit")
		}
	}
	return nil
}

func setupDevice(dst *os.File, hasFF bool) error {
	var setup uinputSetup
	setup.ID = evdev.ScrollDeviceID
	copy(setup.Name[:], []byte(evdev.ScrollDeviceName))
	if hasFF {
		setup.FFEffectsMax = defaultFFEffectsMax
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, dst.Fd(), evdev.UI_DEV_SETUP, uintptr(unsafe.Pointer(&setup)))
	if errno != 0 {
		return errs.Wrap(errno, errs.Exec, "uinput: UI_DEV_SETUP")
	}
	return nil
}

func ioctlNoArg(f *os.File, req uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func ioctlArg(f *os.File, req uintptr, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

func evioctlGBit(fd int, evType int, buf []byte) error {
	req := evdev.EVIOCGBIT(evType, len(buf))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return errno
	}
	return nil
}

//go:build linux

package evdev

import (
	"encoding/binary"
	"io"
)

// eventSize is sizeof(struct input_event) on a 64-bit kernel: two 8-byte
// timeval fields (tv_sec, tv_usec) followed by type/code/value.
const eventSize = 24

// InputEvent mirrors the kernel's struct input_event record layout:
// tv_sec, tv_usec as 8-byte fields, then 2+2+4 bytes of type/code/value.
type InputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// ReadEvent reads one fixed 24-byte input_event record from r.
func ReadEvent(r io.Reader) (InputEvent, error) {
	var buf [eventSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return InputEvent{}, err
	}
	return decodeEvent(buf), nil
}

func decodeEvent(buf [eventSize]byte) InputEvent {
	return InputEvent{
		Sec:   int64(binary.LittleEndian.Uint64(buf[0:8])),
		Usec:  int64(binary.LittleEndian.Uint64(buf[8:16])),
		Type:  binary.LittleEndian.Uint16(buf[16:18]),
		Code:  binary.LittleEndian.Uint16(buf[18:20]),
		Value: int32(binary.LittleEndian.Uint32(buf[20:24])),
	}
}

// Encode serializes ev into the 24-byte kernel wire layout for writing to a
// uinput device node.
func (ev InputEvent) Encode() []byte {
	var buf [eventSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(ev.Sec))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(ev.Usec))
	binary.LittleEndian.PutUint16(buf[16:18], ev.Type)
	binary.LittleEndian.PutUint16(buf[18:20], ev.Code)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(ev.Value))
	return buf[:]
}

// IsScroll reports whether ev is one of the four relative scroll axis
// events synq treats as "scroll": wheel, h-wheel, and their v120
// high-resolution counterparts.
func (ev InputEvent) IsScroll() bool {
	if ev.Type != EV_REL {
		return false
	}
	switch ev.Code {
	case RelWheel, RelHWheel, RelWheelHiRes, RelHWheelHiRes:
		return true
	default:
		return false
	}
}

// SynReportEvent returns an EV_SYN/SYN_REPORT record, the terminator every
// uinput write batch needs so the kernel commits the preceding events as one
// atomic report.
func SynReportEvent() InputEvent {
	return InputEvent{Type: EV_SYN, Code: SynReport, Value: 0}
}

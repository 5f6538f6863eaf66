//go:build linux

package evdev

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ev := InputEvent{Sec: 12, Usec: 345, Type: EV_REL, Code: RelWheelHiRes, Value: -120}
	buf := ev.Encode()
	if len(buf) != eventSize {
		t.Fatalf("expected %d-byte record, got %d", eventSize, len(buf))
	}
	got, err := ReadEvent(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if got != ev {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, ev)
	}
}

func TestIsScrollRecognizesAllFourAxes(t *testing.T) {
	for _, code := range []uint16{RelWheel, RelHWheel, RelWheelHiRes, RelHWheelHiRes} {
		ev := InputEvent{Type: EV_REL, Code: code}
		if !ev.IsScroll() {
			t.Errorf("code %#x: expected IsScroll true", code)
		}
	}
}

func TestIsScrollRejectsNonRelAndUnrelatedCodes(t *testing.T) {
	if (InputEvent{Type: EV_KEY, Code: RelWheel}).IsScroll() {
		t.Fatal("EV_KEY must never be treated as scroll")
	}
	if (InputEvent{Type: EV_REL, Code: 0x01}).IsScroll() {
		t.Fatal("an unrelated REL code must not be treated as scroll")
	}
}

func TestSynReportEvent(t *testing.T) {
	ev := SynReportEvent()
	if ev.Type != EV_SYN || ev.Code != SynReport || ev.Value != 0 {
		t.Fatalf("unexpected SYN_REPORT event: %+v", ev)
	}
}

package injector

import (
	"testing"

	"go.klb.dev/synq/internal/activestate"
	"go.klb.dev/synq/internal/evdev"
	"go.klb.dev/synq/internal/rpc"
)

func newTestState() *activestate.State {
	return activestate.New("test-host")
}

type fakeSink struct {
	writes [][]byte
}

func (f *fakeSink) WriteRaw(buf []byte) error {
	cp := append([]byte(nil), buf...)
	f.writes = append(f.writes, cp)
	return nil
}

func decodeEvents(t *testing.T, buf []byte) []evdev.InputEvent {
	t.Helper()
	if len(buf)%24 != 0 {
		t.Fatalf("buffer length %d is not a multiple of 24", len(buf))
	}
	var out []evdev.InputEvent
	for i := 0; i < len(buf); i += 24 {
		var chunk [24]byte
		copy(chunk[:], buf[i:i+24])
		ev, err := evdev.ReadEvent(sliceReader{chunk[:]})
		if err != nil {
			t.Fatalf("decode event: %v", err)
		}
		out = append(out, ev)
	}
	return out
}

type sliceReader struct{ b []byte }

func (s sliceReader) Read(p []byte) (int, error) {
	n := copy(p, s.b)
	return n, nil
}

func TestInjectNonZeroDeltaEmitsRelAndSyn(t *testing.T) {
	sink := &fakeSink{}
	in := New(sink, newTestState(), 0, 0)

	in.Inject(rpc.ScrollEvent{DeltaY: 1})

	if len(sink.writes) != 1 {
		t.Fatalf("expected exactly one batched write, got %d", len(sink.writes))
	}
	events := decodeEvents(t, sink.writes[0])
	if len(events) < 2 {
		t.Fatalf("I7: expected >= 2 records for non-zero delta, got %d", len(events))
	}
	last := events[len(events)-1]
	if last.Type != evdev.EV_SYN || last.Code != evdev.SynReport {
		t.Fatalf("expected trailing SYN_REPORT, got %+v", last)
	}
}

func TestInjectZeroDeltaEmitsOnlySyn(t *testing.T) {
	sink := &fakeSink{}
	in := New(sink, newTestState(), 0, 0)

	in.Inject(rpc.ScrollEvent{})

	events := decodeEvents(t, sink.writes[0])
	if len(events) != 1 {
		t.Fatalf("I7: expected exactly one SYN_REPORT for all-zero delta, got %d", len(events))
	}
}

func TestHiResScalingFactors(t *testing.T) {
	sink := &fakeSink{}
	in := New(sink, newTestState(), 0, 0)

	in.Inject(rpc.ScrollEvent{DeltaY: 15}) // 15*8=120 hi-res -> legacy REL_WHEEL=1

	events := decodeEvents(t, sink.writes[0])
	var gotHiRes, gotLegacy bool
	for _, ev := range events {
		switch ev.Code {
		case evdev.RelWheelHiRes:
			gotHiRes = true
			if ev.Value != 120 {
				t.Fatalf("expected hi-res value 120, got %d", ev.Value)
			}
		case evdev.RelWheel:
			gotLegacy = true
			if ev.Value != 1 {
				t.Fatalf("expected legacy value 1 (120/120), got %d", ev.Value)
			}
		}
	}
	if !gotHiRes || !gotLegacy {
		t.Fatal("expected both hi-res and legacy wheel events")
	}
}

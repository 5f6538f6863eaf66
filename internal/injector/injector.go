// Package injector implements the scroll injector: it turns an inbound
// rpc.ScrollEvent into uinput REL events, and runs the blur/TTL handoff
// that releases activation when the inbound stream goes quiet for a
// sustained period.
//
// The blur check is time driven, not gated on event arrival, so it runs on
// its own ticker.
package injector

import (
	"context"
	"math"
	"sync"
	"time"

	"go.klb.dev/synq/internal/activestate"
	"go.klb.dev/synq/internal/clock"
	"go.klb.dev/synq/internal/evdev"
	"go.klb.dev/synq/internal/rpc"
)

// Sink is the subset of uinput.Sink the injector writes to.
type Sink interface {
	WriteRaw([]byte) error
}

// checkInterval bounds how often the blur/TTL gate is re-evaluated; it is
// also the granularity at which Run notices context cancellation.
const checkInterval = 100 * time.Millisecond

// Injector serializes scroll writes through a single uinput sink shared
// with the blocker.
type Injector struct {
	sink  Sink
	state *activestate.State

	scrollTTL time.Duration
	blurTTL   time.Duration

	mu sync.Mutex

	// OnDeactivate is invoked when the blur/TTL handoff decides to release
	// activation.
	OnDeactivate func()
}

// New returns an Injector writing through sink, gating on state.
func New(sink Sink, state *activestate.State, scrollTTL, blurTTL time.Duration) *Injector {
	return &Injector{sink: sink, state: state, scrollTTL: scrollTTL, blurTTL: blurTTL}
}

// Inject converts ev into uinput REL events and writes them as one batch,
// then stamps last_scroll_ms and clears any armed blur: any scroll resets
// last_blur to 0.
func (in *Injector) Inject(ev rpc.ScrollEvent) {
	in.mu.Lock()
	defer in.mu.Unlock()

	buf := encodeScroll(ev)
	if len(buf) > 0 {
		_ = in.sink.WriteRaw(buf)
	}
	in.state.Touch(clock.NowMillis())
	in.state.ClearBlur()
}

// Run periodically evaluates the blur/TTL handoff until ctx is cancelled.
func (in *Injector) Run(ctx context.Context) {
	t := time.NewTicker(checkInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			in.checkBlur()
		}
	}
}

// checkBlur applies the blur handoff: once the gap since the last scroll
// exceeds scrollTTL, the first tick to notice arms last_blur_ms; once the
// blur itself has lasted blurTTL, OnDeactivate fires once.
func (in *Injector) checkBlur() {
	in.mu.Lock()
	defer in.mu.Unlock()

	now := clock.NowMillis()
	lastScroll := in.state.LastScrollMs()
	if lastScroll == 0 || now-lastScroll <= uint64(in.scrollTTL.Milliseconds()) {
		return
	}

	lastBlur := in.state.LastBlurMs()
	if lastBlur == 0 {
		in.state.SetBlurMs(now)
		return
	}
	if now-lastBlur > uint64(in.blurTTL.Milliseconds()) {
		in.state.SetBlurMs(now) // re-arm so OnDeactivate fires once per blur window
		if in.OnDeactivate != nil {
			in.OnDeactivate()
		}
	}
}

// encodeScroll builds the up-to-four-REL-plus-SYN batch, hi-res axes
// followed by their legacy counterparts, all concatenated into one buffer.
func encodeScroll(ev rpc.ScrollEvent) []byte {
	hiResY := int32(math.Round(ev.DeltaY * 8))
	hiResX := int32(math.Round(ev.DeltaX * 8))

	var events []evdev.InputEvent
	if hiResY != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.RelWheelHiRes, Value: hiResY})
	}
	if hiResX != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.RelHWheelHiRes, Value: hiResX})
	}
	if legacyY := hiResY / 120; legacyY != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.RelWheel, Value: legacyY})
	}
	if legacyX := hiResX / 120; legacyX != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.RelHWheel, Value: legacyX})
	}
	events = append(events, evdev.SynReportEvent())

	buf := make([]byte, 0, len(events)*24)
	for _, e := range events {
		buf = append(buf, e.Encode()...)
	}
	return buf
}

//go:build linux

package evdev

import (
	"context"
	"os"

	"go.klb.dev/synq/internal/errs"
	"go.klb.dev/synq/internal/inputdev"
	"go.klb.dev/synq/internal/rpc"
)

// Receiver opens exactly one input device and reports scroll deltas from
// it. Non-scroll events are silently dropped: this side only produces
// outbound ScrollEvents, it never touches the uinput sink directly.
type Receiver struct {
	path string
	f    *os.File
}

// NewReceiver opens path read-only for outbound scroll capture.
func NewReceiver(path string) (*Receiver, error) {
	f, err := inputdev.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	return &Receiver{path: path, f: f}, nil
}

// Close releases the device.
func (r *Receiver) Close() error { return r.f.Close() }

// Run reads events until ctx is cancelled, calling emit with a
// rpc.ScrollEvent for every EV_REL wheel/h-wheel event observed. Absent
// axes are reported as 0.0 deltas.
func (r *Receiver) Run(ctx context.Context, source string, emit func(rpc.ScrollEvent)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		ev, err := ReadEvent(r.f)
		if err != nil {
			return errs.Wrap(err, errs.Read, "receiver: read event").WithCtx("path", r.path)
		}
		if !ev.IsScroll() {
			continue
		}

		out := rpc.ScrollEvent{Source: rpc.ScrollSourceWheel}
		switch ev.Code {
		case RelWheel:
			out.DeltaY = float64(ev.Value)
		case RelWheelHiRes:
			out.DeltaY = float64(ev.Value) / 8
		case RelHWheel:
			out.DeltaX = float64(ev.Value)
		case RelHWheelHiRes:
			out.DeltaX = float64(ev.Value) / 8
		}
		emit(out)
	}
}

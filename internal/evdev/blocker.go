//go:build linux

package evdev

import (
	"context"
	"log/slog"
	"os"

	"go.klb.dev/synq/internal/activestate"
	"go.klb.dev/synq/internal/clock"
	"go.klb.dev/synq/internal/errs"
	"go.klb.dev/synq/internal/inputdev"
)

// Sink is the subset of uinput.Sink the blocker needs, so tests can
// substitute a fake.
type Sink interface {
	WriteRaw([]byte) error
}

// Blocker owns one grabbed real input device. It reads every input_event,
// drops the scroll-wheel axes (stamping last_scroll_ms and firing OnScroll
// when the host isn't active), and forwards every other event verbatim to
// the shared uinput sink.
type Blocker struct {
	path  string
	f     *os.File
	sink  Sink
	state *activestate.State

	// OnScroll is invoked whenever a wheel event is dropped while this host
	// is not active, to request activation. May be nil.
	OnScroll func()
}

// NewBlocker opens path read-only, takes exclusive ownership via EVIOCGRAB,
// and returns a Blocker forwarding non-scroll events to sink.
func NewBlocker(path string, sink Sink, state *activestate.State) (*Blocker, error) {
	f, err := inputdev.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	if err := inputdev.Grab(f, true); err != nil {
		f.Close()
		return nil, err
	}
	return &Blocker{path: path, f: f, sink: sink, state: state}, nil
}

// Run reads events until ctx is cancelled or a read error occurs. Every read
// is a blocking kernel syscall: ctx is checked between reads, not during
// one, since a grabbed read can block indefinitely.
func (b *Blocker) Run(ctx context.Context) error {
	defer b.release()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		ev, err := ReadEvent(b.f)
		if err != nil {
			return errs.Wrap(err, errs.Read, "blocker: read event").WithCtx("path", b.path)
		}

		if ev.IsScroll() {
			b.state.Touch(clock.NowMillis())
			if !b.state.HostActive() && b.OnScroll != nil {
				b.OnScroll()
			}
			continue
		}

		if err := b.sink.WriteRaw(ev.Encode()); err != nil {
			slog.Warn("blocker: forward to uinput failed", "path", b.path, "err", err)
		}
	}
}

func (b *Blocker) release() {
	if err := inputdev.Grab(b.f, false); err != nil {
		slog.Warn("blocker: release grab failed", "path", b.path, "err", err)
	}
	b.f.Close()
}

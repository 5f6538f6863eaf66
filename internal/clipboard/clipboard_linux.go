//go:build linux

package clipboard

import (
	"bytes"
	"log/slog"
	"time"

	"golang.design/x/clipboard"
)

const pollInterval = 250 * time.Millisecond

type linuxBackend struct {
	watchCh chan struct{}
	done    chan struct{}
	last    []byte
}

// New returns the Linux clipboard backend, falling back to a headless no-op
// backend if no display server is reachable (e.g. a server box running
// synq purely as a scroll destination with no X11/Wayland session).
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return &headlessBackend{watchCh: make(chan struct{})}
	}
	b := &linuxBackend{
		watchCh: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go b.poll()
	return b
}

func (b *linuxBackend) poll() {
	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			text := clipboard.Read(clipboard.FmtText)
			if !bytes.Equal(text, b.last) {
				b.last = text
				select {
				case b.watchCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (b *linuxBackend) Read() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (b *linuxBackend) Write(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (b *linuxBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *linuxBackend) Close()                 { close(b.done) }

// headlessBackend is a no-op Backend used when no display server is present.
type headlessBackend struct {
	watchCh chan struct{}
}

func (b *headlessBackend) Read() (string, error)    { return "", nil }
func (b *headlessBackend) Write(text string) error  { return nil }
func (b *headlessBackend) Watch() <-chan struct{}   { return b.watchCh }
func (b *headlessBackend) Close()                   {}

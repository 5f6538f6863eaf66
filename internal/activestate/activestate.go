// Package activestate implements the Lamport-clocked active-peer election.
// Exactly one configured host is "active" at a time: the one whose scroll
// should actually reach the shared uinput sink.
//
// Uses a split between atomic counters for hot-path fields and a mutex for
// the rarer string field.
package activestate

import (
	"sync"
	"sync/atomic"
)

// State is one host's view of the election.
// HostActive() == true iff ActivePeer() == hostPublicKey.
// Clock only ever increases, except for an explicit clock=0 reset.
type State struct {
	hostPublicKey string

	clock      atomic.Uint64
	hostActive atomic.Bool

	lastScrollMs atomic.Uint64
	lastBlurMs   atomic.Uint64

	mu         sync.Mutex
	activePeer string // empty means "no peer elected"
}

// New returns a State for a host identified by hostPublicKey, initially
// unelected (clock=0, no active peer).
func New(hostPublicKey string) *State {
	return &State{hostPublicKey: hostPublicKey}
}

// Clock returns the current Lamport clock.
func (s *State) Clock() uint64 { return s.clock.Load() }

// HostActive reports whether this host is currently the active peer.
func (s *State) HostActive() bool { return s.hostActive.Load() }

// ActivePeer returns the currently-elected peer's public key, or "" if none.
func (s *State) ActivePeer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePeer
}

// Apply applies an inbound active_state/ActiveEvent update (peer, clock): a
// reset (clock == 0) is always accepted; otherwise the update is a no-op
// unless clock is strictly greater than the current clock. Returns true if
// the update was applied.
func (s *State) Apply(peer string, eventClock uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if eventClock == 0 {
		s.activePeer = ""
		s.clock.Store(0)
		s.hostActive.Store(false)
		return true
	}

	if eventClock <= s.clock.Load() {
		return false
	}

	s.clock.Store(eventClock)
	s.activePeer = peer
	s.hostActive.Store(peer == s.hostPublicKey)
	return true
}

// Elect is called at the election source: it increments
// the clock once and sets peer as the new active peer, returning the new
// clock value to fan out as an ActiveEvent. Unlike Apply this always
// advances the clock. Elect is the only writer allowed to do so outside of
// a reset.
func (s *State) Elect(peer string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clock.Load() + 1
	s.clock.Store(next)
	s.activePeer = peer
	s.hostActive.Store(peer == s.hostPublicKey)
	return next
}

// Touch stamps last_scroll_ms = nowMs, called by the blocker whenever a
// local wheel event is dropped.
func (s *State) Touch(nowMs uint64) {
	s.lastScrollMs.Store(nowMs)
}

// LastScrollMs returns the last-recorded local scroll timestamp, or 0 if
// none has been observed yet.
func (s *State) LastScrollMs() uint64 { return s.lastScrollMs.Load() }

// LastBlurMs returns the timestamp the injector first observed a scroll gap
// exceeding SCROLL_TTL, or 0 if not currently blurring.
func (s *State) LastBlurMs() uint64 { return s.lastBlurMs.Load() }

// SetBlurMs sets last_blur_ms, used by the injector's blur/TTL handoff.
func (s *State) SetBlurMs(ms uint64) { s.lastBlurMs.Store(ms) }

// ClearBlur resets last_blur_ms to 0, called whenever any scroll arrives.
func (s *State) ClearBlur() { s.lastBlurMs.Store(0) }

// Reset re-arms the election to "no active peer, clock 0", used at daemon
// startup to reclaim ownership.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePeer = ""
	s.clock.Store(0)
	s.hostActive.Store(false)
}

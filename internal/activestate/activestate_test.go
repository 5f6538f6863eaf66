package activestate

import "testing"

func TestResetAlwaysAccepted(t *testing.T) {
	s := New("host-a")
	s.Elect("host-b")
	if !s.Apply("host-c", 0) {
		t.Fatal("reset (clock=0) must always be applied")
	}
	if s.Clock() != 0 || s.ActivePeer() != "" {
		t.Fatalf("reset did not clear state: clock=%d peer=%q", s.Clock(), s.ActivePeer())
	}
}

func TestStaleClockIgnored(t *testing.T) {
	s := New("host-a")
	s.Apply("host-b", 5)
	if applied := s.Apply("host-c", 5); applied {
		t.Fatal("equal clock must be a no-op")
	}
	if applied := s.Apply("host-c", 3); applied {
		t.Fatal("lower clock must be a no-op")
	}
	if s.ActivePeer() != "host-b" {
		t.Fatalf("stale updates must not change active peer, got %q", s.ActivePeer())
	}
}

func TestHostActiveInvariant(t *testing.T) {
	s := New("host-a")
	s.Apply("host-a", 1)
	if !s.HostActive() {
		t.Fatal("host_active must be true when active_peer == host public key")
	}
	s.Apply("host-b", 2)
	if s.HostActive() {
		t.Fatal("host_active must be false when active_peer != host public key")
	}
}

func TestElectAlwaysAdvancesClock(t *testing.T) {
	s := New("host-a")
	c1 := s.Elect("host-b")
	c2 := s.Elect("host-a")
	if c2 <= c1 {
		t.Fatalf("Elect must strictly advance the clock: %d -> %d", c1, c2)
	}
	if !s.HostActive() {
		t.Fatal("expected host-a active after self-election")
	}
}

func TestActivationRaceScenario(t *testing.T) {
	// Two activate_request(true) calls race at the source; whichever is
	// applied last at the source wins, and the fan-out clock increases
	// monotonically regardless of arrival order.
	s := New("source")
	c1 := s.Elect("peer-a")
	c2 := s.Elect("peer-b")
	if c2 != c1+1 {
		t.Fatalf("expected sequential single-increment clocks, got %d then %d", c1, c2)
	}
	if s.ActivePeer() != "peer-b" {
		t.Fatalf("expected peer-b to win the race, got %q", s.ActivePeer())
	}
}

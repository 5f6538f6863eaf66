package clipboard

import (
	"testing"
	"time"
)

func TestEchoGuardSuppressesWithinTTL(t *testing.T) {
	g := NewEchoGuard(500 * time.Millisecond)
	base := time.Now()
	g.MarkReceived(base)

	if !g.ShouldSuppress(base.Add(100 * time.Millisecond)) {
		t.Fatal("expected suppression inside the TTL window")
	}
	if g.ShouldSuppress(base.Add(600 * time.Millisecond)) {
		t.Fatal("expected no suppression after the TTL window elapses")
	}
}

func TestEchoGuardZeroValueNeverSuppresses(t *testing.T) {
	g := NewEchoGuard(500 * time.Millisecond)
	if g.ShouldSuppress(time.Now()) {
		t.Fatal("a guard with no prior MarkReceived must never suppress")
	}
}

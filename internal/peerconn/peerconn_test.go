package peerconn

import (
	"testing"

	"go.klb.dev/synq/internal/rpc"
)

func TestEnqueueDeliversThroughTheQueue(t *testing.T) {
	c := New("peer-a", "unused:0", "secret")
	c.Enqueue(rpc.ScrollEvent{DeltaY: 1})
	select {
	case ev := <-c.DrainForTest():
		if ev.DeltaY != 1 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected the enqueued event to be readable")
	}
}

func TestEnqueueDropsOnFullQueue(t *testing.T) {
	c := New("peer-a", "unused:0", "secret")
	for i := 0; i < QueueCapacity; i++ {
		c.Enqueue(rpc.ScrollEvent{DeltaY: float64(i)})
	}
	// One more must be dropped silently rather than block.
	c.Enqueue(rpc.ScrollEvent{DeltaY: 999})

	drained := 0
	for range c.DrainForTest() {
		drained++
		if drained == QueueCapacity {
			break
		}
	}
	if drained != QueueCapacity {
		t.Fatalf("expected exactly %d queued events, got %d", QueueCapacity, drained)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Disconnected: "disconnected",
		Connecting:   "connecting",
		Connected:    "connected",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

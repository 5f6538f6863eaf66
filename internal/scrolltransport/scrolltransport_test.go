package scrolltransport

import (
	"testing"

	"go.klb.dev/synq/internal/activestate"
	"go.klb.dev/synq/internal/peerconn"
	"go.klb.dev/synq/internal/rpc"
)

func TestSendDropsWhenNoActivePeer(t *testing.T) {
	state := activestate.New("host-a")
	connA := peerconn.New("peer-a", "peer-a:7733", "secret")
	tr := New(state, map[string]*peerconn.Connector{"peer-a": connA})

	tr.Send(rpc.ScrollEvent{DeltaY: 1})

	select {
	case <-connA.DrainForTest():
		t.Fatal("expected no event to be enqueued without an active peer")
	default:
	}
}

func TestSendRoutesOnlyToActivePeer(t *testing.T) {
	state := activestate.New("host-a")
	connA := peerconn.New("peer-a", "peer-a:7733", "secret")
	connB := peerconn.New("peer-b", "peer-b:7733", "secret")
	tr := New(state, map[string]*peerconn.Connector{"peer-a": connA, "peer-b": connB})

	state.Elect("peer-b")
	tr.Send(rpc.ScrollEvent{DeltaY: 1})

	select {
	case <-connA.DrainForTest():
		t.Fatal("non-active peer must not receive the event")
	default:
	}
	select {
	case <-connB.DrainForTest():
	default:
		t.Fatal("active peer should have received the event")
	}
}

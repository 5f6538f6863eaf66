package activexport

import (
	"testing"

	"go.klb.dev/synq/internal/activestate"
)

func TestHandleActivateRequestRejectsUnknownPeer(t *testing.T) {
	state := activestate.New("source-host")
	_, err := HandleActivateRequest(state, func(string) bool { return false }, "source-host", "stranger", true)
	if err == nil {
		t.Fatal("expected rejection for a non-destination caller")
	}
}

func TestHandleActivateRequestElectsCaller(t *testing.T) {
	state := activestate.New("source-host")
	ev, err := HandleActivateRequest(state, func(string) bool { return true }, "source-host", "peer-b", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Peer != "peer-b" {
		t.Fatalf("expected peer-b elected active, got %q", ev.Peer)
	}
}

func TestHandleActivateRequestDeactivateReturnsHost(t *testing.T) {
	state := activestate.New("source-host")
	ev, err := HandleActivateRequest(state, func(string) bool { return true }, "source-host", "peer-b", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Peer != "source-host" {
		t.Fatalf("deactivate must hand ownership back to the source host, got %q", ev.Peer)
	}
}

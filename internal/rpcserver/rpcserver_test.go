package rpcserver

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/synq/internal/activestate"
	"go.klb.dev/synq/internal/clipboard"
	"go.klb.dev/synq/internal/clipxport"
	"go.klb.dev/synq/internal/keystore"
	"go.klb.dev/synq/internal/rpc"
)

type fakeBackend struct {
	written string
}

func (f *fakeBackend) Read() (string, error)   { return f.written, nil }
func (f *fakeBackend) Write(text string) error { f.written = text; return nil }
func (f *fakeBackend) Watch() <-chan struct{}  { return nil }
func (f *fakeBackend) Close()                  {}

// testHarness bundles a Service with both ends of a keystore pair so tests
// can encrypt as the peer and have the service decrypt as the host.
type testHarness struct {
	svc        *Service
	peerStore  *keystore.Store
	peerPubB64 string
}

func newTestService(t *testing.T, scrollDest, clipDest bool) testHarness {
	t.Helper()
	aPriv, aPub, _ := keystore.GenerateKeypair()
	bPriv, bPub, _ := keystore.GenerateKeypair()
	hostStore := keystore.New(aPriv, aPub)
	peerStore := keystore.New(bPriv, bPub)

	state := activestate.New(keystore.EncodeKey(aPub))
	backend := &fakeBackend{}
	guard := clipboard.NewEchoGuard(0)
	receiver := clipxport.NewReceiver(hostStore, backend, guard)
	receiver.IsClipboardSource = func(string) bool { return true }

	svc := New(keystore.EncodeKey(aPub), state, receiver, nil)
	svc.ScrollDestination = scrollDest
	svc.ClipboardDestination = clipDest
	return testHarness{svc: svc, peerStore: peerStore, peerPubB64: keystore.EncodeKey(bPub)}
}

func TestClipboardRejectsWhenDestinationDisabled(t *testing.T) {
	h := newTestService(t, false, false)
	_, err := h.svc.Clipboard(context.Background(), &rpc.ClipboardEvent{Client: "x", Data: []byte("y")})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}
}

func TestClipboardAppliesValidEnvelope(t *testing.T) {
	h := newTestService(t, false, true)

	peerSess, err := h.peerStore.Session(h.svc.hostPublicKey)
	if err != nil {
		t.Fatalf("peer session: %v", err)
	}
	envelope, err := peerSess.Encrypt([]byte("shared text"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := h.svc.Clipboard(context.Background(), &rpc.ClipboardEvent{Client: h.peerPubB64, Data: []byte(envelope)}); err != nil {
		t.Fatalf("Clipboard: %v", err)
	}
}

func TestActivateRequestRejectsWithoutSourceHandler(t *testing.T) {
	h := newTestService(t, true, false)
	_, err := h.svc.ActivateRequest(context.Background(), &rpc.ActivateEvent{Peer: "peer-b", State: true})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition when this host is not a scroll source, got %v", err)
	}
}

func TestActiveStateAppliesResetAndReportsAcceptance(t *testing.T) {
	h := newTestService(t, true, false)
	accepted := false
	h.svc.OnActiveStateApplied = func(string, uint64) { accepted = true }

	if _, err := h.svc.ActiveState(context.Background(), &rpc.ActiveEvent{Peer: "peer-b", Clock: 0}); err != nil {
		t.Fatalf("ActiveState: %v", err)
	}
	if !accepted {
		t.Fatal("expected a clock==0 reset to be accepted and trigger OnActiveStateApplied")
	}
}

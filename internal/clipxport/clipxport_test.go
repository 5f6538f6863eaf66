package clipxport

import (
	"testing"
	"time"

	"go.klb.dev/synq/internal/clipboard"
	"go.klb.dev/synq/internal/keystore"
	"go.klb.dev/synq/internal/rpc"
)

type fakeBackend struct{ written string }

func (f *fakeBackend) Read() (string, error)   { return f.written, nil }
func (f *fakeBackend) Write(text string) error { f.written = text; return nil }
func (f *fakeBackend) Watch() <-chan struct{}  { return nil }
func (f *fakeBackend) Close()                  {}

func TestSendDropsOnFullQueueWithoutBlocking(t *testing.T) {
	_, aPub, _ := keystore.GenerateKeypair()
	store := keystore.New([32]byte{}, aPub)
	tr := New(keystore.EncodeKey(aPub), store, "secret")

	for i := 0; i < cap(tr.reqs)+5; i++ {
		tr.Send(Request{PeerAddress: "unused:0", PeerPublicKey: "x", Text: "hi"})
	}
	if len(tr.reqs) != cap(tr.reqs) {
		t.Fatalf("expected the queue to stay at capacity %d, got %d", cap(tr.reqs), len(tr.reqs))
	}
}

func TestReceiverApplyRejectsUntrustedSource(t *testing.T) {
	aPriv, aPub, _ := keystore.GenerateKeypair()
	store := keystore.New(aPriv, aPub)
	backend := &fakeBackend{}
	guard := clipboard.NewEchoGuard(0)
	r := NewReceiver(store, backend, guard)
	r.IsClipboardSource = func(string) bool { return false }

	err := r.Apply(&rpc.ClipboardEvent{Client: "stranger", Data: []byte("anything")})
	if err == nil {
		t.Fatal("expected Apply to reject a peer IsClipboardSource rejects")
	}
}

func TestReceiverApplyDecryptsAndWrites(t *testing.T) {
	aPriv, aPub, _ := keystore.GenerateKeypair()
	bPriv, bPub, _ := keystore.GenerateKeypair()
	hostStore := keystore.New(aPriv, aPub)
	peerStore := keystore.New(bPriv, bPub)

	backend := &fakeBackend{}
	guard := clipboard.NewEchoGuard(time.Hour)
	r := NewReceiver(hostStore, backend, guard)
	r.IsClipboardSource = func(string) bool { return true }

	peerSess, err := peerStore.Session(keystore.EncodeKey(aPub))
	if err != nil {
		t.Fatalf("peer session: %v", err)
	}
	envelope, err := peerSess.Encrypt([]byte("clip text"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if err := r.Apply(&rpc.ClipboardEvent{Client: keystore.EncodeKey(bPub), Data: []byte(envelope)}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if backend.written != "clip text" {
		t.Fatalf("backend.written = %q, want %q", backend.written, "clip text")
	}
}

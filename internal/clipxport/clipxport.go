// Package clipxport implements the clipboard transport and receiver: a
// unary, connect-on-demand send path, and a receive-side handler that
// authenticates, decrypts, applies the change locally, and arms the
// echo-suppression window.
package clipxport

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"

	"go.klb.dev/synq/internal/clipboard"
	"go.klb.dev/synq/internal/errs"
	"go.klb.dev/synq/internal/keystore"
	"go.klb.dev/synq/internal/rpc"
	"go.klb.dev/synq/internal/tlsconf"
)

// Request is one outbound clipboard change to send to a single peer.
type Request struct {
	PeerAddress   string
	PeerPublicKey string
	Text          string
}

// Transport reads a channel of Requests, encrypts each with the key store,
// and issues a unary clipboard RPC. There is no retry: the next clipboard
// change will re-send.
type Transport struct {
	host       string // this host's own public key, sent as ClipboardEvent.Client
	store      *keystore.Store
	passphrase string
	reqs       chan Request
}

// New returns a Transport. Call Run in a goroutine to drive it.
func New(hostPublicKey string, store *keystore.Store, passphrase string) *Transport {
	return &Transport{host: hostPublicKey, store: store, passphrase: passphrase, reqs: make(chan Request, 16)}
}

// Send submits req for delivery (non-blocking; logs and drops on a full
// queue rather than stalling the clipboard watcher).
func (t *Transport) Send(req Request) {
	select {
	case t.reqs <- req:
	default:
		slog.Warn("clipxport: send queue full, dropping clipboard update")
	}
}

// Run drains the request queue, connecting on demand for each send, until
// ctx is cancelled.
func (t *Transport) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-t.reqs:
			if err := t.deliver(ctx, req); err != nil {
				errs.Log("clipxport: delivery failed", err, "peer", req.PeerAddress)
			}
		}
	}
}

func (t *Transport) deliver(ctx context.Context, req Request) error {
	sess, err := t.store.Session(req.PeerPublicKey)
	if err != nil {
		return err
	}
	envelope, err := sess.Encrypt([]byte(req.Text))
	if err != nil {
		return err
	}

	creds, err := tlsconf.ClientCredentials(t.passphrase)
	if err != nil {
		return err
	}
	conn, err := grpc.NewClient(rpc.DialTarget(req.PeerAddress), grpc.WithTransportCredentials(creds), rpc.DialOption())
	if err != nil {
		return errs.Wrap(err, errs.Network, "clipxport: dial").WithCtx("peer", req.PeerAddress)
	}
	defer conn.Close()

	client := rpc.NewSynqClient(conn)
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = client.Clipboard(dialCtx, &rpc.ClipboardEvent{
		Client: t.host,
		Data:   []byte(envelope),
	})
	if err != nil {
		return errs.Wrap(err, errs.Network, "clipxport: clipboard rpc")
	}
	return nil
}

// Receiver applies inbound clipboard RPCs: decode UTF-8, decrypt, stamp
// last_set_clipboard = now, hand plaintext to the setter.
type Receiver struct {
	store   *keystore.Store
	backend clipboard.Backend
	guard   *clipboard.EchoGuard

	// IsClipboardSource reports whether a configured peer public key is
	// trusted as a clipboard source.
	IsClipboardSource func(peerPublicKey string) bool
}

// NewReceiver returns a Receiver that applies decrypted plaintext to
// backend and arms guard against echoing it straight back out.
func NewReceiver(store *keystore.Store, backend clipboard.Backend, guard *clipboard.EchoGuard) *Receiver {
	return &Receiver{store: store, backend: backend, guard: guard}
}

// Apply handles one inbound rpc.ClipboardEvent.
func (r *Receiver) Apply(ev *rpc.ClipboardEvent) error {
	if r.IsClipboardSource != nil && !r.IsClipboardSource(ev.Client) {
		return errs.New(errs.Unauthorized, "clipxport: peer is not an authorized clipboard source").WithCtx("peer", ev.Client)
	}
	sess, err := r.store.Session(ev.Client)
	if err != nil {
		return err
	}
	plain, err := sess.Decrypt(string(ev.Data))
	if err != nil {
		return err
	}
	r.guard.MarkReceived(time.Now())
	return r.backend.Write(string(plain))
}

// Package peerconn implements the per-peer reconnecting scroll connector: a
// state machine that dials a scroll destination, streams a bounded, lossy
// queue of outbound ScrollEvents into it, and retries on a fixed back-off
// after any error.
package peerconn

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"go.klb.dev/synq/internal/rpc"
	"go.klb.dev/synq/internal/tlsconf"
)

// QueueCapacity is the bounded, lossy per-peer outbound queue size.
const QueueCapacity = 32

// ReconnectDelay is the fixed back-off between connection attempts.
const ReconnectDelay = time.Second

// State names the connection phases Run steps through. A Connector does not
// record or expose its current State.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Connector owns one peer's outbound scroll stream: a fixed-capacity queue
// drained by a reconnecting client-streaming RPC loop.
type Connector struct {
	peerName string
	addr     string
	passphrase string

	queue chan rpc.ScrollEvent
}

// New returns a Connector for a scroll-destination peer at addr,
// authenticated with passphrase (the shared TLS secret from config).
func New(peerName, addr, passphrase string) *Connector {
	return &Connector{
		peerName:   peerName,
		addr:       addr,
		passphrase: passphrase,
		queue:      make(chan rpc.ScrollEvent, QueueCapacity),
	}
}

// DrainForTest exposes the outbound queue for unit tests that need to
// assert on what was (or wasn't) enqueued, without spinning up a real RPC
// connection.
func (c *Connector) DrainForTest() <-chan rpc.ScrollEvent { return c.queue }

// Enqueue submits ev for delivery using a non-blocking try-send: if the
// queue is full, ev is dropped. The queue is intentionally lossy.
func (c *Connector) Enqueue(ev rpc.ScrollEvent) {
	select {
	case c.queue <- ev:
	default:
		slog.Warn("peerconn: outbound queue full, dropping scroll event", "peer", c.peerName)
	}
}

// Run drives the DISCONNECTED → CONNECTING → CONNECTED state machine until
// ctx is cancelled, retrying with a fixed ReconnectDelay after any error.
func (c *Connector) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.runOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || status.Code(err) == codes.Canceled {
				return
			}
			slog.Warn("peerconn: stream ended, reconnecting", "peer", c.peerName, "err", err, "retry_in", ReconnectDelay)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(ReconnectDelay):
		}
	}
}

// runOnce dials addr, opens a client-streaming Scroll RPC, and drains the
// queue into it until the stream fails or ctx is cancelled.
func (c *Connector) runOnce(ctx context.Context) error {
	creds, err := tlsconf.ClientCredentials(c.passphrase)
	if err != nil {
		return err
	}
	conn, err := grpc.NewClient(rpc.DialTarget(c.addr),
		grpc.WithTransportCredentials(creds),
		rpc.DialOption(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                30 * time.Second,
			Timeout:             10 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return err
	}
	defer conn.Close()

	client := rpc.NewSynqClient(conn)
	stream, err := client.Scroll(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_, _ = stream.CloseAndRecv()
			return ctx.Err()
		case ev := <-c.queue:
			if err := stream.Send(&ev); err != nil {
				return err
			}
		}
	}
}

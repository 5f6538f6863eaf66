// Package scrolltransport implements the active-peer-only scroll fan-out:
// a single application-facing Send entry point multiplexed into per-peer connectors,
// gated on the current election winner.
package scrolltransport

import (
	"context"

	"go.klb.dev/synq/internal/activestate"
	"go.klb.dev/synq/internal/peerconn"
	"go.klb.dev/synq/internal/rpc"
)

// Transport fans out local scroll events to exactly the currently-active
// peer's connector: scroll follows ownership.
type Transport struct {
	state *activestate.State
	conns map[string]*peerconn.Connector // public key -> connector
}

// New returns a Transport backed by state and the given peer connectors,
// keyed by each peer's public key.
func New(state *activestate.State, conns map[string]*peerconn.Connector) *Transport {
	return &Transport{state: state, conns: conns}
}

// Run starts every owned connector's reconnect loop until ctx is cancelled.
func (t *Transport) Run(ctx context.Context) {
	for _, c := range t.conns {
		go c.Run(ctx)
	}
	<-ctx.Done()
}

// Send enqueues ev to the connector for the currently-active peer. If no
// peer is active, or the active peer has no configured connector, the
// event is dropped.
func (t *Transport) Send(ev rpc.ScrollEvent) {
	active := t.state.ActivePeer()
	if active == "" {
		return
	}
	conn, ok := t.conns[active]
	if !ok {
		return
	}
	conn.Enqueue(ev)
}

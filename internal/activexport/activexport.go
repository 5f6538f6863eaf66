// Package activexport implements the activate/deactivate request path: the
// blocker's on-scroll callback and the injector's blur timeout both enqueue
// a request here; a single handler drains the queue and issues one
// activate_request RPC at a time to the configured scroll source, applying
// the response locally.
package activexport

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"

	"go.klb.dev/synq/internal/activestate"
	"go.klb.dev/synq/internal/errs"
	"go.klb.dev/synq/internal/rpc"
	"go.klb.dev/synq/internal/tlsconf"
)

// Request is a pending activate/deactivate ask.
type Request struct {
	Active bool
}

// Exporter owns the single in-flight-at-a-time activation handler.
type Exporter struct {
	hostPublicKey string
	sourceAddr    string
	passphrase    string
	state         *activestate.State

	reqs chan Request
}

// New returns an Exporter that issues activate_request RPCs against
// sourceAddr on behalf of hostPublicKey.
func New(hostPublicKey, sourceAddr, passphrase string, state *activestate.State) *Exporter {
	return &Exporter{
		hostPublicKey: hostPublicKey,
		sourceAddr:    sourceAddr,
		passphrase:    passphrase,
		state:         state,
		reqs:          make(chan Request, 8),
	}
}

// RequestActivate is called by the blocker's on-scroll callback.
func (e *Exporter) RequestActivate() { e.enqueue(Request{Active: true}) }

// RequestDeactivate is called by the injector's blur-timeout callback.
func (e *Exporter) RequestDeactivate() { e.enqueue(Request{Active: false}) }

func (e *Exporter) enqueue(r Request) {
	select {
	case e.reqs <- r:
	default:
		slog.Warn("activexport: request queue full, dropping", "active", r.Active)
	}
}

// Run drains the request queue, issuing one activate_request RPC at a time,
// until ctx is cancelled.
func (e *Exporter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-e.reqs:
			e.issue(ctx, req)
		}
	}
}

func (e *Exporter) issue(ctx context.Context, req Request) {
	creds, err := tlsconf.ClientCredentials(e.passphrase)
	if err != nil {
		slog.Warn("activexport: tls credentials", "err", err)
		return
	}
	conn, err := grpc.NewClient(rpc.DialTarget(e.sourceAddr), grpc.WithTransportCredentials(creds), rpc.DialOption())
	if err != nil {
		slog.Warn("activexport: dial source failed", "addr", e.sourceAddr, "err", err)
		return
	}
	defer conn.Close()

	client := rpc.NewSynqClient(conn)
	resp, err := client.ActivateRequest(ctx, &rpc.ActivateEvent{Peer: e.hostPublicKey, State: req.Active})
	if err != nil {
		slog.Warn("activexport: activate_request failed", "err", err)
		return
	}
	e.state.Apply(resp.Peer, resp.Clock)
}

// HandleActivateRequest implements the source-side of the activate_request
// RPC: validates the caller is a configured scroll destination, advances
// the election, and returns the new ActiveEvent for the caller to apply and
// fan out.
//
// isScrollDestination reports whether callerPublicKey is a permitted
// scroll-destination peer.
func HandleActivateRequest(state *activestate.State, isScrollDestination func(string) bool, hostPublicKey, callerPublicKey string, active bool) (*rpc.ActiveEvent, error) {
	if !isScrollDestination(callerPublicKey) {
		return nil, errs.New(errs.Unauthorized, "activexport: caller is not a configured scroll destination").WithCtx("peer", callerPublicKey)
	}
	peer := callerPublicKey
	if !active {
		peer = hostPublicKey
	}
	clk := state.Elect(peer)
	return &rpc.ActiveEvent{Peer: peer, Clock: clk}, nil
}

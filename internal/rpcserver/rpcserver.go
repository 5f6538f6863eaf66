// Package rpcserver implements the Synq gRPC service: the four inbound
// RPCs, scroll (client-streaming), clipboard, activate_request, and
// active_state.
package rpcserver

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"go.klb.dev/synq/internal/activestate"
	"go.klb.dev/synq/internal/clipxport"
	"go.klb.dev/synq/internal/errs"
	"go.klb.dev/synq/internal/rpc"
)

// Injector is the subset of injector.Injector the server drains scroll
// events into.
type Injector interface {
	Inject(rpc.ScrollEvent)
}

// Service implements rpc.SynqServer.
type Service struct {
	rpc.UnimplementedSynqServer

	hostPublicKey string
	state         *activestate.State
	clipReceiver  *clipxport.Receiver

	// injector is nil when scroll_destination is disabled; the scroll RPC
	// then reports Unavailable.
	injector Injector

	// ScrollDestination/ClipboardDestination gate the two destination-only
	// RPCs.
	ScrollDestination    bool
	ClipboardDestination bool

	// OnActivateRequest performs the source-side election and returns the
	// ActiveEvent to both answer the caller and fan out to other
	// destinations; the fan-out itself is the orchestrator's responsibility
	// once this returns.
	OnActivateRequest func(callerPublicKey string, active bool) (*rpc.ActiveEvent, error)

	// OnActiveStateApplied is called after every accepted active_state
	// update. May be nil.
	OnActiveStateApplied func(peerPublicKey string, clock uint64)
}

// New returns a Service. injector may be nil when scroll destination is
// disabled.
func New(hostPublicKey string, state *activestate.State, clipReceiver *clipxport.Receiver, injector Injector) *Service {
	return &Service{hostPublicKey: hostPublicKey, state: state, clipReceiver: clipReceiver, injector: injector}
}

// Scroll drains a client-streaming scroll feed into the local injector.
func (s *Service) Scroll(stream rpc.Synq_ScrollServer) error {
	if !s.ScrollDestination {
		return status.Error(codes.PermissionDenied, "scroll destination disabled")
	}
	if s.injector == nil {
		return status.Error(codes.Unavailable, "injector not initialized")
	}

	for {
		ev, err := stream.Recv()
		if err != nil {
			if isStreamEnd(err) {
				return stream.SendAndClose(&rpc.Empty{})
			}
			return err
		}
		s.injector.Inject(*ev)
	}
}

// Clipboard accepts a single clipboard update from a peer.
func (s *Service) Clipboard(ctx context.Context, req *rpc.ClipboardEvent) (*rpc.Empty, error) {
	if !s.ClipboardDestination {
		return nil, status.Error(codes.PermissionDenied, "clipboard destination disabled")
	}
	if err := s.clipReceiver.Apply(req); err != nil {
		errs.Log("rpcserver: clipboard apply failed", err, "peer", req.Client, "addr", addrFromCtx(ctx))
		return nil, status.Error(codes.Internal, "clipboard apply failed")
	}
	return &rpc.Empty{}, nil
}

// ActivateRequest implements the source side of the election.
func (s *Service) ActivateRequest(ctx context.Context, req *rpc.ActivateEvent) (*rpc.ActiveEvent, error) {
	if s.OnActivateRequest == nil {
		return nil, status.Error(codes.FailedPrecondition, "this host is not a scroll source")
	}
	ev, err := s.OnActivateRequest(req.Peer, req.State)
	if err != nil {
		if errs.KindOf(err) == errs.Unauthorized {
			return nil, status.Error(codes.PermissionDenied, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return ev, nil
}

// ActiveState applies an inbound election update, honoring the same
// reset/monotonic rules as activestate.State.Apply.
func (s *Service) ActiveState(_ context.Context, req *rpc.ActiveEvent) (*rpc.Empty, error) {
	if s.state.Apply(req.Peer, req.Clock) && s.OnActiveStateApplied != nil {
		s.OnActiveStateApplied(req.Peer, req.Clock)
	}
	return &rpc.Empty{}, nil
}

func addrFromCtx(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}
	return "unknown"
}

func isStreamEnd(err error) bool {
	return errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled
}

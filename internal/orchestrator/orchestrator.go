// Package orchestrator builds every other component from loaded
// configuration and drives the process lifecycle: it owns the single
// cancellation context, spawns every worker, and waits out the shutdown
// grace period on SIGINT/SIGTERM.
//
// Follows a construct-then-spawn shape: every dependency (key store,
// election state, peer connectors, transports, gRPC server) is wired in
// Build; Run opens the listener and starts the workers.
package orchestrator

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"

	"go.klb.dev/synq/internal/activestate"
	"go.klb.dev/synq/internal/activexport"
	"go.klb.dev/synq/internal/clipboard"
	"go.klb.dev/synq/internal/clipxport"
	"go.klb.dev/synq/internal/config"
	"go.klb.dev/synq/internal/errs"
	"go.klb.dev/synq/internal/evdev"
	"go.klb.dev/synq/internal/injector"
	"go.klb.dev/synq/internal/inputdev"
	"go.klb.dev/synq/internal/keystore"
	"go.klb.dev/synq/internal/peerconn"
	"go.klb.dev/synq/internal/rpc"
	"go.klb.dev/synq/internal/rpcserver"
	"go.klb.dev/synq/internal/scrolltransport"
	"go.klb.dev/synq/internal/tlsconf"
	"go.klb.dev/synq/internal/uinput"
)

// ShutdownGrace is how long the orchestrator waits after cancellation before
// the process exits, to let in-flight sends drain.
const ShutdownGrace = 500 * time.Millisecond

// Tunables for timeouts not otherwise pinned to a fixed protocol value.
const (
	ScrollTTL    = 2 * time.Second
	BlurTTL      = 3 * time.Second
	ClipboardTTL = 500 * time.Millisecond
)

// Daemon holds every live component for one synq process.
type Daemon struct {
	cfg   *config.Config
	state *activestate.State

	sink      *uinput.Sink
	blockers  []*evdev.Blocker
	receivers []*evdev.Receiver
	injector  *injector.Injector

	scrollConns map[string]*peerconn.Connector
	scrollXport *scrolltransport.Transport
	clipXport   *clipxport.Transport
	activeXport *activexport.Exporter

	grpcSrv *grpc.Server

	clipBackend clipboard.Backend
	clipGuard   *clipboard.EchoGuard
}

// Build constructs every component described by cfg without starting any
// goroutines; starting happens in Run.
func Build(cfg *config.Config) (*Daemon, error) {
	hostPriv, hostPub, err := config.HostKeypair(cfg.Server)
	if err != nil {
		return nil, err
	}
	store := keystore.New(hostPriv, hostPub)
	state := activestate.New(cfg.Server.PublicKey)

	d := &Daemon{cfg: cfg, state: state}

	d.scrollConns = make(map[string]*peerconn.Connector)
	for _, p := range cfg.Peers {
		if p.IsScrollDestination {
			d.scrollConns[p.PublicKey] = peerconn.New(p.PublicKey, p.Address, cfg.TLSSecret)
		}
	}
	d.scrollXport = scrolltransport.New(state, d.scrollConns)

	if cfg.ScrollDestinationEnabled() {
		sink, err := buildSink(cfg.Devices()[0].Path)
		if err != nil {
			return nil, err
		}
		d.sink = sink
		d.injector = injector.New(sink, state, ScrollTTL, BlurTTL)

		for _, dev := range cfg.Devices() {
			b, err := evdev.NewBlocker(dev.Path, sink, state)
			if err != nil {
				return nil, err
			}
			d.blockers = append(d.blockers, b)
		}
	}

	d.clipBackend = clipboard.New()
	d.clipXport = clipxport.New(cfg.Server.PublicKey, store, cfg.TLSSecret)

	d.clipGuard = clipboard.NewEchoGuard(ClipboardTTL)
	clipReceiver := clipxport.NewReceiver(store, d.clipBackend, d.clipGuard)
	clipReceiver.IsClipboardSource = d.isClipboardSource

	if cfg.ScrollSourceEnabled() {
		d.activeXport = activexport.New(cfg.Server.PublicKey, "", cfg.TLSSecret, state)
	} else if src := scrollSourcePeer(cfg); src != nil {
		d.activeXport = activexport.New(cfg.Server.PublicKey, src.Address, cfg.TLSSecret, state)
	}
	if d.activeXport != nil {
		if d.injector != nil {
			d.injector.OnDeactivate = d.activeXport.RequestDeactivate
		}
		for _, b := range d.blockers {
			b.OnScroll = d.activeXport.RequestActivate
		}
	}

	svc := rpcserver.New(cfg.Server.PublicKey, state, clipReceiver, injectorOrNil(d.injector))
	svc.ScrollDestination = cfg.ScrollDestinationEnabled()
	svc.ClipboardDestination = cfg.ClipboardDestinationEnabled()
	svc.OnActiveStateApplied = func(peer string, clock uint64) {
		slog.Info("orchestrator: active peer changed", "peer", peer, "clock", clock)
	}
	if cfg.ScrollSourceEnabled() {
		svc.OnActivateRequest = func(caller string, active bool) (*rpc.ActiveEvent, error) {
			ev, err := activexport.HandleActivateRequest(state, d.isScrollDestinationCaller, cfg.Server.PublicKey, caller, active)
			if err != nil {
				return nil, err
			}
			d.fanoutActiveState(ev, caller)
			return ev, nil
		}
	}

	serverTLS, _, err := tlsconf.ServerConfig(cfg.TLSSecret)
	if err != nil {
		return nil, err
	}
	d.grpcSrv = grpc.NewServer(
		grpc.Creds(credentials.NewTLS(serverTLS)),
		grpc.KeepaliveParams(keepalive.ServerParameters{Time: 30 * time.Second, Timeout: 10 * time.Second}),
		rpc.ServerOption(),
	)
	rpc.RegisterSynqServer(d.grpcSrv, svc)

	if cfg.ScrollSourceEnabled() {
		for _, dev := range cfg.Devices() {
			r, err := evdev.NewReceiver(dev.Path)
			if err != nil {
				return nil, err
			}
			d.receivers = append(d.receivers, r)
		}
	}

	return d, nil
}

// Run starts every worker and blocks until ctx is cancelled, then waits
// ShutdownGrace before returning.
func (d *Daemon) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", d.cfg.Listen())
	if err != nil {
		return errs.Wrap(err, errs.Network, "orchestrator: listen").WithCtx("addr", d.cfg.Listen())
	}

	go func() {
		if err := d.grpcSrv.Serve(ln); err != nil {
			errs.Log("orchestrator: grpc serve exited", err)
		}
	}()
	if d.cfg.ScrollSourceEnabled() {
		// Reclaim ownership at startup: reset locally and send clock=0 to
		// every scroll destination.
		d.state.Reset()
		d.fanoutActiveState(&rpc.ActiveEvent{Peer: d.cfg.Server.PublicKey, Clock: 0}, "")
	}
	go d.scrollXport.Run(ctx)
	go d.clipXport.Run(ctx)
	if d.activeXport != nil {
		go d.activeXport.Run(ctx)
	}
	if d.injector != nil {
		go d.injector.Run(ctx)
	}
	for _, b := range d.blockers {
		go func(b *evdev.Blocker) {
			if err := b.Run(ctx); err != nil {
				errs.Log("orchestrator: blocker thread exited", err)
			}
		}(b)
	}
	for _, r := range d.receivers {
		go func(r *evdev.Receiver) {
			defer r.Close()
			err := r.Run(ctx, d.cfg.Server.PublicKey, d.scrollXport.Send)
			if err != nil {
				errs.Log("orchestrator: receiver thread exited", err)
			}
		}(r)
	}
	if d.cfg.ClipboardSourceEnabled() {
		go d.runClipboardWatcher(ctx)
	}

	<-ctx.Done()
	d.grpcSrv.GracefulStop()
	if d.sink != nil {
		_ = d.sink.Close()
	}
	d.clipBackend.Close()
	time.Sleep(ShutdownGrace)
	return nil
}

func (d *Daemon) runClipboardWatcher(ctx context.Context) {
	watch := d.clipBackend.Watch()
	for {
		select {
		case <-ctx.Done():
			return
		case <-watch:
			if d.clipGuard.ShouldSuppress(time.Now()) {
				continue
			}
			text, err := d.clipBackend.Read()
			if err != nil || text == "" {
				continue
			}
			for _, p := range d.cfg.Peers {
				if !p.IsClipboardDestination {
					continue
				}
				d.clipXport.Send(clipxport.Request{
					PeerAddress:   p.Address,
					PeerPublicKey: p.PublicKey,
					Text:          text,
				})
			}
		}
	}
}

// fanoutActiveState pushes the new active_state(peer, clock) to every other
// configured scroll destination, skipping the caller who already received
// the result inline as the activate_request's return value.
func (d *Daemon) fanoutActiveState(ev *rpc.ActiveEvent, caller string) {
	for _, p := range d.cfg.Peers {
		if !p.IsScrollDestination || p.PublicKey == caller {
			continue
		}
		go func(p config.Peer) {
			creds, err := tlsconf.ClientCredentials(d.cfg.TLSSecret)
			if err != nil {
				errs.Log("orchestrator: active_state fanout tls", err, "peer", p.Address)
				return
			}
			conn, err := grpc.NewClient(rpc.DialTarget(p.Address), grpc.WithTransportCredentials(creds), rpc.DialOption())
			if err != nil {
				errs.Log("orchestrator: active_state fanout dial", err, "peer", p.Address)
				return
			}
			defer conn.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := rpc.NewSynqClient(conn).ActiveState(ctx, ev); err != nil {
				errs.Log("orchestrator: active_state fanout rpc", err, "peer", p.Address)
			}
		}(p)
	}
}

func injectorOrNil(in *injector.Injector) rpcserver.Injector {
	if in == nil {
		return nil
	}
	return in
}

// isScrollDestinationCaller validates an activate_request caller against the
// configured peer list: the caller must be a known peer flagged as a scroll
// destination.
func (d *Daemon) isScrollDestinationCaller(peerPublicKey string) bool {
	for _, p := range d.cfg.Peers {
		if p.PublicKey == peerPublicKey && p.IsScrollDestination {
			return true
		}
	}
	return false
}

func (d *Daemon) isClipboardSource(peerPublicKey string) bool {
	for _, p := range d.cfg.Peers {
		if p.PublicKey == peerPublicKey && p.IsClipboardSource {
			return true
		}
	}
	return false
}

func scrollSourcePeer(cfg *config.Config) *config.Peer {
	for i, p := range cfg.Peers {
		if p.IsScrollSource {
			return &cfg.Peers[i]
		}
	}
	return nil
}

// buildSink opens the first configured device's fd just long enough to
// construct the uinput sink, then closes it.
func buildSink(firstDevicePath string) (*uinput.Sink, error) {
	f, err := inputdev.OpenReadOnly(firstDevicePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return uinput.Open(int(f.Fd()))
}

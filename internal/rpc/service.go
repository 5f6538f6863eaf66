package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name synq registers and
// dials, mirroring the shape protoc-gen-go-grpc assigns (package.Service).
const ServiceName = "synq.Synq"

// SynqServer is the server API for the Synq service: four RPCs, a
// client-streaming scroll sink and three unary calls.
type SynqServer interface {
	// Scroll drains a client-streaming scroll feed into the local injector.
	Scroll(Synq_ScrollServer) error
	// Clipboard accepts a single clipboard update from a peer.
	Clipboard(context.Context, *ClipboardEvent) (*Empty, error)
	// ActivateRequest asks this host, the scroll source, to make the calling
	// peer active (or, with State=false, to take activation back).
	ActivateRequest(context.Context, *ActivateEvent) (*ActiveEvent, error)
	// ActiveState informs this host of another host's election state.
	ActiveState(context.Context, *ActiveEvent) (*Empty, error)
}

// UnimplementedSynqServer must be embedded for forward compatibility, the
// same way protoc-gen-go-grpc generates it.
type UnimplementedSynqServer struct{}

func (UnimplementedSynqServer) Scroll(Synq_ScrollServer) error {
	return status.Error(codes.Unimplemented, "method Scroll not implemented")
}
func (UnimplementedSynqServer) Clipboard(context.Context, *ClipboardEvent) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Clipboard not implemented")
}
func (UnimplementedSynqServer) ActivateRequest(context.Context, *ActivateEvent) (*ActiveEvent, error) {
	return nil, status.Error(codes.Unimplemented, "method ActivateRequest not implemented")
}
func (UnimplementedSynqServer) ActiveState(context.Context, *ActiveEvent) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ActiveState not implemented")
}

// RegisterSynqServer registers srv with s, the way the generated
// RegisterXxxServer function does.
func RegisterSynqServer(s grpc.ServiceRegistrar, srv SynqServer) {
	s.RegisterService(&_Synq_serviceDesc, srv)
}

// Synq_ScrollServer is the server-side stream handle for the client-streaming
// Scroll RPC.
type Synq_ScrollServer interface {
	SendAndClose(*Empty) error
	Recv() (*ScrollEvent, error)
	grpc.ServerStream
}

type synqScrollServer struct {
	grpc.ServerStream
}

func (x *synqScrollServer) SendAndClose(m *Empty) error {
	return x.ServerStream.SendMsg(m)
}

func (x *synqScrollServer) Recv() (*ScrollEvent, error) {
	m := new(ScrollEvent)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func _Synq_Scroll_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(SynqServer).Scroll(&synqScrollServer{stream})
}

func _Synq_Clipboard_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ClipboardEvent)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SynqServer).Clipboard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ServiceName + "/Clipboard"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SynqServer).Clipboard(ctx, req.(*ClipboardEvent))
	}
	return interceptor(ctx, in, info, handler)
}

func _Synq_ActivateRequest_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ActivateEvent)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SynqServer).ActivateRequest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ServiceName + "/ActivateRequest"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SynqServer).ActivateRequest(ctx, req.(*ActivateEvent))
	}
	return interceptor(ctx, in, info, handler)
}

func _Synq_ActiveState_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ActiveEvent)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SynqServer).ActiveState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ServiceName + "/ActiveState"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SynqServer).ActiveState(ctx, req.(*ActiveEvent))
	}
	return interceptor(ctx, in, info, handler)
}

// _Synq_serviceDesc is exactly the shape protoc-gen-go-grpc emits: one entry
// per unary method plus one StreamDesc per streaming method.
var _Synq_serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SynqServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Clipboard", Handler: _Synq_Clipboard_Handler},
		{MethodName: "ActivateRequest", Handler: _Synq_ActivateRequest_Handler},
		{MethodName: "ActiveState", Handler: _Synq_ActiveState_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Scroll",
			Handler:       _Synq_Scroll_Handler,
			ClientStreams: true,
		},
	},
	Metadata: "synq.proto",
}

package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// SynqClient is the client API for the Synq service.
type SynqClient interface {
	Scroll(ctx context.Context, opts ...grpc.CallOption) (Synq_ScrollClient, error)
	Clipboard(ctx context.Context, in *ClipboardEvent, opts ...grpc.CallOption) (*Empty, error)
	ActivateRequest(ctx context.Context, in *ActivateEvent, opts ...grpc.CallOption) (*ActiveEvent, error)
	ActiveState(ctx context.Context, in *ActiveEvent, opts ...grpc.CallOption) (*Empty, error)
}

type synqClient struct {
	cc grpc.ClientConnInterface
}

// NewSynqClient returns a SynqClient backed by cc.
func NewSynqClient(cc grpc.ClientConnInterface) SynqClient {
	return &synqClient{cc}
}

func (c *synqClient) Scroll(ctx context.Context, opts ...grpc.CallOption) (Synq_ScrollClient, error) {
	stream, err := c.cc.NewStream(ctx, &_Synq_serviceDesc.Streams[0], ServiceName+"/Scroll", opts...)
	if err != nil {
		return nil, err
	}
	return &synqScrollClient{stream}, nil
}

// Synq_ScrollClient is the client-side stream handle for the client-streaming
// Scroll RPC.
type Synq_ScrollClient interface {
	Send(*ScrollEvent) error
	CloseAndRecv() (*Empty, error)
	grpc.ClientStream
}

type synqScrollClient struct {
	grpc.ClientStream
}

func (x *synqScrollClient) Send(m *ScrollEvent) error {
	return x.ClientStream.SendMsg(m)
}

func (x *synqScrollClient) CloseAndRecv() (*Empty, error) {
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	m := new(Empty)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *synqClient) Clipboard(ctx context.Context, in *ClipboardEvent, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	err := c.cc.Invoke(ctx, ServiceName+"/Clipboard", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *synqClient) ActivateRequest(ctx context.Context, in *ActivateEvent, opts ...grpc.CallOption) (*ActiveEvent, error) {
	out := new(ActiveEvent)
	err := c.cc.Invoke(ctx, ServiceName+"/ActivateRequest", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *synqClient) ActiveState(ctx context.Context, in *ActiveEvent, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	err := c.cc.Invoke(ctx, ServiceName+"/ActiveState", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

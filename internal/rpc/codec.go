package rpc

import (
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// codecName is registered as a grpc.CallContentSubtype / content-subtype so
// both client and server agree to exchange JSON-encoded rpc messages instead
// of protobuf wire bytes.
const codecName = "json"

// jsonCodec implements encoding.Codec by delegating to encoding/json. synq
// never sends protobuf-reflectable messages over the wire; init registers
// this codec under codecName, and ServerOption/DialOption force it in place
// of grpc's default proto codec.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// ServerOption forces the server transport to use the JSON codec for every
// RPC regardless of the client's advertised content-subtype.
func ServerOption() grpc.ServerOption {
	return grpc.ForceServerCodec(jsonCodec{})
}

// DialOption forces client calls made on the resulting connection to use the
// JSON codec.
func DialOption() grpc.DialOption {
	return grpc.ForceCodec(jsonCodec{})
}

// Package rpc defines synq's transport wire types and the SynqService gRPC
// contract. Message types are plain Go structs encoded with the JSON codec
// registered in codec.go rather than protoc-generated protobuf messages: the
// ServiceDesc in service.go is hand-assembled to mirror what
// protoc-gen-go-grpc would otherwise emit, keeping google.golang.org/grpc as
// the transport.
package rpc

// ScrollSource classifies the originating input that produced a ScrollEvent.
type ScrollSource int32

const (
	ScrollSourceWheel      ScrollSource = 0
	ScrollSourceFinger     ScrollSource = 1
	ScrollSourceContinuous ScrollSource = 2
)

// ScrollEvent carries one coalesced scroll delta.
type ScrollEvent struct {
	Source  ScrollSource `json:"source"`
	DeltaX  float64      `json:"delta_x"`
	DeltaY  float64      `json:"delta_y"`
}

// ClipboardEvent carries one clipboard update. Data is the UTF-8 bytes of a
// base64-no-pad keystore envelope.
type ClipboardEvent struct {
	Client string `json:"client"`
	Data   []byte `json:"data"`
}

// ActiveEvent announces the current active-peer election state.
type ActiveEvent struct {
	Peer  string `json:"peer"`
	Clock uint64 `json:"clock"`
}

// ActivateEvent asks the receiving scroll source to make Peer active
// (State=true) or to release Peer's activation (State=false).
type ActivateEvent struct {
	Peer  string `json:"peer"`
	State bool   `json:"state"`
}

// Empty is the canonical zero-value response/request for RPCs with no
// meaningful payload.
type Empty struct{}

package rpc

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

func TestJSONCodecRoundTrip(t *testing.T) {
	c := encoding.GetCodec(codecName)
	if c == nil {
		t.Fatal("json codec not registered")
	}

	in := &ScrollEvent{Source: ScrollSourceWheel, DeltaX: 1.5, DeltaY: -2.25}
	data, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out := new(ScrollEvent)
	if err := c.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if *out != *in {
		t.Fatalf("roundtrip mismatch: got %+v, want %+v", out, in)
	}
}

func TestClipboardEventDataIsBytes(t *testing.T) {
	c := encoding.GetCodec(codecName)
	in := &ClipboardEvent{Client: "peer-a", Data: []byte("b64-envelope")}
	data, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := new(ClipboardEvent)
	if err := c.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Client != in.Client || string(out.Data) != string(in.Data) {
		t.Fatalf("roundtrip mismatch: got %+v, want %+v", out, in)
	}
}

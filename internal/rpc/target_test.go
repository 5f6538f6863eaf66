package rpc

import "testing"

func TestDialTargetStripsUserPrefix(t *testing.T) {
	cases := map[string]string{
		"alice@10.0.0.5:7890": "10.0.0.5:7890",
		"10.0.0.5:7890":       "10.0.0.5:7890",
		"bob@host.example":    "host.example",
	}
	for in, want := range cases {
		if got := DialTarget(in); got != want {
			t.Errorf("DialTarget(%q) = %q, want %q", in, got, want)
		}
	}
}

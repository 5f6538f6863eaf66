package rpc

import "strings"

// DialTarget strips an optional "user@" prefix from a configured peer
// address (e.g. "alice@10.0.0.5:7890"), returning the bare host:port gRPC
// dials. The user portion exists in synq.toml purely as an operator hint
// (e.g. for matching an ssh alias) and carries no meaning on the wire.
func DialTarget(addr string) string {
	if i := strings.IndexByte(addr, '@'); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

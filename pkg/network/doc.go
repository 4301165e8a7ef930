// Package network implements the wire protocol (tagged message variants over
// two ordered-reliable channels) and the TCP transport that carries them
// between the authoritative server and its clients.
//
// The codec is a hand-rolled binary.Write/Read layout per message type,
// matching the byte-oriented style the rest of this codebase uses for
// network data rather than a generic encoding like gob or protobuf.
//
// Client-side prediction, lag compensation, and snapshot interpolation used
// to live in this package; they now live in pkg/server and pkg/client, which
// depend on this package for the wire format rather than the reverse.
package network

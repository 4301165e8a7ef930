// Package network provides network protocol interfaces.
// This file defines the transport contract the simulation core depends on,
// kept narrow enough that a test double (see mock_server.go, mock_client.go)
// can stand in for the real TCP transport.
package network

import "time"

// InboundMessage is one decoded message delivered to the tick loop, tagged
// with the peer it came from.
type InboundMessage struct {
	PeerID uint64
	Type   MessageType
	Msg    interface{}
}

// ServerTransport is the contract the server's tick loop depends on for
// talking to connected clients. TCPServer is the production implementation;
// MockServer exists for tests that don't want a real socket.
type ServerTransport interface {
	// Start begins listening for client connections.
	Start() error

	// Stop shuts down the server and disconnects all peers.
	Stop() error

	// Send delivers a single S2C message to one peer. Returns
	// TransportDown if the peer is no longer reachable.
	Send(peerID uint64, t MessageType, msg interface{}) error

	// Broadcast delivers a single S2C message to every connected peer.
	Broadcast(t MessageType, msg interface{})

	// Disconnect forcibly drops a peer.
	Disconnect(peerID uint64)

	// Inbound returns a channel of decoded C2S messages from any peer.
	Inbound() <-chan InboundMessage

	// Connected returns a channel of newly accepted peer ids.
	Connected() <-chan uint64

	// Lost returns a channel of peer ids whose connection ended.
	Lost() <-chan uint64

	// Errors returns a channel of transient transport errors.
	Errors() <-chan error
}

// ClientTransport is the contract the client's tick loop depends on for
// talking to the server. TCPClient is the production implementation;
// MockClient exists for tests.
type ClientTransport interface {
	// Connect establishes the connection and blocks until the server's
	// assigned peer id is known.
	Connect() (peerID uint64, err error)

	// Disconnect closes the connection.
	Disconnect() error

	// IsConnected reports whether the connection is currently live.
	IsConnected() bool

	// Send delivers a single C2S message. Returns TransportDown if the
	// connection is no longer usable.
	Send(t MessageType, msg interface{}) error

	// Inbound returns a channel of decoded S2C messages from the server.
	Inbound() <-chan InboundMessage

	// Errors returns a channel of transient transport errors.
	Errors() <-chan error

	// RTTHint returns a transport-level timing hint, independent of the
	// application-level time-sync in pkg/client. TCPClient reports the time
	// since its last successful send; MockClient reports zero.
	RTTHint() time.Duration
}

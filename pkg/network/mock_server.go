package network

import "sync"

// MockServer is a test double for ServerTransport that records every call
// instead of touching a real socket.
type MockServer struct {
	mu sync.Mutex

	StartCalls  int
	StopCalls   int
	Sent        []InboundMessage
	Broadcasts  []InboundMessage
	Disconnects []uint64

	inbound   chan InboundMessage
	connected chan uint64
	lost      chan uint64
	errs      chan error
}

// NewMockServer creates a MockServer ready for use.
func NewMockServer() *MockServer {
	return &MockServer{
		inbound:   make(chan InboundMessage, 64),
		connected: make(chan uint64, 64),
		lost:      make(chan uint64, 64),
		errs:      make(chan error, 64),
	}
}

func (m *MockServer) Start() error { m.mu.Lock(); m.StartCalls++; m.mu.Unlock(); return nil }
func (m *MockServer) Stop() error  { m.mu.Lock(); m.StopCalls++; m.mu.Unlock(); return nil }

func (m *MockServer) Send(peerID uint64, t MessageType, msg interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, InboundMessage{PeerID: peerID, Type: t, Msg: msg})
	return nil
}

func (m *MockServer) Broadcast(t MessageType, msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Broadcasts = append(m.Broadcasts, InboundMessage{Type: t, Msg: msg})
}

func (m *MockServer) Disconnect(peerID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Disconnects = append(m.Disconnects, peerID)
}

func (m *MockServer) Inbound() <-chan InboundMessage { return m.inbound }
func (m *MockServer) Connected() <-chan uint64       { return m.connected }
func (m *MockServer) Lost() <-chan uint64            { return m.lost }
func (m *MockServer) Errors() <-chan error           { return m.errs }

// Deliver injects an inbound message as if it arrived from a peer, for use
// by tick-loop tests.
func (m *MockServer) Deliver(msg InboundMessage) { m.inbound <- msg }

// DeliverConnected injects a connection event.
func (m *MockServer) DeliverConnected(peerID uint64) { m.connected <- peerID }

// DeliverLost injects a disconnection event.
func (m *MockServer) DeliverLost(peerID uint64) { m.lost <- peerID }

var _ ServerTransport = (*MockServer)(nil)

package network

import (
	"sync"
	"time"
)

// MockClient is a test double for ClientTransport.
type MockClient struct {
	mu sync.Mutex

	PeerIDValue uint64
	Connected   bool
	Sent        []InboundMessage

	inbound chan InboundMessage
	errs    chan error
}

// NewMockClient creates a MockClient ready for use.
func NewMockClient(peerID uint64) *MockClient {
	return &MockClient{
		PeerIDValue: peerID,
		inbound:     make(chan InboundMessage, 64),
		errs:        make(chan error, 16),
	}
}

func (m *MockClient) Connect() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Connected = true
	return m.PeerIDValue, nil
}

func (m *MockClient) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Connected = false
	return nil
}

func (m *MockClient) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Connected
}

func (m *MockClient) Send(t MessageType, msg interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, InboundMessage{Type: t, Msg: msg})
	return nil
}

func (m *MockClient) Inbound() <-chan InboundMessage { return m.inbound }
func (m *MockClient) Errors() <-chan error           { return m.errs }
func (m *MockClient) RTTHint() time.Duration         { return 0 }

// Deliver injects an inbound message as if it arrived from the server.
func (m *MockClient) Deliver(msg InboundMessage) { m.inbound <- msg }

var _ ClientTransport = (*MockClient)(nil)

// Package network provides multiplayer client functionality.
// This file implements TCPClient, the production ClientTransport, mirroring
// TCPServer's framing and errgroup-managed goroutine lifecycle.
package network

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ClientConfig holds configuration for the network client.
type ClientConfig struct {
	ServerAddress     string
	ConnectionTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	BufferSize        int
}

// DefaultClientConfig returns a client configuration with sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServerAddress:     "localhost:8080",
		ConnectionTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      5 * time.Second,
		BufferSize:        256,
	}
}

// TCPClient is the production ClientTransport implementation.
type TCPClient struct {
	config ClientConfig

	mu        sync.RWMutex
	conn      net.Conn
	connected bool
	peerID    uint64
	lastSend  time.Time
	lastRecv  time.Time

	send    chan frame
	inbound chan InboundMessage
	errs    chan error

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewClient creates a new network client.
func NewClient(config ClientConfig) *TCPClient {
	return &TCPClient{
		config:  config,
		send:    make(chan frame, config.BufferSize),
		inbound: make(chan InboundMessage, config.BufferSize),
		errs:    make(chan error, 16),
	}
}

// Connect establishes the connection and blocks until the server's assigned
// peer id is known (its first 8 bytes on the wire, written by TCPServer's
// accept handshake).
func (c *TCPClient) Connect() (uint64, error) {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return 0, fmt.Errorf("already connected")
	}

	conn, err := net.DialTimeout("tcp", c.config.ServerAddress, c.config.ConnectionTimeout)
	if err != nil {
		c.mu.Unlock()
		return 0, fmt.Errorf("connect to %s: %w", c.config.ServerAddress, err)
	}

	var peerID uint64
	conn.SetReadDeadline(time.Now().Add(c.config.ConnectionTimeout))
	if err := binary.Read(conn, binary.LittleEndian, &peerID); err != nil {
		conn.Close()
		c.mu.Unlock()
		return 0, fmt.Errorf("handshake: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	c.conn = conn
	c.connected = true
	c.peerID = peerID
	now := time.Now()
	c.lastSend, c.lastRecv = now, now

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	group, gctx := errgroup.WithContext(ctx)
	c.group = group
	c.mu.Unlock()

	group.Go(func() error { return c.recvLoop(gctx) })
	group.Go(func() error { return c.sendLoop(gctx) })

	return peerID, nil
}

// Disconnect closes the connection.
func (c *TCPClient) Disconnect() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	c.cancel()
	c.conn.Close()
	group := c.group
	c.mu.Unlock()

	if group != nil {
		_ = group.Wait()
	}
	return nil
}

// IsConnected reports whether the connection is currently live.
func (c *TCPClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// PeerID returns the id the server assigned on connect.
func (c *TCPClient) PeerID() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.peerID
}

// Send delivers a single C2S message.
func (c *TCPClient) Send(t MessageType, msg interface{}) error {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	if !connected {
		return TransportDown
	}

	select {
	case c.send <- frame{channel: ChannelC2S, typ: t, msg: msg}:
		return nil
	default:
		return fmt.Errorf("network: send queue full")
	}
}

// Inbound returns a channel of decoded S2C messages from the server.
func (c *TCPClient) Inbound() <-chan InboundMessage { return c.inbound }

// Errors returns a channel of transient transport errors.
func (c *TCPClient) Errors() <-chan error { return c.errs }

// RTTHint reports the time since the last successful send, a coarse
// liveness signal independent of pkg/client's ping/pong time sync.
func (c *TCPClient) RTTHint() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.lastSend)
}

func (c *TCPClient) recvLoop(ctx context.Context) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	r := bufio.NewReader(conn)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		var length uint32
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			c.pushErr(fmt.Errorf("read length: %w", err))
			return nil
		}
		if length == 0 || length > MaxFrameSize+1 {
			c.pushErr(fmt.Errorf("invalid frame length %d", length))
			return nil
		}

		payload := make([]byte, length)
		if _, err := readFull(r, payload); err != nil {
			c.pushErr(fmt.Errorf("read payload: %w", err))
			return nil
		}

		channel := Channel(payload[0])
		if channel != ChannelS2C {
			c.pushErr(fmt.Errorf("message on wrong channel %d", channel))
			continue
		}
		typ, msg, err := DecodeMessage(ChannelS2C, payload[1:])
		if err != nil {
			c.pushErr(fmt.Errorf("decode: %w", err))
			continue
		}

		c.mu.Lock()
		c.lastRecv = time.Now()
		c.mu.Unlock()

		select {
		case c.inbound <- InboundMessage{Type: typ, Msg: msg}:
		case <-ctx.Done():
			return nil
		default:
			// drop stale data in favor of the next snapshot
		}
	}
}

func (c *TCPClient) sendLoop(ctx context.Context) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-c.send:
			if err := writeFrame(conn, c.config.WriteTimeout, f); err != nil {
				c.pushErr(fmt.Errorf("write: %w", err))
				return nil
			}
			c.mu.Lock()
			c.lastSend = time.Now()
			c.mu.Unlock()
		}
	}
}

func (c *TCPClient) pushErr(err error) {
	select {
	case c.errs <- err:
	default:
	}
}

var _ ClientTransport = (*TCPClient)(nil)

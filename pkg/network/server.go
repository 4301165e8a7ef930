// Package network provides multiplayer server functionality.
// This file implements TCPServer, the production ServerTransport: a
// length-prefixed, channel-tagged TCP framing with one goroutine pair per
// peer (receive/send), lifecycle managed by an errgroup.Group rather than
// raw sync.WaitGroup bookkeeping.
package network

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"
)

// TransportDown is returned by Send/Broadcast-adjacent calls once a peer's
// connection has failed; the core treats this identically to a Lost event.
var TransportDown = errors.New("network: transport is down")

// ServerConfig holds configuration for the network server.
type ServerConfig struct {
	Address      string
	MaxPlayers   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int
}

// DefaultServerConfig returns a server configuration with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:      ":8080",
		MaxPlayers:   32,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   256,
	}
}

// TCPServer is the production ServerTransport implementation.
type TCPServer struct {
	config ServerConfig

	listener net.Listener

	mu      sync.RWMutex
	running bool
	peers   map[uint64]*serverPeer

	inbound   chan InboundMessage
	connected chan uint64
	lost      chan uint64
	errs      chan error

	group  *errgroup.Group
	cancel context.CancelFunc
}

type serverPeer struct {
	id      uint64
	conn    net.Conn
	send    chan frame
	closeMu sync.Mutex
	closed  bool
}

type frame struct {
	channel Channel
	typ     MessageType
	msg     interface{}
}

// NewServer creates a new network server.
func NewServer(config ServerConfig) *TCPServer {
	return &TCPServer{
		config:    config,
		peers:     make(map[uint64]*serverPeer),
		inbound:   make(chan InboundMessage, config.BufferSize*config.MaxPlayers),
		connected: make(chan uint64, config.MaxPlayers),
		lost:      make(chan uint64, config.MaxPlayers),
		errs:      make(chan error, 64),
	}
}

// Start begins listening for client connections.
func (s *TCPServer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listen on %s: %w", s.config.Address, err)
	}
	s.listener = listener
	s.running = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	group, gctx := errgroup.WithContext(ctx)
	s.group = group
	s.mu.Unlock()

	group.Go(func() error {
		return s.acceptLoop(gctx)
	})

	return nil
}

// Stop shuts down the server and disconnects all peers.
func (s *TCPServer) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.listener.Close()
	for _, p := range s.peers {
		p.close()
	}
	group := s.group
	s.mu.Unlock()

	if group != nil {
		_ = group.Wait()
	}
	return nil
}

// Send delivers a single S2C message to one peer.
func (s *TCPServer) Send(peerID uint64, t MessageType, msg interface{}) error {
	s.mu.RLock()
	p, ok := s.peers[peerID]
	s.mu.RUnlock()
	if !ok {
		return TransportDown
	}
	return p.enqueue(frame{channel: ChannelS2C, typ: t, msg: msg})
}

// Broadcast delivers a single S2C message to every connected peer.
func (s *TCPServer) Broadcast(t MessageType, msg interface{}) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.peers {
		_ = p.enqueue(frame{channel: ChannelS2C, typ: t, msg: msg})
	}
}

// Disconnect forcibly drops a peer.
func (s *TCPServer) Disconnect(peerID uint64) {
	s.mu.RLock()
	p, ok := s.peers[peerID]
	s.mu.RUnlock()
	if ok {
		p.close()
	}
}

// Inbound returns a channel of decoded C2S messages from any peer.
func (s *TCPServer) Inbound() <-chan InboundMessage { return s.inbound }

// Connected returns a channel of newly accepted peer ids.
func (s *TCPServer) Connected() <-chan uint64 { return s.connected }

// Lost returns a channel of peer ids whose connection ended.
func (s *TCPServer) Lost() <-chan uint64 { return s.lost }

// Errors returns a channel of transient transport errors.
func (s *TCPServer) Errors() <-chan error { return s.errs }

// PlayerCount returns the number of currently connected peers.
func (s *TCPServer) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peers)
}

func newPeerID() uint64 {
	id := xid.New().Bytes()
	return binary.BigEndian.Uint64(id[:8])
}

func (s *TCPServer) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				s.pushErr(fmt.Errorf("accept: %w", err))
				continue
			}
		}

		s.mu.RLock()
		full := len(s.peers) >= s.config.MaxPlayers
		s.mu.RUnlock()
		if full {
			conn.Close()
			s.pushErr(fmt.Errorf("server full, rejected %s", conn.RemoteAddr()))
			continue
		}

		id := newPeerID()
		if err := binary.Write(conn, binary.LittleEndian, id); err != nil {
			conn.Close()
			s.pushErr(fmt.Errorf("handshake write for new peer: %w", err))
			continue
		}

		p := &serverPeer{id: id, conn: conn, send: make(chan frame, s.config.BufferSize)}
		s.mu.Lock()
		s.peers[id] = p
		s.mu.Unlock()

		select {
		case s.connected <- id:
		default:
			s.pushErr(fmt.Errorf("connected channel full, dropped event for peer %d", id))
		}

		s.group.Go(func() error { return s.recvLoop(ctx, p) })
		s.group.Go(func() error { return s.sendLoop(ctx, p) })
	}
}

func (s *TCPServer) recvLoop(ctx context.Context, p *serverPeer) error {
	defer s.disconnectPeer(p)

	r := bufio.NewReader(p.conn)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		p.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		var length uint32
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil
		}
		if length == 0 || length > MaxFrameSize+1 {
			s.pushErr(fmt.Errorf("peer %d: invalid frame length %d", p.id, length))
			return nil
		}

		payload := make([]byte, length)
		if _, err := readFull(r, payload); err != nil {
			return nil
		}

		channel := Channel(payload[0])
		if channel != ChannelC2S {
			s.pushErr(fmt.Errorf("peer %d: message on wrong channel %d", p.id, channel))
			continue
		}
		typ, msg, err := DecodeMessage(ChannelC2S, payload[1:])
		if err != nil {
			s.pushErr(fmt.Errorf("peer %d: decode: %w", p.id, err))
			continue
		}

		select {
		case s.inbound <- InboundMessage{PeerID: p.id, Type: typ, Msg: msg}:
		case <-ctx.Done():
			return nil
		default:
			// drop if full, newer state supersedes stale input
		}
	}
}

func (s *TCPServer) sendLoop(ctx context.Context, p *serverPeer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-p.send:
			if !ok {
				return nil
			}
			if err := writeFrame(p.conn, s.config.WriteTimeout, f); err != nil {
				return nil
			}
		}
	}
}

func (s *TCPServer) disconnectPeer(p *serverPeer) {
	p.close()

	s.mu.Lock()
	_, existed := s.peers[p.id]
	delete(s.peers, p.id)
	s.mu.Unlock()

	if existed {
		select {
		case s.lost <- p.id:
		default:
			s.pushErr(fmt.Errorf("lost channel full, dropped event for peer %d", p.id))
		}
	}
}

func (s *TCPServer) pushErr(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

func (p *serverPeer) enqueue(f frame) error {
	// Hold closeMu across the send attempt: a concurrent close() would
	// otherwise close p.send between the flag check and the send.
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return TransportDown
	}
	select {
	case p.send <- f:
		return nil
	default:
		return nil // drop stale broadcast rather than block the tick
	}
}

func (p *serverPeer) close() {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.conn.Close()
	close(p.send)
}

func writeFrame(conn net.Conn, timeout time.Duration, f frame) error {
	payload, err := EncodeMessage(f.typ, f.msg)
	if err != nil {
		return err
	}
	full := make([]byte, 0, len(payload)+1)
	full = append(full, byte(f.channel))
	full = append(full, payload...)

	conn.SetWriteDeadline(time.Now().Add(timeout))

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(full)))
	if _, err := conn.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = conn.Write(full)
	return err
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

var _ ServerTransport = (*TCPServer)(nil)

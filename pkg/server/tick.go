package server

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cascad-cs2d/netcore/pkg/collision"
	"github.com/cascad-cs2d/netcore/pkg/metrics"
	"github.com/cascad-cs2d/netcore/pkg/network"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

// Server is the authoritative tick loop. Construct with NewServer and drive
// it with RunTick once every simcore.TickInterval; see cmd/server for the
// production ticker loop.
type Server struct {
	transport network.ServerTransport
	world     *collision.World
	log       *logrus.Entry
	metrics   *metrics.Server

	players      map[uint64]*playerRecord
	pendingInput map[uint64]simcore.InputState
	appliedSeq   map[uint64]uint32
	grenades     map[uint64]*simcore.Grenade
	damageQueue  []pendingDamage
	respawnQueue []respawnTask

	spawnPoints []simcore.Vec2
	spawnIdx    int

	history *SnapshotHistory

	now               float64
	lastSyncBroadcast float64
}

// NewServer constructs a Server bound to transport and world, ready to run
// once spawn points are supplied.
func NewServer(transport network.ServerTransport, world *collision.World, log *logrus.Entry, m *metrics.Server, spawnPoints []simcore.Vec2) *Server {
	if len(spawnPoints) == 0 {
		spawnPoints = []simcore.Vec2{{}}
	}
	return &Server{
		transport:    transport,
		world:        world,
		log:          log,
		metrics:      m,
		players:      make(map[uint64]*playerRecord),
		pendingInput: make(map[uint64]simcore.InputState),
		appliedSeq:   make(map[uint64]uint32),
		grenades:     make(map[uint64]*simcore.Grenade),
		spawnPoints:  spawnPoints,
		history:      NewSnapshotHistory(simcore.SnapshotHistoryCapacity),
	}
}

// RunTick executes one fixed-step tick: drain, physics, damage, respawn,
// timeout, broadcast, history, then grenade sync. The order is load-bearing:
// damage resolves against positions advanced this tick, and the snapshot
// reflects everything that happened before it.
func (s *Server) RunTick(dt float64) {
	start := time.Now()
	s.now += dt

	s.drainTransport()
	s.advancePhysics(dt)
	s.resolveDamage()
	s.advanceRespawns()
	s.dropTimedOutPeers()
	s.broadcastSnapshot()
	s.pushHistory()
	s.maybeBroadcastGrenadeSync()

	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start))
		s.metrics.ConnectedPlayers.Set(float64(len(s.players)))
		s.metrics.GrenadesLive.Set(float64(len(s.grenades)))
	}
}

// Now returns the server's simulation clock in seconds since the tick loop
// started.
func (s *Server) Now() float64 { return s.now }

// drainTransport implements tick step 1: consume every queued C2S message
// per peer and route it, plus newly accepted/lost connection events.
func (s *Server) drainTransport() {
connected:
	for {
		select {
		case id := <-s.transport.Connected():
			s.handleConnect(id)
		default:
			break connected
		}
	}

lost:
	for {
		select {
		case id := <-s.transport.Lost():
			s.handleDisconnect(id, false)
		default:
			break lost
		}
	}

	for {
		select {
		case in := <-s.transport.Inbound():
			s.handleInbound(in)
		default:
			return
		}
	}
}

func (s *Server) handleInbound(in network.InboundMessage) {
	switch m := in.Msg.(type) {
	case network.InputMsg:
		rec, ok := s.players[in.PeerID]
		if !ok {
			return
		}
		rec.lastHeard = s.now
		if last, applied := s.appliedSeq[in.PeerID]; applied && !simcore.SeqGreaterThan(m.Seq, last) {
			return // stale or replayed input, the ack already covers it
		}
		if cur, queued := s.pendingInput[in.PeerID]; queued && !simcore.SeqGreaterThan(m.Seq, cur.Seq) {
			return
		}
		s.pendingInput[in.PeerID] = simcore.InputState{
			Seq:        m.Seq,
			Up:         m.Up,
			Down:       m.Down,
			Left:       m.Left,
			Right:      m.Right,
			Rotation:   float64(m.Rotation),
			Stance:     simcore.Stance(m.Stance),
			ClientTime: m.ClientTime,
		}
	case network.ShootMsg:
		rec, ok := s.players[in.PeerID]
		if !ok {
			return
		}
		rec.lastHeard = s.now
		s.handleShoot(in.PeerID, simcore.Vec2{X: float64(m.DirX), Y: float64(m.DirY)}, m.Timestamp)
	case network.ThrowGrenadeMsg:
		rec, ok := s.players[in.PeerID]
		if !ok {
			return
		}
		rec.lastHeard = s.now
		s.throwGrenade(in.PeerID, simcore.Vec2{X: float64(m.DirX), Y: float64(m.DirY)})
	case network.PingMsg:
		if rec, ok := s.players[in.PeerID]; ok {
			rec.lastHeard = s.now
		}
		s.transport.Send(in.PeerID, network.MsgPong, network.PongMsg{ClientTime: m.ClientTime, ServerTime: s.now})
	case network.HeartbeatMsg:
		if rec, ok := s.players[in.PeerID]; ok {
			rec.lastHeard = s.now
		}
	case network.GoodbyeMsg:
		s.handleDisconnect(in.PeerID, true)
	default:
		s.logf(logrus.DebugLevel, "unhandled inbound message type %T from peer %d", m, in.PeerID)
	}
}

// advancePhysics implements tick step 2: apply last queued input per player,
// advance grenades, and clear consumed input.
func (s *Server) advancePhysics(dt float64) {
	for _, id := range sortedPlayerIDs(s.players) {
		rec := s.players[id]
		input, ok := s.pendingInput[id]
		if !ok {
			continue
		}
		rec.state = ApplyPlayerInput(rec.state, input, s.world, dt)
		s.appliedSeq[id] = input.Seq
	}
	s.pendingInput = make(map[uint64]simcore.InputState)

	s.tickGrenades(dt)
}

// resolveDamage implements tick step 3.
func (s *Server) resolveDamage() {
	for _, dmg := range s.damageQueue {
		rec, ok := s.players[dmg.target]
		if !ok {
			continue
		}
		newHP := rec.state.HP - int(dmg.amount)
		if newHP < 0 {
			newHP = 0
		}
		rec.state.HP = newHP

		s.transport.Broadcast(network.MsgPlayerDamaged, network.PlayerDamagedMsg{
			ID: dmg.target, NewHP: int32(newHP), Damage: float32(dmg.amount),
		})

		if newHP <= 0 {
			s.killPlayer(dmg.target, dmg.source, dmg.hasSource)
		}
	}
	s.damageQueue = s.damageQueue[:0]
}

// broadcastSnapshot implements tick step 6.
func (s *Server) broadcastSnapshot() {
	ids := sortedPlayerIDs(s.players)
	msg := network.SnapshotMsg{
		ServerTime: s.now,
		Players:    make([]network.PlayerSnapshot, 0, len(ids)),
		Acks:       make([]network.AckEntry, 0, len(ids)),
	}
	for _, id := range ids {
		rec := s.players[id]
		msg.Players = append(msg.Players, network.PlayerSnapshot{
			ID:       id,
			X:        float32(rec.state.X),
			Y:        float32(rec.state.Y),
			Rotation: float32(rec.state.Rotation),
			Stance:   uint8(rec.state.Stance),
			HP:       int32(rec.state.HP),
		})
		if seq, ok := s.appliedSeq[id]; ok {
			msg.Acks = append(msg.Acks, network.AckEntry{PlayerID: id, Seq: seq})
		}
	}
	s.transport.Broadcast(network.MsgSnapshot, msg)
	if s.metrics != nil {
		s.metrics.SnapshotsBroadcast.Inc()
	}
}

// pushHistory implements tick step 7.
func (s *Server) pushHistory() {
	states := make(map[uint64]simcore.PlayerState, len(s.players))
	for id, rec := range s.players {
		states[id] = rec.state
	}
	s.history.Push(s.now, states)
}

// maybeBroadcastGrenadeSync implements tick step 8.
func (s *Server) maybeBroadcastGrenadeSync() {
	period := 1.0 / simcore.SnapshotSyncHz
	if s.now-s.lastSyncBroadcast < period {
		return
	}
	s.lastSyncBroadcast = s.now
	for _, id := range sortedGrenadeIDs(s.grenades) {
		g := s.grenades[id]
		s.broadcastGrenadeSync(g)
	}
}

func (s *Server) logf(level logrus.Level, format string, args ...interface{}) {
	if s.log == nil {
		return
	}
	s.log.Logf(level, format, args...)
}

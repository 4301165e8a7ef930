package server

import (
	"github.com/sirupsen/logrus"

	"github.com/cascad-cs2d/netcore/pkg/network"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

const initialHP = 100

// nextSpawnPoint round-robins over the static spawn list.
func (s *Server) nextSpawnPoint() simcore.Vec2 {
	p := s.spawnPoints[s.spawnIdx%len(s.spawnPoints)]
	s.spawnIdx++
	return p
}

// handleConnect handles a newly accepted peer: insert a fresh
// PlayerState, broadcast PlayerConnected, and send the new peer the current
// full snapshot immediately so it doesn't have to wait for the next tick.
func (s *Server) handleConnect(id uint64) {
	spawn := s.nextSpawnPoint()
	s.players[id] = &playerRecord{
		state:     simcore.PlayerState{X: spawn.X, Y: spawn.Y, Stance: simcore.StanceStanding, HP: initialHP},
		lastHeard: s.now,
		lastThrow: -simcore.GrenadeUsageCooldown,
	}

	s.logf(logrus.InfoLevel, "player %d connected, spawned at (%.0f, %.0f)", id, spawn.X, spawn.Y)

	s.transport.Broadcast(network.MsgPlayerConnected, network.PlayerConnectedMsg{
		ID: id, X: float32(spawn.X), Y: float32(spawn.Y),
	})

	s.sendFullSnapshot(id)
}

func (s *Server) sendFullSnapshot(to uint64) {
	ids := sortedPlayerIDs(s.players)
	msg := network.SnapshotMsg{
		ServerTime: s.now,
		Players:    make([]network.PlayerSnapshot, 0, len(ids)),
		Acks:       make([]network.AckEntry, 0, len(ids)),
	}
	for _, id := range ids {
		rec := s.players[id]
		msg.Players = append(msg.Players, network.PlayerSnapshot{
			ID: id, X: float32(rec.state.X), Y: float32(rec.state.Y),
			Rotation: float32(rec.state.Rotation), Stance: uint8(rec.state.Stance), HP: int32(rec.state.HP),
		})
	}
	s.transport.Send(to, network.MsgSnapshot, msg)
}

// killPlayer moves a player to the dead-pending state: remove the
// PlayerState, purge any stale respawn task for this id, and schedule a new
// one.
func (s *Server) killPlayer(id uint64, killer uint64, hasKiller bool) {
	delete(s.players, id)
	delete(s.pendingInput, id)
	delete(s.appliedSeq, id)

	s.purgeRespawnTask(id)
	s.respawnQueue = append(s.respawnQueue, respawnTask{peerID: id, due: s.now + simcore.RespawnCooldown})

	if hasKiller {
		s.logf(logrus.InfoLevel, "player %d killed by %d, respawning in %.0fs", id, killer, simcore.RespawnCooldown)
	} else {
		s.logf(logrus.InfoLevel, "player %d died, respawning in %.0fs", id, simcore.RespawnCooldown)
	}

	s.transport.Broadcast(network.MsgPlayerDied, network.PlayerDiedMsg{
		Victim: id, HasKiller: hasKiller, Killer: killer,
	})
}

func (s *Server) purgeRespawnTask(id uint64) {
	out := s.respawnQueue[:0]
	for _, t := range s.respawnQueue {
		if t.peerID != id {
			out = append(out, t)
		}
	}
	s.respawnQueue = out
}

// hasRespawnTask reports whether id has a pending respawn task, i.e. the
// peer is dead and waiting to respawn.
func (s *Server) hasRespawnTask(id uint64) bool {
	for _, t := range s.respawnQueue {
		if t.peerID == id {
			return true
		}
	}
	return false
}

// advanceRespawns implements tick step 4: fire every due respawn task.
func (s *Server) advanceRespawns() {
	var remaining []respawnTask
	for _, t := range s.respawnQueue {
		if s.now < t.due {
			remaining = append(remaining, t)
			continue
		}
		s.respawnPlayer(t.peerID)
	}
	s.respawnQueue = remaining
}

func (s *Server) respawnPlayer(id uint64) {
	spawn := s.nextSpawnPoint()
	s.players[id] = &playerRecord{
		state:     simcore.PlayerState{X: spawn.X, Y: spawn.Y, Stance: simcore.StanceStanding, HP: initialHP},
		lastHeard: s.now,
		lastThrow: -simcore.GrenadeUsageCooldown,
	}
	s.logf(logrus.InfoLevel, "player %d respawned at (%.0f, %.0f)", id, spawn.X, spawn.Y)

	s.transport.Broadcast(network.MsgPlayerRespawn, network.PlayerRespawnMsg{
		ID: id, X: float32(spawn.X), Y: float32(spawn.Y),
	})
}

// dropTimedOutPeers implements tick step 5.
func (s *Server) dropTimedOutPeers() {
	for _, id := range sortedPlayerIDs(s.players) {
		rec := s.players[id]
		if s.now-rec.lastHeard > simcore.TimeoutSecs {
			s.logf(logrus.InfoLevel, "player %d silent for %.1fs, dropping", id, s.now-rec.lastHeard)
			s.handleDisconnect(id, false)
		}
	}
}

// handleDisconnect removes every trace of a peer, triggered by an
// explicit Goodbye, a transport Lost event, or the timeout check, from
// either the Spawned or DeadPending state. graceful distinguishes a
// self-reported Goodbye (peer already closing on its own) from a
// server-initiated drop that must also sever the transport.
func (s *Server) handleDisconnect(id uint64, graceful bool) {
	_, hasState := s.players[id]
	hasRespawn := s.hasRespawnTask(id)
	if !hasState && !hasRespawn {
		return
	}

	delete(s.players, id)
	delete(s.pendingInput, id)
	delete(s.appliedSeq, id)
	s.purgeRespawnTask(id)

	if !graceful {
		s.transport.Disconnect(id)
	}

	s.logf(logrus.InfoLevel, "player %d disconnected", id)
	s.transport.Broadcast(network.MsgPlayerDisconnected, network.PlayerDisconnectedMsg{ID: id})
}

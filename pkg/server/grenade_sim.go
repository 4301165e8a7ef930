package server

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/rs/xid"

	"github.com/cascad-cs2d/netcore/pkg/network"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

func newGrenadeID() uint64 {
	id := xid.New().Bytes()
	return binary.BigEndian.Uint64(id[:8])
}

func sortedGrenadeIDs(grenades map[uint64]*simcore.Grenade) []uint64 {
	ids := make([]uint64, 0, len(grenades))
	for id := range grenades {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// throwGrenade accepts or silently rejects a ThrowGrenade request: a
// per-player cooldown gate, then a new grenade anchored GrenadeRadius plus
// GrenadeSeparationEps from the thrower's center along the normalized
// direction.
func (s *Server) throwGrenade(shooter uint64, dir simcore.Vec2) {
	rec, ok := s.players[shooter]
	if !ok {
		return
	}
	if s.now-rec.lastThrow < simcore.GrenadeUsageCooldown {
		return // still on cooldown, silent drop
	}
	rec.lastThrow = s.now

	d := dir.Normalized()
	if d == (simcore.Vec2{}) {
		d = simcore.Vec2{X: 1}
	}
	origin := simcore.Vec2{X: rec.state.X, Y: rec.state.Y}
	spawnAt := origin.Add(d.Scale(simcore.GrenadeRadius + simcore.GrenadeSeparationEps))

	g := &simcore.Grenade{
		ID:          newGrenadeID(),
		AnchorFrom:  spawnAt,
		Dir:         d,
		Speed:       simcore.GrenadeSpeed,
		Created:     s.now,
		Fuse:        simcore.GrenadeTimer,
		BlastRadius: simcore.GrenadeBlastRadius,
	}
	s.grenades[g.ID] = g

	s.transport.Broadcast(network.MsgGrenadeSpawn, network.GrenadeSpawnMsg{
		ID: g.ID, X: float32(spawnAt.X), Y: float32(spawnAt.Y),
		DirX: float32(d.X), DirY: float32(d.Y), Speed: float32(g.Speed),
	})
}

// tickGrenades runs the per-tick ballistic update: air drag, a
// sub-stepped sweep against the collision world, a single bounce per tick
// for stability, and fuse-driven detonation with linear blast falloff.
// RunTick has already advanced s.now when this runs, so a grenade's
// start-of-tick position is its anchor-form position at s.now-dt.
func (s *Server) tickGrenades(dt float64) {
	for _, id := range sortedGrenadeIDs(s.grenades) {
		g := s.grenades[id]

		if s.now-g.Created >= g.Fuse {
			s.detonateGrenade(g)
			delete(s.grenades, id)
			continue
		}

		from := s.now - dt
		if from < g.Created {
			from = g.Created // thrown mid-tick, nothing to rewind yet
		}
		pos := g.PositionAt(from)

		g.Speed *= math.Pow(1-simcore.GrenadeAirDragPerSec, dt)
		if g.Speed < simcore.GrenadeStopSpeed {
			g.Speed = 0
		}

		s.stepGrenade(g, pos, dt)
	}
}

// stepGrenade sub-steps the grenade's motion from pos over one tick,
// bouncing at most once; after a bounce the remainder of the tick is
// forfeited, which keeps corner contacts from resolving twice in one step.
func (s *Server) stepGrenade(g *simcore.Grenade, pos simcore.Vec2, dt float64) {
	vel := g.Dir.Scale(g.Speed)

	remaining := dt
	for remaining > 0 && g.Speed > 0 {
		step := remaining
		maxByDistance := simcore.GrenadeMaxStep / g.Speed
		if maxByDistance < step {
			step = maxByDistance
		}

		next := pos.Add(vel.Scale(step))

		if normal, mtv, hit := s.world.CircleVsWalls(next, simcore.GrenadeRadius); hit {
			pos = next.Add(mtv)

			speedAlongNormal := vel.Dot(normal)
			reflected := vel.Sub(normal.Scale(2 * speedAlongNormal))
			vel = reflected.Scale(simcore.GrenadeRestitution * simcore.GrenadeBounceDamping)
			g.Speed = vel.Length()
			if g.Speed < simcore.GrenadeStopSpeed {
				g.Speed = 0
			} else {
				g.Dir = vel.Normalized()
			}

			s.reseatAnchor(g, pos)
			s.broadcastGrenadeSync(g)
			return
		}

		pos = next
		remaining -= step
	}

	s.reseatAnchor(g, pos)
}

// reseatAnchor rewrites AnchorFrom so PositionAt(s.now) equals pos under the
// grenade's current direction and speed. Created is never touched; the fuse
// keeps counting from the original throw.
func (s *Server) reseatAnchor(g *simcore.Grenade, pos simcore.Vec2) {
	g.AnchorFrom = pos.Sub(g.Dir.Scale(g.Speed * (s.now - g.Created)))
}

func (s *Server) broadcastGrenadeSync(g *simcore.Grenade) {
	pos := g.PositionAt(s.now)
	vel := g.Dir.Scale(g.Speed)
	s.transport.Broadcast(network.MsgGrenadeSync, network.GrenadeSyncMsg{
		ID: g.ID, X: float32(pos.X), Y: float32(pos.Y),
		VelX: float32(vel.X), VelY: float32(vel.Y), Timestamp: s.now,
	})
}

// detonateGrenade handles fuse expiry: broadcast
// detonation, then queue a linear-falloff damage event for every player
// within blast radius.
func (s *Server) detonateGrenade(g *simcore.Grenade) {
	pos := g.PositionAt(s.now)
	s.transport.Broadcast(network.MsgGrenadeDetonated, network.GrenadeDetonatedMsg{
		ID: g.ID, X: float32(pos.X), Y: float32(pos.Y),
	})

	for _, id := range sortedPlayerIDs(s.players) {
		rec := s.players[id]
		dist := pos.Sub(simcore.Vec2{X: rec.state.X, Y: rec.state.Y}).Length()
		if dist >= g.BlastRadius {
			continue
		}
		damage := (g.BlastRadius - dist) / g.BlastRadius * simcore.GrenadeBaseDamage * simcore.GrenadeDamageCoeff
		s.damageQueue = append(s.damageQueue, pendingDamage{target: id, amount: damage})
	}
}

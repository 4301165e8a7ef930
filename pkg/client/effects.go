package client

import (
	"github.com/cascad-cs2d/netcore/pkg/collision"
	"github.com/cascad-cs2d/netcore/pkg/network"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

// extrapolationCap bounds how far a grenade mirror is extrapolated past its
// last GrenadeSync before a fresher sync arrives.
const extrapolationCap = 0.25

// Tracer is a finite-lifetime visual mirror of a hit-scan shot.
type Tracer struct {
	ShooterID uint64
	From      simcore.Vec2
	Dir       simcore.Vec2
	Length    float64
	TTL       float64
}

// GrenadeMirror is the client's local view of a live grenade, driven by
// periodic GrenadeSync messages and extrapolated between them.
type GrenadeMirror struct {
	ID       uint64
	Pos      simcore.Vec2
	Vel      simcore.Vec2
	SyncedAt float64
}

// Corpse is a fixed-duration marker left at a player's last known pose.
type Corpse struct {
	PlayerID uint64
	Pose     simcore.PlayerState
	TTL      float64
}

// Explosion is a finite-duration visual effect at a grenade's detonation
// point.
type Explosion struct {
	Pos simcore.Vec2
	TTL float64
}

const (
	tracerTTL    = 0.15
	explosionTTL = 0.4
	corpseTTL    = 3.0
)

// EffectsMirror holds id-indexed mirrors of the server's one-shot S2C
// effect messages: tracers, grenade mirrors, corpses, and explosions. It
// keeps no cross-references to avatars or labels; everything resolves
// through player/grenade ids.
type EffectsMirror struct {
	world *collision.World

	Tracers    []Tracer
	Grenades   map[uint64]*GrenadeMirror
	Corpses    map[uint64]*Corpse
	Explosions []Explosion
}

// NewEffectsMirror constructs an empty mirror bound to the same collision
// world used for tracer truncation raycasts.
func NewEffectsMirror(world *collision.World) *EffectsMirror {
	return &EffectsMirror{
		world:    world,
		Grenades: make(map[uint64]*GrenadeMirror),
		Corpses:  make(map[uint64]*Corpse),
	}
}

// HandleShootFx spawns a tracer, truncated against the wall cache so it
// never appears to pass through geometry.
func (e *EffectsMirror) HandleShootFx(msg network.ShootFxMsg) {
	from := simcore.Vec2{X: float64(msg.FromX), Y: float64(msg.FromY)}
	dir := simcore.Vec2{X: float64(msg.DirX), Y: float64(msg.DirY)}.Normalized()

	length := simcore.MaxRayLen
	if t, hit := e.world.Raycast(from, dir, simcore.MaxRayLen); hit {
		length = t
	}

	e.Tracers = append(e.Tracers, Tracer{
		ShooterID: msg.ShooterID,
		From:      from,
		Dir:       dir,
		Length:    length,
		TTL:       tracerTTL,
	})
}

// HandleGrenadeSpawn creates a new grenade mirror keyed by id.
func (e *EffectsMirror) HandleGrenadeSpawn(msg network.GrenadeSpawnMsg, now float64) {
	e.Grenades[msg.ID] = &GrenadeMirror{
		ID:       msg.ID,
		Pos:      simcore.Vec2{X: float64(msg.X), Y: float64(msg.Y)},
		Vel:      simcore.Vec2{X: float64(msg.DirX), Y: float64(msg.DirY)}.Normalized().Scale(float64(msg.Speed)),
		SyncedAt: now,
	}
}

// HandleGrenadeSync resyncs an existing grenade mirror's ballistic state.
func (e *EffectsMirror) HandleGrenadeSync(msg network.GrenadeSyncMsg) {
	g, ok := e.Grenades[msg.ID]
	if !ok {
		g = &GrenadeMirror{ID: msg.ID}
		e.Grenades[msg.ID] = g
	}
	g.Pos = simcore.Vec2{X: float64(msg.X), Y: float64(msg.Y)}
	g.Vel = simcore.Vec2{X: float64(msg.VelX), Y: float64(msg.VelY)}
	g.SyncedAt = msg.Timestamp
}

// ExtrapolatedPos returns a grenade mirror's extrapolated position at
// nowServer: pos + vel * clamp(nowServer - syncedAt, 0, extrapolationCap).
func (g *GrenadeMirror) ExtrapolatedPos(nowServer float64) simcore.Vec2 {
	dt := nowServer - g.SyncedAt
	if dt < 0 {
		dt = 0
	}
	if dt > extrapolationCap {
		dt = extrapolationCap
	}
	return g.Pos.Add(g.Vel.Scale(dt))
}

// HandleGrenadeDetonated removes the mirror and spawns an explosion effect
// at the authoritative detonation position.
func (e *EffectsMirror) HandleGrenadeDetonated(msg network.GrenadeDetonatedMsg) {
	delete(e.Grenades, msg.ID)
	e.Explosions = append(e.Explosions, Explosion{
		Pos: simcore.Vec2{X: float64(msg.X), Y: float64(msg.Y)},
		TTL: explosionTTL,
	})
}

// HandlePlayerDied leaves a corpse at the victim's last known pose for a
// fixed duration. The mirror tracks no avatars, so nothing is despawned
// here.
func (e *EffectsMirror) HandlePlayerDied(victim uint64, lastKnown simcore.PlayerState) {
	e.Corpses[victim] = &Corpse{PlayerID: victim, Pose: lastKnown, TTL: corpseTTL}
}

// HandlePlayerDamaged is the hook a renderer's HP display would observe.
// With rendering out of scope it records nothing.
func (e *EffectsMirror) HandlePlayerDamaged(msg network.PlayerDamagedMsg) {}

// Tick ages every TTL-bound effect by dt and drops expired ones.
func (e *EffectsMirror) Tick(dt float64) {
	e.Tracers = ageTracers(e.Tracers, dt)
	e.Explosions = ageExplosions(e.Explosions, dt)
	for id, c := range e.Corpses {
		c.TTL -= dt
		if c.TTL <= 0 {
			delete(e.Corpses, id)
		}
	}
}

func ageTracers(in []Tracer, dt float64) []Tracer {
	out := in[:0]
	for _, t := range in {
		t.TTL -= dt
		if t.TTL > 0 {
			out = append(out, t)
		}
	}
	return out
}

func ageExplosions(in []Explosion, dt float64) []Explosion {
	out := in[:0]
	for _, x := range in {
		x.TTL -= dt
		if x.TTL > 0 {
			out = append(out, x)
		}
	}
	return out
}

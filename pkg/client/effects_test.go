package client

import (
	"math"
	"testing"

	"github.com/cascad-cs2d/netcore/pkg/collision"
	"github.com/cascad-cs2d/netcore/pkg/network"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

func newTestEffectsMirror(walls []collision.AABB) *EffectsMirror {
	world := collision.NewWorld(walls, simcore.Vec2{})
	return NewEffectsMirror(world)
}

func TestHandleShootFxTruncatesAtWall(t *testing.T) {
	wall := collision.AABB{Min: simcore.Vec2{X: 40, Y: -10}, Max: simcore.Vec2{X: 60, Y: 10}}
	e := newTestEffectsMirror([]collision.AABB{wall})

	e.HandleShootFx(network.ShootFxMsg{DirX: 1, DirY: 0})

	if len(e.Tracers) != 1 {
		t.Fatalf("expected 1 tracer, got %d", len(e.Tracers))
	}
	if e.Tracers[0].Length >= 40 {
		t.Fatalf("expected tracer truncated before the wall face, got length=%v", e.Tracers[0].Length)
	}
}

func TestHandleGrenadeSpawnAndSyncExtrapolation(t *testing.T) {
	e := newTestEffectsMirror(nil)

	e.HandleGrenadeSpawn(network.GrenadeSpawnMsg{ID: 1, X: 0, Y: 0, DirX: 1, DirY: 0, Speed: 100}, 0)
	g := e.Grenades[1]
	if g == nil {
		t.Fatal("expected grenade mirror to exist after spawn")
	}

	e.HandleGrenadeSync(network.GrenadeSyncMsg{ID: 1, X: 10, Y: 0, VelX: 100, VelY: 0, Timestamp: 1.0})

	pos := e.Grenades[1].ExtrapolatedPos(1.1)
	if math.Abs(pos.X-20) > 1e-9 {
		t.Fatalf("expected extrapolated X=20 after 0.1s at vel 100, got %v", pos.X)
	}
}

func TestExtrapolatedPosClampsToCap(t *testing.T) {
	g := &GrenadeMirror{Pos: simcore.Vec2{}, Vel: simcore.Vec2{X: 100}, SyncedAt: 0}
	pos := g.ExtrapolatedPos(10.0)
	if math.Abs(pos.X-extrapolationCap*100) > 1e-9 {
		t.Fatalf("expected extrapolation capped at %v, got %v", extrapolationCap*100, pos.X)
	}
}

func TestHandleGrenadeDetonatedRemovesMirrorAndSpawnsExplosion(t *testing.T) {
	e := newTestEffectsMirror(nil)
	e.HandleGrenadeSpawn(network.GrenadeSpawnMsg{ID: 1, DirX: 1, Speed: 50}, 0)

	e.HandleGrenadeDetonated(network.GrenadeDetonatedMsg{ID: 1, X: 5, Y: 5})

	if _, ok := e.Grenades[1]; ok {
		t.Fatal("expected grenade mirror removed on detonation")
	}
	if len(e.Explosions) != 1 {
		t.Fatalf("expected 1 explosion effect, got %d", len(e.Explosions))
	}
}

func TestHandlePlayerDiedLeavesCorpse(t *testing.T) {
	e := newTestEffectsMirror(nil)
	e.HandlePlayerDied(7, simcore.PlayerState{X: 1, Y: 2})

	c, ok := e.Corpses[7]
	if !ok {
		t.Fatal("expected a corpse to be recorded")
	}
	if c.Pose.X != 1 || c.Pose.Y != 2 {
		t.Fatalf("expected corpse at last known pose, got %+v", c.Pose)
	}
}

func TestTickExpiresEffects(t *testing.T) {
	e := newTestEffectsMirror(nil)
	e.Tracers = append(e.Tracers, Tracer{TTL: 0.05})
	e.Explosions = append(e.Explosions, Explosion{TTL: 0.05})
	e.Corpses[1] = &Corpse{TTL: 0.05}

	e.Tick(0.1)

	if len(e.Tracers) != 0 {
		t.Fatalf("expected tracer to expire, got %d remaining", len(e.Tracers))
	}
	if len(e.Explosions) != 0 {
		t.Fatalf("expected explosion to expire, got %d remaining", len(e.Explosions))
	}
	if len(e.Corpses) != 0 {
		t.Fatalf("expected corpse to expire, got %d remaining", len(e.Corpses))
	}
}

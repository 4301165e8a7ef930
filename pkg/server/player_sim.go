package server

import (
	"github.com/cascad-cs2d/netcore/pkg/collision"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

// ApplyPlayerInput advances one player's state by one tick of the
// last-queued input. It delegates to the world's shared movement rule so
// pkg/client's prediction, replaying the same world.ApplyMovement call
// locally, can never diverge from the authoritative tick.
func ApplyPlayerInput(state simcore.PlayerState, input simcore.InputState, world *collision.World, dt float64) simcore.PlayerState {
	return world.ApplyMovement(state, input, simcore.MoveSpeed, dt)
}

func playerHalfExtent() simcore.Vec2 {
	half := simcore.PlayerSize / 2
	return simcore.Vec2{X: half, Y: half}
}

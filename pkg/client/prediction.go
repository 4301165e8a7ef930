package client

import (
	"github.com/cascad-cs2d/netcore/pkg/collision"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

// Predictor holds the local player's predicted pose and the ring of inputs
// sent but not yet acknowledged by the server. Reconciliation snaps to the
// acknowledged server pose, drops acked inputs, and replays the rest through
// the same movement function the server applies
// (collision.World.ApplyMovement), so client and server can never
// permanently diverge.
type Predictor struct {
	world     *collision.World
	moveSpeed float64
	dt        float64

	seq     uint32
	pending []simcore.InputState
	local   simcore.PlayerState
}

// NewPredictor constructs a Predictor bound to the same collision world and
// tick rate the server uses.
func NewPredictor(world *collision.World, moveSpeed, dt float64) *Predictor {
	return &Predictor{world: world, moveSpeed: moveSpeed, dt: dt}
}

// Seed sets the local avatar's starting pose, as received on connect.
func (p *Predictor) Seed(state simcore.PlayerState) {
	p.local = state
	p.pending = nil
}

// Local returns the current predicted pose.
func (p *Predictor) Local() simcore.PlayerState { return p.local }

// PredictInput assigns the next wrap-safe sequence number to raw, enqueues
// it into the pending ring (dropping the oldest entry past
// simcore.PendingInputsCapacity), applies the movement rule locally, and
// returns the sequence-tagged input ready to send on C2S.
func (p *Predictor) PredictInput(raw simcore.InputState) simcore.InputState {
	p.seq++
	raw.Seq = p.seq

	p.pending = append(p.pending, raw)
	if len(p.pending) > simcore.PendingInputsCapacity {
		p.pending = p.pending[len(p.pending)-simcore.PendingInputsCapacity:]
	}

	p.local = p.world.ApplyMovement(p.local, raw, p.moveSpeed, p.dt)
	return raw
}

// Reconcile applies the snap-then-replay rule: the local avatar is
// snapped to serverState, every pending input with seq <= lastAck is
// dropped, and the remaining inputs are replayed in order through the exact
// movement rule used for local prediction. The result is the new predicted
// pose, ready to render immediately.
func (p *Predictor) Reconcile(serverState simcore.PlayerState, lastAck uint32) {
	p.local = serverState

	kept := p.pending[:0]
	for _, in := range p.pending {
		if simcore.SeqGreaterThan(in.Seq, lastAck) {
			kept = append(kept, in)
		}
	}
	p.pending = kept

	for _, in := range p.pending {
		p.local = p.world.ApplyMovement(p.local, in, p.moveSpeed, p.dt)
	}
}

// PendingCount reports how many unacknowledged inputs are still queued.
func (p *Predictor) PendingCount() int { return len(p.pending) }

package client

import (
	"math"
	"testing"

	"github.com/cascad-cs2d/netcore/pkg/collision"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

func newTestPredictor() *Predictor {
	half := simcore.PlayerSize / 2
	world := collision.NewWorld(nil, simcore.Vec2{X: half, Y: half})
	return NewPredictor(world, simcore.MoveSpeed, simcore.TickDT)
}

func TestPredictInputMovesLocalAvatar(t *testing.T) {
	p := newTestPredictor()
	p.Seed(simcore.PlayerState{HP: 100})

	in := p.PredictInput(simcore.InputState{Right: true})
	if in.Seq != 1 {
		t.Fatalf("expected first predicted input to get seq 1, got %d", in.Seq)
	}
	if p.Local().X <= 0 {
		t.Fatalf("expected local avatar to move in +X, got X=%v", p.Local().X)
	}
	if p.PendingCount() != 1 {
		t.Fatalf("expected 1 pending input, got %d", p.PendingCount())
	}
}

func TestPredictInputDropsOldestBeyondCapacity(t *testing.T) {
	p := newTestPredictor()
	p.Seed(simcore.PlayerState{HP: 100})

	for i := 0; i < simcore.PendingInputsCapacity+10; i++ {
		p.PredictInput(simcore.InputState{Right: true})
	}
	if p.PendingCount() != simcore.PendingInputsCapacity {
		t.Fatalf("expected pending ring capped at %d, got %d", simcore.PendingInputsCapacity, p.PendingCount())
	}
}

func TestReconcileSnapsAndReplaysUnackedInputs(t *testing.T) {
	p := newTestPredictor()
	p.Seed(simcore.PlayerState{HP: 100})

	p.PredictInput(simcore.InputState{Right: true}) // seq 1
	p.PredictInput(simcore.InputState{Right: true}) // seq 2
	p.PredictInput(simcore.InputState{Right: true}) // seq 3
	predictedX := p.Local().X

	// Server acknowledges seq 1 at a slightly different authoritative pose.
	p.Reconcile(simcore.PlayerState{X: 1, HP: 100}, 1)

	if p.PendingCount() != 2 {
		t.Fatalf("expected 2 inputs (seq 2,3) to survive reconciliation, got %d", p.PendingCount())
	}
	if p.Local().X <= 1 {
		t.Fatalf("expected replayed inputs to advance past the acked pose, got X=%v", p.Local().X)
	}
	// Replaying from the authoritative x=1 plus 2 remaining inputs should
	// land close to (but not necessarily equal to) the pre-reconcile guess.
	if p.Local().X > predictedX+1 {
		t.Fatalf("reconciled X=%v drifted further than the original prediction %v", p.Local().X, predictedX)
	}
}

func TestReconcileWithNoPendingInputsTrustsServer(t *testing.T) {
	p := newTestPredictor()
	p.Seed(simcore.PlayerState{HP: 100})

	p.Reconcile(simcore.PlayerState{X: 42, Y: 7, HP: 80}, 0)

	if p.Local().X != 42 || p.Local().Y != 7 || p.Local().HP != 80 {
		t.Fatalf("expected local state to equal server state with no pending inputs, got %+v", p.Local())
	}
}

func TestReconcileConvergesToServerPlusUnackedMovement(t *testing.T) {
	p := newTestPredictor()
	p.Seed(simcore.PlayerState{HP: 100})

	for i := 0; i < 10; i++ {
		p.PredictInput(simcore.InputState{Right: true})
	}

	// Server has applied seqs 1..5 and reports the matching position.
	serverX := 5 * simcore.MoveSpeed * simcore.TickDT
	p.Reconcile(simcore.PlayerState{X: serverX, HP: 100}, 5)

	// Replaying seqs 6..10 on top of the ack lands exactly where ten ticks
	// of rightward movement would.
	wantX := 10 * simcore.MoveSpeed * simcore.TickDT
	if math.Abs(p.Local().X-wantX) > 1e-9 {
		t.Fatalf("expected X=%v after reconciliation, got %v", wantX, p.Local().X)
	}
	if p.PendingCount() != 5 {
		t.Fatalf("expected 5 unacked inputs remaining, got %d", p.PendingCount())
	}
}

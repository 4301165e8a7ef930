package client

import (
	"math"

	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

// Snapshot is one broadcast tick's full roster, keyed by player id.
type Snapshot struct {
	ServerTime float64
	Players    map[uint64]simcore.PlayerState
}

// SnapshotBuffer is the client's bounded deque of received snapshots,
// ordered by ServerTime, used to interpolate remote players' poses at a
// delayed render time. Position lerps linearly; rotation lerps along the
// shortest angular path so a heading crossing the +-pi seam doesn't spin
// the long way around.
type SnapshotBuffer struct {
	entries  []Snapshot
	capacity int
}

// NewSnapshotBuffer constructs an empty buffer bounded to capacity entries.
func NewSnapshotBuffer(capacity int) *SnapshotBuffer {
	return &SnapshotBuffer{capacity: capacity}
}

// Push appends a newly received snapshot, dropping the oldest entry once
// the buffer is at capacity. Snapshots are expected in non-decreasing
// ServerTime order, matching the server's strict-time-order broadcast
// guarantee.
func (b *SnapshotBuffer) Push(snap Snapshot) {
	b.entries = append(b.entries, snap)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[len(b.entries)-b.capacity:]
	}
}

const interpEpsilon = 1e-6

// InterpolateAt returns the interpolated pose of every remote player (all
// but localID) at renderTime. Players present in both bracketing snapshots
// are lerped (position linearly, rotation by shortest-angle path); a player
// present in only one snapshot holds at that snapshot's pose. With no
// snapshot older than renderTime, or only one snapshot buffered, the
// nearest available snapshot is held outright.
func (b *SnapshotBuffer) InterpolateAt(renderTime float64, localID uint64) map[uint64]simcore.PlayerState {
	if len(b.entries) == 0 {
		return nil
	}

	s0, s1 := b.bracket(renderTime)
	if s1 == nil {
		out := make(map[uint64]simcore.PlayerState, len(s0.Players))
		for id, st := range s0.Players {
			if id == localID {
				continue
			}
			out[id] = st
		}
		return out
	}

	span := s1.ServerTime - s0.ServerTime
	if span < interpEpsilon {
		span = interpEpsilon
	}
	alpha := clampUnit((renderTime - s0.ServerTime) / span)

	out := make(map[uint64]simcore.PlayerState, len(s1.Players))
	for id, a := range s0.Players {
		if id == localID {
			continue
		}
		if bst, ok := s1.Players[id]; ok {
			out[id] = simcore.PlayerState{
				X:        lerp(a.X, bst.X, alpha),
				Y:        lerp(a.Y, bst.Y, alpha),
				Rotation: lerpAngle(a.Rotation, bst.Rotation, alpha),
				Stance:   bst.Stance,
				HP:       bst.HP,
			}
			continue
		}
		out[id] = a
	}
	for id, bst := range s1.Players {
		if id == localID {
			continue
		}
		if _, done := out[id]; done {
			continue
		}
		out[id] = bst
	}
	return out
}

// bracket finds the adjacent pair S0, S1 with S0.time <= renderTime <
// S1.time. When renderTime falls outside the buffered range, s1 is nil and
// s0 is the nearest boundary snapshot to hold at.
func (b *SnapshotBuffer) bracket(renderTime float64) (s0 *Snapshot, s1 *Snapshot) {
	if renderTime < b.entries[0].ServerTime {
		return &b.entries[0], nil
	}
	for i := 0; i < len(b.entries)-1; i++ {
		if b.entries[i].ServerTime <= renderTime && renderTime < b.entries[i+1].ServerTime {
			return &b.entries[i], &b.entries[i+1]
		}
	}
	return &b.entries[len(b.entries)-1], nil
}

func lerp(a, bVal, alpha float64) float64 { return a + (bVal-a)*alpha }

// lerpAngle interpolates two angles in radians along the shortest path,
// wrapping the delta into [-pi, pi) before scaling by alpha.
func lerpAngle(a, bVal, alpha float64) float64 {
	delta := math.Mod(bVal-a+math.Pi, 2*math.Pi)
	if delta < 0 {
		delta += 2 * math.Pi
	}
	delta -= math.Pi
	return a + delta*alpha
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

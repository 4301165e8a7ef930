// Package collision implements the static AABB collision world shared by the
// server's authoritative simulation and the client's local prediction: a
// sliding-AABB sweep for player movement, a slab-method raycast for
// line-of-sight and hit-scan, and a circle-vs-rect test for grenade bounces.
//
// The world is immutable after construction, so both sides can query it
// without coordination.
package collision

import (
	"math"

	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

// AABB is an axis-aligned bounding box given by its min and max corners.
type AABB struct {
	Min, Max simcore.Vec2
}

// Width and Height report the box's extents.
func (b AABB) Width() float64  { return b.Max.X - b.Min.X }
func (b AABB) Height() float64 { return b.Max.Y - b.Min.Y }

// Overlaps reports whether b and o intersect (closed intervals).
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// World is an immutable static collision world: a precomputed array of wall
// AABBs built once from the level, plus the half-extent used to expand a
// point-mover into box-vs-box tests (Minkowski expansion).
type World struct {
	walls      []AABB
	halfExtent simcore.Vec2
}

// NewWorld builds a collision world from a set of wall rectangles and the
// mover's half-extent (half the player's box on each axis).
func NewWorld(walls []AABB, halfExtent simcore.Vec2) *World {
	cached := make([]AABB, len(walls))
	copy(cached, walls)
	return &World{walls: cached, halfExtent: halfExtent}
}

// Walls returns the immutable wall cache.
func (w *World) Walls() []AABB { return w.walls }

// expanded returns the wall AABB expanded by the mover's half-extent, so a
// point-in-expanded-rect test is equivalent to box-vs-rect overlap.
func expanded(wall AABB, half simcore.Vec2) AABB {
	return AABB{
		Min: simcore.Vec2{X: wall.Min.X - half.X, Y: wall.Min.Y - half.Y},
		Max: simcore.Vec2{X: wall.Max.X + half.X, Y: wall.Max.Y + half.Y},
	}
}

func pointInAABB(p simcore.Vec2, b AABB) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// collidesExpanded reports whether a mover centered at p overlaps any wall,
// testing p as a point against each wall expanded by the mover's half
// extent.
func (w *World) collidesExpanded(p simcore.Vec2) bool {
	for _, wall := range w.walls {
		if pointInAABB(p, expanded(wall, w.halfExtent)) {
			return true
		}
	}
	return false
}

// SweepAABB moves a mover from current by delta, sliding along walls: X is
// attempted first and accepted if neither the path nor the landing point
// touches a wall, then Y is attempted the same way from the (possibly
// blocked) X-resolved position. This guarantees the post-tick position never
// overlaps a wall and that a long delta cannot carry the mover through one.
func (w *World) SweepAABB(current, delta simcore.Vec2) simcore.Vec2 {
	pos := current

	candidateX := simcore.Vec2{X: pos.X + delta.X, Y: pos.Y}
	if !w.collidesExpanded(candidateX) && !w.pathBlocked(pos, candidateX) {
		pos.X = candidateX.X
	}

	candidateY := simcore.Vec2{X: pos.X, Y: pos.Y + delta.Y}
	if !w.collidesExpanded(candidateY) && !w.pathBlocked(pos, candidateY) {
		pos.Y = candidateY.Y
	}

	return pos
}

// pathBlocked reports whether the straight move from a to b touches an
// expanded wall that a did not already start inside.
func (w *World) pathBlocked(a, b simcore.Vec2) bool {
	path := AABB{
		Min: simcore.Vec2{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: simcore.Vec2{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
	for _, wall := range w.walls {
		e := expanded(wall, w.halfExtent)
		if path.Overlaps(e) && !pointInAABB(a, e) {
			return true
		}
	}
	return false
}

const raycastEpsilon = 1e-4

// Raycast performs a Liang-Barsky slab test of the segment
// origin -> origin+dir*max against every wall, returning the smallest hit
// distance t in [0, max]. ok is false if no wall is struck within max.
// Walls are tested slightly shrunk by epsilon to avoid grazing false
// positives on shared edges.
func (w *World) Raycast(origin, dir simcore.Vec2, max float64) (t float64, ok bool) {
	best := max
	hit := false

	for _, wall := range w.walls {
		shrunk := AABB{
			Min: simcore.Vec2{X: wall.Min.X + raycastEpsilon, Y: wall.Min.Y + raycastEpsilon},
			Max: simcore.Vec2{X: wall.Max.X - raycastEpsilon, Y: wall.Max.Y - raycastEpsilon},
		}
		if ht, ok := slabIntersect(origin, dir, shrunk, best); ok {
			best = ht
			hit = true
		}
	}

	return best, hit
}

// slabIntersect returns the entry t of the ray against box, if it is less
// than the current best and within [0, best].
func slabIntersect(origin, dir simcore.Vec2, box AABB, best float64) (float64, bool) {
	tMin, tMax := 0.0, best

	for axis := 0; axis < 2; axis++ {
		var o, d, lo, hi float64
		if axis == 0 {
			o, d, lo, hi = origin.X, dir.X, box.Min.X, box.Max.X
		} else {
			o, d, lo, hi = origin.Y, dir.Y, box.Min.Y, box.Max.Y
		}

		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	if tMin < 0 || tMin > best {
		return 0, false
	}
	return tMin, true
}

// CircleVsRect tests a circle (center, radius) against a single rect and, on
// contact, returns the outward contact normal and minimum-translation vector
// needed to push the circle out of the rect. When the center lies strictly
// inside the rect, the push-out axis is the one with the smallest
// penetration depth.
func CircleVsRect(center simcore.Vec2, radius float64, rect AABB) (normal, mtv simcore.Vec2, ok bool) {
	closest := simcore.Vec2{
		X: clamp(center.X, rect.Min.X, rect.Max.X),
		Y: clamp(center.Y, rect.Min.Y, rect.Max.Y),
	}
	delta := center.Sub(closest)
	d2 := delta.Dot(delta)

	if d2 > radius*radius {
		return simcore.Vec2{}, simcore.Vec2{}, false
	}

	if d2 > 1e-12 {
		dist := math.Sqrt(d2)
		n := delta.Scale(1 / dist)
		push := (radius - dist) + simcoreSeparationEps
		return n, n.Scale(push), true
	}

	// Center is inside the rect: push out along the axis of least penetration.
	penLeft := math.Abs(center.X - rect.Min.X)
	penRight := math.Abs(rect.Max.X - center.X)
	penBottom := math.Abs(center.Y - rect.Min.Y)
	penTop := math.Abs(rect.Max.Y - center.Y)

	minX := math.Min(penLeft, penRight)
	minY := math.Min(penBottom, penTop)

	var n simcore.Vec2
	if minX < minY {
		if penLeft < penRight {
			n = simcore.Vec2{X: -1}
		} else {
			n = simcore.Vec2{X: 1}
		}
	} else {
		if penBottom < penTop {
			n = simcore.Vec2{Y: -1}
		} else {
			n = simcore.Vec2{Y: 1}
		}
	}
	push := math.Min(minX, minY) + radius + simcoreSeparationEps
	return n, n.Scale(push), true
}

// ApplyMovement advances a player's pose by one tick of input: direction is
// derived from the input's flags, scaled by moveSpeed*dt, and swept against
// this world. Rotation and stance are copied verbatim from the input. This
// is the single movement rule shared by the server's authoritative tick and
// the client's local prediction, so the two can never diverge on how a
// tick's input maps to a new position.
func (w *World) ApplyMovement(state simcore.PlayerState, input simcore.InputState, moveSpeed, dt float64) simcore.PlayerState {
	delta := input.Direction().Scale(moveSpeed * dt)
	current := simcore.Vec2{X: state.X, Y: state.Y}
	moved := w.SweepAABB(current, delta)

	state.X = moved.X
	state.Y = moved.Y
	state.Rotation = input.Rotation
	state.Stance = input.Stance
	return state
}

// CircleVsWalls returns the first wall the circle contacts, if any.
func (w *World) CircleVsWalls(center simcore.Vec2, radius float64) (normal, mtv simcore.Vec2, ok bool) {
	for _, wall := range w.walls {
		if n, c, hit := CircleVsRect(center, radius, wall); hit {
			return n, c, true
		}
	}
	return simcore.Vec2{}, simcore.Vec2{}, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// simcoreSeparationEps is the extra gap CircleVsRect adds to its push-out;
// it has the same value as simcore.GrenadeSeparationEps.
const simcoreSeparationEps = 0.01

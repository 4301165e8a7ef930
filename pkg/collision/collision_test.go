package collision

import (
	"math"
	"testing"

	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

func TestSweepAABBBlocksPenetration(t *testing.T) {
	wall := AABB{Min: simcore.Vec2{X: 100, Y: 0}, Max: simcore.Vec2{X: 120, Y: 200}}
	w := NewWorld([]AABB{wall}, simcore.Vec2{X: 16, Y: 16})

	tests := []struct {
		name    string
		current simcore.Vec2
		delta   simcore.Vec2
	}{
		{"straight into wall", simcore.Vec2{X: 50, Y: 50}, simcore.Vec2{X: 200, Y: 0}},
		{"diagonal into wall", simcore.Vec2{X: 50, Y: 50}, simcore.Vec2{X: 200, Y: 10}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := w.SweepAABB(tc.current, tc.delta)
			if w.collidesExpanded(result) {
				t.Fatalf("result %+v overlaps wall after sweep", result)
			}
		})
	}
}

func TestSweepAABBSlidesAlongWall(t *testing.T) {
	wall := AABB{Min: simcore.Vec2{X: 100, Y: 0}, Max: simcore.Vec2{X: 120, Y: 200}}
	w := NewWorld([]AABB{wall}, simcore.Vec2{X: 16, Y: 16})

	result := w.SweepAABB(simcore.Vec2{X: 50, Y: 50}, simcore.Vec2{X: 200, Y: 30})

	if result.X >= 84 {
		t.Fatalf("expected X movement to be blocked near wall face, got %v", result.X)
	}
	if result.Y != 80 {
		t.Fatalf("expected Y movement to proceed unobstructed, got %v", result.Y)
	}
}

func TestSweepAABBNoWalls(t *testing.T) {
	w := NewWorld(nil, simcore.Vec2{X: 16, Y: 16})
	result := w.SweepAABB(simcore.Vec2{X: 0, Y: 0}, simcore.Vec2{X: 10, Y: -5})
	if result != (simcore.Vec2{X: 10, Y: -5}) {
		t.Fatalf("expected unobstructed move, got %+v", result)
	}
}

func TestRaycastHitsNearestWall(t *testing.T) {
	near := AABB{Min: simcore.Vec2{X: 100, Y: -50}, Max: simcore.Vec2{X: 120, Y: 50}}
	far := AABB{Min: simcore.Vec2{X: 300, Y: -50}, Max: simcore.Vec2{X: 320, Y: 50}}
	w := NewWorld([]AABB{far, near}, simcore.Vec2{})

	dist, ok := w.Raycast(simcore.Vec2{X: 0, Y: 0}, simcore.Vec2{X: 1, Y: 0}, 800)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(dist-100) > 1 {
		t.Fatalf("expected hit near x=100, got t=%v", dist)
	}
}

func TestRaycastMissesWhenClear(t *testing.T) {
	wall := AABB{Min: simcore.Vec2{X: 100, Y: 100}, Max: simcore.Vec2{X: 120, Y: 120}}
	w := NewWorld([]AABB{wall}, simcore.Vec2{})

	_, ok := w.Raycast(simcore.Vec2{X: 0, Y: 0}, simcore.Vec2{X: 1, Y: 0}, 800)
	if ok {
		t.Fatal("expected no hit, ray passes below wall")
	}
}

func TestRaycastRespectsMaxRange(t *testing.T) {
	wall := AABB{Min: simcore.Vec2{X: 900, Y: -50}, Max: simcore.Vec2{X: 920, Y: 50}}
	w := NewWorld([]AABB{wall}, simcore.Vec2{})

	_, ok := w.Raycast(simcore.Vec2{X: 0, Y: 0}, simcore.Vec2{X: 1, Y: 0}, 800)
	if ok {
		t.Fatal("expected wall beyond max range to be ignored")
	}
}

func TestCircleVsRectOutsideTouching(t *testing.T) {
	rect := AABB{Min: simcore.Vec2{X: 0, Y: 0}, Max: simcore.Vec2{X: 100, Y: 100}}
	center := simcore.Vec2{X: 105, Y: 50}

	normal, mtv, ok := CircleVsRect(center, 10, rect)
	if !ok {
		t.Fatal("expected contact")
	}
	if normal.X <= 0 {
		t.Fatalf("expected outward normal pointing +X, got %+v", normal)
	}
	if mtv.X <= 0 {
		t.Fatalf("expected positive push-out along X, got %+v", mtv)
	}
}

func TestCircleVsRectCenterInside(t *testing.T) {
	rect := AABB{Min: simcore.Vec2{X: 0, Y: 0}, Max: simcore.Vec2{X: 100, Y: 40}}
	center := simcore.Vec2{X: 50, Y: 5}

	normal, _, ok := CircleVsRect(center, 10, rect)
	if !ok {
		t.Fatal("expected contact when center is inside rect")
	}
	if normal.Y >= 0 {
		t.Fatalf("expected push toward nearest edge (-Y, bottom), got %+v", normal)
	}
}

func TestCircleVsRectNoContact(t *testing.T) {
	rect := AABB{Min: simcore.Vec2{X: 0, Y: 0}, Max: simcore.Vec2{X: 100, Y: 100}}
	_, _, ok := CircleVsRect(simcore.Vec2{X: 500, Y: 500}, 10, rect)
	if ok {
		t.Fatal("expected no contact far from rect")
	}
}

package client

import (
	"math"
	"testing"
)

func TestOnPongComputesRTTAndOffset(t *testing.T) {
	var ts TimeSync
	// clientTime=0, now=1 (rtt=1.0), serverTime=0.5 (the midpoint, so
	// now-serverTime=0.5): one_way=(1.0-0.5)/2=0.25, offset=0.5-0.25=0.25.
	ts.OnPong(0.0, 0.5, 1.0)

	if math.Abs(ts.RTT()-1.0) > 1e-9 {
		t.Fatalf("expected RTT=1.0, got %v", ts.RTT())
	}
	if math.Abs(ts.Offset()-0.25) > 1e-9 {
		t.Fatalf("expected offset=0.25, got %v", ts.Offset())
	}
}

func TestSeedFromSnapshotOnlyAppliesOnce(t *testing.T) {
	var ts TimeSync
	ts.SeedFromSnapshot(100, 95)
	if ts.Offset() != 5 {
		t.Fatalf("expected seeded offset=5, got %v", ts.Offset())
	}

	ts.SeedFromSnapshot(200, 100)
	if ts.Offset() != 5 {
		t.Fatalf("expected seed to be a one-time fallback, offset changed to %v", ts.Offset())
	}
}

func TestRenderTimeAppliesOffsetAndDelay(t *testing.T) {
	var ts TimeSync
	ts.OnPong(0, 0, 0)
	got := ts.RenderTime(10, 0.05)
	if math.Abs(got-9.95) > 1e-9 {
		t.Fatalf("expected render_time=9.95, got %v", got)
	}
}

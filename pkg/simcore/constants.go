package simcore

import "time"

// Tunable constants for the simulation core. The grenade ballistics values
// (drag, restitution, damping, stop speed, sub-step size) are tuned for a
// soft bounce that settles within a couple of rebounds.
const (
	TickDT       = 0.015 // ~64Hz
	MoveSpeed    = 300.0
	PlayerSize   = 32.0
	HitboxRadius = 20.0
	MaxRayLen    = 800.0
	BulletSpeed  = 1000.0
	BulletTTL    = 0.8
	ShootDamage  = 20.0

	GrenadeRadius        = 10.0
	GrenadeSpeed         = 400.0
	GrenadeTimer         = 2.0
	GrenadeBlastRadius   = 200.0
	GrenadeBaseDamage    = 50.0
	GrenadeDamageCoeff   = 1.0
	GrenadeAirDragPerSec = 0.5
	GrenadeRestitution   = 0.6
	GrenadeBounceDamping = 0.8
	GrenadeStopSpeed     = 20.0
	GrenadeMaxStep       = 8.0
	GrenadeSeparationEps = 0.01
	GrenadeUsageCooldown = 2.0

	RespawnCooldown = 5.0
	TimeoutSecs     = 3.0
	InterpDelay     = 0.05

	SnapshotSyncHz = 10.0 // GrenadeSync broadcast sub-period
)

// PendingInputsCapacity bounds the client's ring of unacked inputs.
const PendingInputsCapacity = 256

// SnapshotBufferCapacity bounds the client's snapshot-interpolation ring.
const SnapshotBufferCapacity = 120

// SnapshotHistoryCapacity bounds the server's rewind ring. Sized for
// 2 * expected-max-RTT * tick-rate with a 500ms RTT budget at 64Hz.
const SnapshotHistoryCapacity = 64

// TickInterval is TickDT expressed as a time.Duration for use with time.Ticker.
const TickInterval = time.Duration(TickDT * float64(time.Second))

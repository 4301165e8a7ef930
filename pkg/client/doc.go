// Package client implements the player-facing half of the simulation core:
// local prediction and server reconciliation, snapshot interpolation for
// remote players, ping/pong time sync, and stateless mirrors of the
// server's one-shot effect messages (tracers, grenade mirrors, corpses).
//
// Like pkg/server, each piece owns its state exclusively and is driven once
// per client tick; nothing here takes a lock.
package client

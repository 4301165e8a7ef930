// Package server implements the authoritative tick loop: a single
// goroutine that drains the transport, advances player and grenade
// physics, resolves damage, manages connection lifecycle, and broadcasts
// the resulting world state once per tick.
//
// All mutable simulation state (players, grenades, pending inputs, applied
// sequence numbers, the respawn queue) is owned exclusively by the goroutine
// running Server.RunTick; nothing here needs a mutex.
package server

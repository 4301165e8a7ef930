package server

import (
	"sort"

	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

// playerRecord is the server's bookkeeping for one connected player, beyond
// the PlayerState the snapshot exposes.
type playerRecord struct {
	state     simcore.PlayerState
	lastHeard float64
	lastThrow float64 // simulation time of last accepted ThrowGrenade, -GrenadeUsageCooldown means never
}

// pendingDamage is one unresolved damage event produced by hit-scan or
// grenade detonation, applied during tick step 3.
type pendingDamage struct {
	target    uint64
	amount    float64
	source    uint64
	hasSource bool
}

// respawnTask schedules a player's re-insertion into the world.
type respawnTask struct {
	peerID uint64
	due    float64
}

// sortedPlayerIDs returns player ids in ascending order, used wherever
// iteration order is observable (tie-breaking, applied-input order).
func sortedPlayerIDs(players map[uint64]*playerRecord) []uint64 {
	ids := make([]uint64, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

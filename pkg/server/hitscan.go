package server

import (
	"sort"

	"github.com/cascad-cs2d/netcore/pkg/network"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

// handleShoot resolves a hit-scan shot: rewind to the shot's timestamp, test every
// candidate target along the ray, apply the line-of-sight raycast, and
// resolve the nearest eligible hit. A ShootFx is broadcast whether or not
// anything was hit so every client can render the tracer.
func (s *Server) handleShoot(shooter uint64, dir simcore.Vec2, timestamp float64) {
	shooterRec, ok := s.players[shooter]
	if !ok {
		return
	}

	rewound := s.history.InterpolateAt(timestamp)
	shooterPos := simcore.Vec2{X: shooterRec.state.X, Y: shooterRec.state.Y}
	if rewound != nil {
		if p, ok := rewound[shooter]; ok {
			shooterPos = simcore.Vec2{X: p.X, Y: p.Y}
		}
	}

	d := dir.Normalized()
	if d == (simcore.Vec2{}) {
		d = simcore.Vec2{X: 1}
	}

	type candidate struct {
		id   uint64
		proj float64
	}
	var hits []candidate

	for _, id := range sortedPlayerIDs(s.players) {
		if id == shooter {
			continue
		}
		targetPos := simcore.Vec2{X: s.players[id].state.X, Y: s.players[id].state.Y}
		if rewound != nil {
			if p, ok := rewound[id]; ok {
				targetPos = simcore.Vec2{X: p.X, Y: p.Y}
			}
		}

		toTarget := targetPos.Sub(shooterPos)
		proj := toTarget.Dot(d)
		if proj < 0 || proj > simcore.MaxRayLen {
			continue
		}
		closest := shooterPos.Add(d.Scale(proj))
		perp := targetPos.Sub(closest).Length()
		if perp > simcore.HitboxRadius {
			continue
		}
		hits = append(hits, candidate{id: id, proj: proj})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].proj != hits[j].proj {
			return hits[i].proj < hits[j].proj
		}
		return hits[i].id < hits[j].id
	})

	var hitTarget uint64
	var didHit bool
	for _, c := range hits {
		closest := shooterPos.Add(d.Scale(c.proj))
		dist := closest.Sub(shooterPos).Length()
		if t, blocked := s.world.Raycast(shooterPos, d, dist); blocked && t < dist {
			continue
		}
		hitTarget = c.id
		didHit = true
		break
	}

	if didHit {
		s.damageQueue = append(s.damageQueue, pendingDamage{
			target: hitTarget, amount: simcore.ShootDamage, source: shooter, hasSource: true,
		})
	}

	s.transport.Broadcast(network.MsgShootFx, network.ShootFxMsg{
		ShooterID: shooter,
		FromX:     float32(shooterPos.X), FromY: float32(shooterPos.Y),
		DirX: float32(d.X), DirY: float32(d.Y),
		Timestamp: timestamp,
	})
}

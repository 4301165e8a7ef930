package main

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cascad-cs2d/netcore/pkg/network"
)

func newTestGame(localID uint64) (*game, *network.MockClient) {
	mock := network.NewMockClient(localID)
	log := logrus.New().WithField("test", true)
	return newGame(log, mock, localID), mock
}

func TestHandleSnapshotReconcilesLocalPlayer(t *testing.T) {
	g, _ := newTestGame(1)
	g.predictor.Seed(g.predictor.Local())
	g.predictor.PredictInput(g.pollInput())

	g.handleSnapshot(network.SnapshotMsg{
		ServerTime: 1.0,
		Players: []network.PlayerSnapshot{
			{ID: 1, X: 10, Y: 20, HP: 90},
		},
		Acks: []network.AckEntry{{PlayerID: 1, Seq: 1}},
	})

	local := g.predictor.Local()
	if local.X != 10 || local.Y != 20 || local.HP != 90 {
		t.Fatalf("expected local player snapped to server pose, got %+v", local)
	}
}

func TestHandleSnapshotTracksRemotePlayers(t *testing.T) {
	g, _ := newTestGame(1)

	g.handleSnapshot(network.SnapshotMsg{
		ServerTime: 1.0,
		Players: []network.PlayerSnapshot{
			{ID: 1, X: 0, Y: 0},
			{ID: 2, X: 50, Y: 60},
		},
	})

	remote, ok := g.remote[2]
	if !ok {
		t.Fatal("expected remote player 2 to be tracked")
	}
	if remote.X != 50 || remote.Y != 60 {
		t.Fatalf("expected remote pose (50,60), got (%v,%v)", remote.X, remote.Y)
	}
	if _, ok := g.remote[1]; ok {
		t.Fatal("expected local player excluded from the remote map")
	}
}

func TestHandleInboundRoutesPong(t *testing.T) {
	g, _ := newTestGame(1)

	g.handleInbound(network.InboundMessage{Type: network.MsgPong, Msg: network.PongMsg{ClientTime: 0, ServerTime: 0.5}})

	// one_way = (rtt - (now - 0.5)) / 2 = 0.25, so offset = 0.5 - 0.25.
	if math.Abs(g.timesync.Offset()-0.25) > 1e-6 {
		t.Fatalf("expected the Pong to reach TimeSync (offset 0.25), got %v", g.timesync.Offset())
	}
}

func TestHandleInboundRoutesGrenadeLifecycle(t *testing.T) {
	g, _ := newTestGame(1)

	g.handleInbound(network.InboundMessage{Type: network.MsgGrenadeSpawn, Msg: network.GrenadeSpawnMsg{ID: 9, DirX: 1, Speed: 50}})
	if _, ok := g.effects.Grenades[9]; !ok {
		t.Fatal("expected grenade spawn to be mirrored")
	}

	g.handleInbound(network.InboundMessage{Type: network.MsgGrenadeDetonated, Msg: network.GrenadeDetonatedMsg{ID: 9}})
	if _, ok := g.effects.Grenades[9]; ok {
		t.Fatal("expected grenade mirror removed on detonation")
	}
}

//go:build !android && !ios
// +build !android,!ios

// Command client runs the desktop game client: an ebiten.Game whose Update
// drives the fixed-step prediction/reconciliation loop over a TCP connection
// to cmd/server, and whose Draw is a stub (sprite rendering is out of scope).
package main

import (
	"flag"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/cascad-cs2d/netcore/pkg/client"
	"github.com/cascad-cs2d/netcore/pkg/collision"
	"github.com/cascad-cs2d/netcore/pkg/logging"
	"github.com/cascad-cs2d/netcore/pkg/network"
	"github.com/cascad-cs2d/netcore/pkg/simcore"
)

var (
	serverAddr = flag.String("server", "localhost:7777", "Server address (host:port)")
	width      = flag.Int("width", 800, "Screen width")
	height     = flag.Int("height", 600, "Screen height")
)

// game implements ebiten.Game over the pkg/client simulation pieces.
type game struct {
	log *logrus.Entry

	transport network.ClientTransport
	localID   uint64

	predictor *client.Predictor
	snapshots *client.SnapshotBuffer
	timesync  client.TimeSync
	effects   *client.EffectsMirror

	remote   map[uint64]simcore.PlayerState
	lastPing time.Time
	start    time.Time
}

func newGame(log *logrus.Entry, transport network.ClientTransport, localID uint64) *game {
	world := collision.NewWorld(nil, simcore.Vec2{X: simcore.PlayerSize / 2, Y: simcore.PlayerSize / 2})
	return &game{
		log:       log,
		transport: transport,
		localID:   localID,
		predictor: client.NewPredictor(world, simcore.MoveSpeed, simcore.TickDT),
		snapshots: client.NewSnapshotBuffer(simcore.SnapshotBufferCapacity),
		effects:   client.NewEffectsMirror(world),
		remote:    make(map[uint64]simcore.PlayerState),
		start:     time.Now(),
	}
}

func (g *game) now() float64 { return time.Since(g.start).Seconds() }

func (g *game) Update() error {
	g.drainInbound()

	raw := g.pollInput()
	predicted := g.predictor.PredictInput(raw)
	if err := g.transport.Send(network.MsgInput, network.InputMsg{
		Seq:        predicted.Seq,
		Up:         raw.Up,
		Down:       raw.Down,
		Left:       raw.Left,
		Right:      raw.Right,
		Rotation:   float32(raw.Rotation),
		Stance:     uint8(raw.Stance),
		ClientTime: g.now(),
	}); err != nil {
		g.log.WithError(err).Debug("send input failed")
	}

	g.pollDiscreteActions()

	g.effects.Tick(simcore.TickDT)

	if time.Since(g.lastPing) > time.Second {
		g.lastPing = time.Now()
		if err := g.transport.Send(network.MsgPing, network.PingMsg{ClientTime: g.now()}); err != nil {
			g.log.WithError(err).Debug("send ping failed")
		}
	}

	return nil
}

// pollInput samples the current frame's input state. Rotation tracks mouse
// aim in the full game; left at zero here since aiming is driven by cursor
// position, which Draw (and therefore screen space) does not implement.
func (g *game) pollInput() simcore.InputState {
	return simcore.InputState{
		Up:    ebiten.IsKeyPressed(ebiten.KeyW),
		Down:  ebiten.IsKeyPressed(ebiten.KeyS),
		Left:  ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyD),
	}
}

// pollDiscreteActions sends the one-shot Shoot/ThrowGrenade messages on their
// triggering edge (mouse click, key press) rather than every frame the
// button is held, via ebiten/inpututil's JustPressed family.
func (g *game) pollDiscreteActions() {
	facing := g.predictor.Local().Rotation
	dir := simcore.Vec2{X: math.Cos(facing), Y: math.Sin(facing)}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if err := g.transport.Send(network.MsgShoot, network.ShootMsg{
			DirX: float32(dir.X), DirY: float32(dir.Y), Timestamp: g.now(),
		}); err != nil {
			g.log.WithError(err).Debug("send shoot failed")
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		if err := g.transport.Send(network.MsgThrowGrenade, network.ThrowGrenadeMsg{
			DirX: float32(dir.X), DirY: float32(dir.Y),
		}); err != nil {
			g.log.WithError(err).Debug("send throw grenade failed")
		}
	}
}

func (g *game) drainInbound() {
	for {
		select {
		case in, ok := <-g.transport.Inbound():
			if !ok {
				return
			}
			g.handleInbound(in)
		default:
			return
		}
	}
}

func (g *game) handleInbound(in network.InboundMessage) {
	switch msg := in.Msg.(type) {
	case network.SnapshotMsg:
		g.handleSnapshot(msg)
	case network.ShootFxMsg:
		g.effects.HandleShootFx(msg)
	case network.GrenadeSpawnMsg:
		g.effects.HandleGrenadeSpawn(msg, g.now())
	case network.GrenadeSyncMsg:
		g.effects.HandleGrenadeSync(msg)
	case network.GrenadeDetonatedMsg:
		g.effects.HandleGrenadeDetonated(msg)
	case network.PlayerDiedMsg:
		if last, ok := g.remote[msg.Victim]; ok {
			g.effects.HandlePlayerDied(msg.Victim, last)
		}
	case network.PlayerDamagedMsg:
		g.effects.HandlePlayerDamaged(msg)
	case network.PongMsg:
		g.timesync.OnPong(msg.ClientTime, msg.ServerTime, g.now())
	}
}

func (g *game) handleSnapshot(msg network.SnapshotMsg) {
	g.timesync.SeedFromSnapshot(g.now(), msg.ServerTime)

	snap := client.Snapshot{ServerTime: msg.ServerTime, Players: make(map[uint64]simcore.PlayerState, len(msg.Players))}
	for _, p := range msg.Players {
		state := simcore.PlayerState{X: float64(p.X), Y: float64(p.Y), Rotation: float64(p.Rotation), Stance: simcore.Stance(p.Stance), HP: int(p.HP)}
		snap.Players[p.ID] = state
		if p.ID != g.localID {
			g.remote[p.ID] = state
		}
	}
	g.snapshots.Push(snap)

	for _, ack := range msg.Acks {
		if ack.PlayerID != g.localID {
			continue
		}
		if local, ok := snap.Players[g.localID]; ok {
			g.predictor.Reconcile(local, ack.Seq)
		}
	}
}

func (g *game) Draw(screen *ebiten.Image) {}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return *width, *height
}

func main() {
	flag.Parse()

	log := logging.NewLoggerFromEnv().WithField("component", "client")

	cfg := network.DefaultClientConfig()
	cfg.ServerAddress = *serverAddr
	transport := network.NewClient(cfg)

	localID, err := transport.Connect()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to server")
	}
	defer transport.Disconnect()

	go func() {
		for err := range transport.Errors() {
			log.WithError(err).Debug("transport error")
		}
	}()

	log.WithField("peerID", localID).Info("connected to server")

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("netcore client")

	g := newGame(log, transport, localID)
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Fatal("game loop exited")
	}
}

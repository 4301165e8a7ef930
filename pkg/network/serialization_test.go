package network

import "testing"

func TestChannelOf(t *testing.T) {
	tests := []struct {
		msg  MessageType
		want Channel
	}{
		{MsgInput, ChannelC2S},
		{MsgShoot, ChannelC2S},
		{MsgThrowGrenade, ChannelC2S},
		{MsgPing, ChannelC2S},
		{MsgHeartbeat, ChannelC2S},
		{MsgGoodbye, ChannelC2S},
		{MsgSnapshot, ChannelS2C},
		{MsgShootFx, ChannelS2C},
		{MsgGrenadeSpawn, ChannelS2C},
		{MsgGrenadeSync, ChannelS2C},
		{MsgGrenadeDetonated, ChannelS2C},
		{MsgPlayerConnected, ChannelS2C},
		{MsgPlayerRespawn, ChannelS2C},
		{MsgPlayerDisconnected, ChannelS2C},
		{MsgPlayerDamaged, ChannelS2C},
		{MsgPlayerDied, ChannelS2C},
		{MsgPong, ChannelS2C},
	}

	for _, tc := range tests {
		got, ok := ChannelOf(tc.msg)
		if !ok {
			t.Fatalf("ChannelOf(%v): expected ok", tc.msg)
		}
		if got != tc.want {
			t.Errorf("ChannelOf(%v) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}

func TestRoundTripC2S(t *testing.T) {
	cases := []struct {
		name string
		typ  MessageType
		msg  interface{}
	}{
		{"Input", MsgInput, InputMsg{Seq: 42, Up: true, Left: true, Rotation: 1.5, Stance: 1, ClientTime: 12.5}},
		{"Shoot", MsgShoot, ShootMsg{DirX: 1, DirY: 0, Timestamp: 10.25}},
		{"ThrowGrenade", MsgThrowGrenade, ThrowGrenadeMsg{DirX: 0.7, DirY: 0.7}},
		{"Ping", MsgPing, PingMsg{ClientTime: 99.9}},
		{"Heartbeat", MsgHeartbeat, HeartbeatMsg{}},
		{"Goodbye", MsgGoodbye, GoodbyeMsg{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := EncodeMessage(tc.typ, tc.msg)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			typ, decoded, err := DecodeMessage(ChannelC2S, data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if typ != tc.typ {
				t.Fatalf("type = %v, want %v", typ, tc.typ)
			}
			if decoded != tc.msg {
				t.Fatalf("decoded = %+v, want %+v", decoded, tc.msg)
			}
		})
	}
}

func TestRoundTripS2C(t *testing.T) {
	cases := []struct {
		name string
		typ  MessageType
		msg  interface{}
	}{
		{"ShootFx", MsgShootFx, ShootFxMsg{ShooterID: 3, FromX: 1, FromY: 2, DirX: 0, DirY: 1, Timestamp: 5}},
		{"GrenadeSpawn", MsgGrenadeSpawn, GrenadeSpawnMsg{ID: 7, X: 1, Y: 2, DirX: 1, DirY: 0, Speed: 400}},
		{"GrenadeSync", MsgGrenadeSync, GrenadeSyncMsg{ID: 7, X: 10, Y: 20, VelX: 5, VelY: -5, Timestamp: 6}},
		{"GrenadeDetonated", MsgGrenadeDetonated, GrenadeDetonatedMsg{ID: 7, X: 30, Y: 40}},
		{"PlayerConnected", MsgPlayerConnected, PlayerConnectedMsg{ID: 1, X: 0, Y: 0}},
		{"PlayerRespawn", MsgPlayerRespawn, PlayerRespawnMsg{ID: 1, X: 5, Y: 5}},
		{"PlayerDisconnected", MsgPlayerDisconnected, PlayerDisconnectedMsg{ID: 1}},
		{"PlayerDamaged", MsgPlayerDamaged, PlayerDamagedMsg{ID: 1, NewHP: 80, Damage: 20}},
		{"PlayerDiedNoKiller", MsgPlayerDied, PlayerDiedMsg{Victim: 1}},
		{"PlayerDiedWithKiller", MsgPlayerDied, PlayerDiedMsg{Victim: 1, HasKiller: true, Killer: 2}},
		{"Pong", MsgPong, PongMsg{ClientTime: 1.5, ServerTime: 1.6}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := EncodeMessage(tc.typ, tc.msg)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			typ, decoded, err := DecodeMessage(ChannelS2C, data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if typ != tc.typ {
				t.Fatalf("type = %v, want %v", typ, tc.typ)
			}
			if decoded != tc.msg {
				t.Fatalf("decoded = %+v, want %+v", decoded, tc.msg)
			}
		})
	}
}

func TestRoundTripSnapshot(t *testing.T) {
	msg := SnapshotMsg{
		ServerTime: 123.456,
		Players: []PlayerSnapshot{
			{ID: 1, X: 10, Y: 20, Rotation: 0.5, Stance: 0, HP: 100},
			{ID: 2, X: -5, Y: 30, Rotation: 3.0, Stance: 2, HP: 40},
		},
		Acks: []AckEntry{
			{PlayerID: 1, Seq: 10},
			{PlayerID: 2, Seq: 20},
		},
	}

	data, err := EncodeMessage(MsgSnapshot, msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	typ, decoded, err := DecodeMessage(ChannelS2C, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if typ != MsgSnapshot {
		t.Fatalf("type = %v, want MsgSnapshot", typ)
	}
	got, ok := decoded.(SnapshotMsg)
	if !ok {
		t.Fatalf("decoded type %T, want SnapshotMsg", decoded)
	}
	if got.ServerTime != msg.ServerTime || len(got.Players) != len(msg.Players) || len(got.Acks) != len(msg.Acks) {
		t.Fatalf("decoded = %+v, want %+v", got, msg)
	}
	for i := range msg.Players {
		if got.Players[i] != msg.Players[i] {
			t.Errorf("player %d = %+v, want %+v", i, got.Players[i], msg.Players[i])
		}
	}
	for i := range msg.Acks {
		if got.Acks[i] != msg.Acks[i] {
			t.Errorf("ack %d = %+v, want %+v", i, got.Acks[i], msg.Acks[i])
		}
	}
}

func TestDecodeWrongChannelRejected(t *testing.T) {
	data, err := EncodeMessage(MsgInput, InputMsg{Seq: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, _, err := DecodeMessage(ChannelS2C, data); err != ErrWrongChannel {
		t.Fatalf("expected ErrWrongChannel, got %v", err)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	if _, _, err := DecodeMessage(ChannelC2S, []byte{0xFF}); err != ErrUnknownMessageType {
		t.Fatalf("expected ErrUnknownMessageType, got %v", err)
	}
}

func TestDecodeEmptyFrame(t *testing.T) {
	if _, _, err := DecodeMessage(ChannelC2S, nil); err == nil {
		t.Fatal("expected error for empty frame")
	}
}

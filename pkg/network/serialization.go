package network

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeMessage serializes msg (one of the MsgX structs in protocol.go) into
// a tagged binary frame: one byte for the message type followed by the
// variant's fixed-size binary.Write layout. The returned frame does not
// include the channel byte or length prefix added by the transport.
func EncodeMessage(t MessageType, msg interface{}) ([]byte, error) {
	bufPtr := AcquireBuffer()
	defer ReleaseBuffer(bufPtr)

	buf := bytes.NewBuffer(*bufPtr)
	buf.WriteByte(byte(t))

	var err error
	switch m := msg.(type) {
	case InputMsg:
		err = writeFields(buf, m.Seq, m.Up, m.Down, m.Left, m.Right, m.Rotation, m.Stance, m.ClientTime)
	case ShootMsg:
		err = writeFields(buf, m.DirX, m.DirY, m.Timestamp)
	case ThrowGrenadeMsg:
		err = writeFields(buf, m.DirX, m.DirY)
	case PingMsg:
		err = writeFields(buf, m.ClientTime)
	case HeartbeatMsg:
		// no payload
	case GoodbyeMsg:
		// no payload
	case SnapshotMsg:
		err = encodeSnapshot(buf, m)
	case ShootFxMsg:
		err = writeFields(buf, m.ShooterID, m.FromX, m.FromY, m.DirX, m.DirY, m.Timestamp)
	case GrenadeSpawnMsg:
		err = writeFields(buf, m.ID, m.X, m.Y, m.DirX, m.DirY, m.Speed)
	case GrenadeSyncMsg:
		err = writeFields(buf, m.ID, m.X, m.Y, m.VelX, m.VelY, m.Timestamp)
	case GrenadeDetonatedMsg:
		err = writeFields(buf, m.ID, m.X, m.Y)
	case PlayerConnectedMsg:
		err = writeFields(buf, m.ID, m.X, m.Y)
	case PlayerRespawnMsg:
		err = writeFields(buf, m.ID, m.X, m.Y)
	case PlayerDisconnectedMsg:
		err = writeFields(buf, m.ID)
	case PlayerDamagedMsg:
		err = writeFields(buf, m.ID, m.NewHP, m.Damage)
	case PlayerDiedMsg:
		err = writeFields(buf, m.Victim, m.HasKiller, m.Killer)
	case PongMsg:
		err = writeFields(buf, m.ClientTime, m.ServerTime)
	default:
		return nil, fmt.Errorf("network: encode: unsupported message %T", msg)
	}
	if err != nil {
		return nil, fmt.Errorf("network: encode %v: %w", t, err)
	}

	if buf.Len() > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	// Hand the (possibly grown) backing array back to the pool and copy
	// out a fresh slice, since the caller may retain the returned frame
	// past the next AcquireBuffer reusing this one.
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	*bufPtr = buf.Bytes()
	return out, nil
}

func encodeSnapshot(buf *bytes.Buffer, m SnapshotMsg) error {
	if err := writeFields(buf, m.ServerTime, uint16(len(m.Players))); err != nil {
		return err
	}
	for _, p := range m.Players {
		if err := writeFields(buf, p.ID, p.X, p.Y, p.Rotation, p.Stance, p.HP); err != nil {
			return err
		}
	}
	if err := writeFields(buf, uint16(len(m.Acks))); err != nil {
		return err
	}
	for _, a := range m.Acks {
		if err := writeFields(buf, a.PlayerID, a.Seq); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMessage decodes data (the frame after the channel byte, which the
// transport framer has already read and passes in as channel) by
// dispatching on the message type byte, returning the type and variant
// value. A message decoded on a channel that ChannelOf does not agree with
// returns ErrWrongChannel.
func DecodeMessage(channel Channel, data []byte) (MessageType, interface{}, error) {
	if len(data) < 1 {
		return 0, nil, fmt.Errorf("network: decode: empty frame")
	}
	t := MessageType(data[0])
	want, ok := ChannelOf(t)
	if !ok {
		return 0, nil, ErrUnknownMessageType
	}
	if want != channel {
		return t, nil, ErrWrongChannel
	}

	r := bytes.NewReader(data[1:])
	var (
		msg interface{}
		err error
	)

	switch t {
	case MsgInput:
		var m InputMsg
		err = readFields(r, &m.Seq, &m.Up, &m.Down, &m.Left, &m.Right, &m.Rotation, &m.Stance, &m.ClientTime)
		msg = m
	case MsgShoot:
		var m ShootMsg
		err = readFields(r, &m.DirX, &m.DirY, &m.Timestamp)
		msg = m
	case MsgThrowGrenade:
		var m ThrowGrenadeMsg
		err = readFields(r, &m.DirX, &m.DirY)
		msg = m
	case MsgPing:
		var m PingMsg
		err = readFields(r, &m.ClientTime)
		msg = m
	case MsgHeartbeat:
		msg = HeartbeatMsg{}
	case MsgGoodbye:
		msg = GoodbyeMsg{}
	case MsgSnapshot:
		msg, err = decodeSnapshot(r)
	case MsgShootFx:
		var m ShootFxMsg
		err = readFields(r, &m.ShooterID, &m.FromX, &m.FromY, &m.DirX, &m.DirY, &m.Timestamp)
		msg = m
	case MsgGrenadeSpawn:
		var m GrenadeSpawnMsg
		err = readFields(r, &m.ID, &m.X, &m.Y, &m.DirX, &m.DirY, &m.Speed)
		msg = m
	case MsgGrenadeSync:
		var m GrenadeSyncMsg
		err = readFields(r, &m.ID, &m.X, &m.Y, &m.VelX, &m.VelY, &m.Timestamp)
		msg = m
	case MsgGrenadeDetonated:
		var m GrenadeDetonatedMsg
		err = readFields(r, &m.ID, &m.X, &m.Y)
		msg = m
	case MsgPlayerConnected:
		var m PlayerConnectedMsg
		err = readFields(r, &m.ID, &m.X, &m.Y)
		msg = m
	case MsgPlayerRespawn:
		var m PlayerRespawnMsg
		err = readFields(r, &m.ID, &m.X, &m.Y)
		msg = m
	case MsgPlayerDisconnected:
		var m PlayerDisconnectedMsg
		err = readFields(r, &m.ID)
		msg = m
	case MsgPlayerDamaged:
		var m PlayerDamagedMsg
		err = readFields(r, &m.ID, &m.NewHP, &m.Damage)
		msg = m
	case MsgPlayerDied:
		var m PlayerDiedMsg
		err = readFields(r, &m.Victim, &m.HasKiller, &m.Killer)
		msg = m
	case MsgPong:
		var m PongMsg
		err = readFields(r, &m.ClientTime, &m.ServerTime)
		msg = m
	default:
		return 0, nil, ErrUnknownMessageType
	}
	if err != nil {
		return t, nil, fmt.Errorf("network: decode %v: %w", t, err)
	}
	return t, msg, nil
}

func decodeSnapshot(r *bytes.Reader) (SnapshotMsg, error) {
	var m SnapshotMsg
	var playerCount uint16
	if err := readFields(r, &m.ServerTime, &playerCount); err != nil {
		return m, err
	}
	m.Players = make([]PlayerSnapshot, playerCount)
	for i := range m.Players {
		if err := readFields(r, &m.Players[i].ID, &m.Players[i].X, &m.Players[i].Y,
			&m.Players[i].Rotation, &m.Players[i].Stance, &m.Players[i].HP); err != nil {
			return m, err
		}
	}
	var ackCount uint16
	if err := readFields(r, &ackCount); err != nil {
		return m, err
	}
	m.Acks = make([]AckEntry, ackCount)
	for i := range m.Acks {
		if err := readFields(r, &m.Acks[i].PlayerID, &m.Acks[i].Seq); err != nil {
			return m, err
		}
	}
	return m, nil
}

// writeFields writes each value in order with binary.Write, stopping at the
// first error.
func writeFields(buf *bytes.Buffer, values ...interface{}) error {
	for _, v := range values {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// readFields reads into each pointer in order with binary.Read, stopping at
// the first error.
func readFields(r *bytes.Reader, ptrs ...interface{}) error {
	for _, p := range ptrs {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return err
		}
	}
	return nil
}

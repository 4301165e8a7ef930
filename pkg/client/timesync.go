package client

// TimeSync tracks the client's best estimate of round-trip time and the
// server-minus-client clock offset, refreshed by every completed ping/pong
// exchange. The two clocks run on different epochs; the offset is what lets
// the client place server timestamps on its own timeline.
type TimeSync struct {
	rtt    float64
	offset float64
	seeded bool
}

// SeedFromSnapshot seeds the offset from the very first snapshot, before
// any Pong has been received, as offset = now - server_time.
func (ts *TimeSync) SeedFromSnapshot(now, serverTime float64) {
	if ts.seeded {
		return
	}
	ts.offset = now - serverTime
	ts.seeded = true
}

// OnPong updates RTT and offset from a completed ping/pong round trip, given
// the client clock at send time (clientTime), the client clock at receipt
// (now), and the server's echoed clock (serverTime).
func (ts *TimeSync) OnPong(clientTime, serverTime, now float64) {
	rtt := now - clientTime
	if rtt < 0 {
		rtt = 0
	}
	oneWay := (rtt - (now - serverTime)) / 2
	ts.rtt = rtt
	ts.offset = serverTime - (clientTime + oneWay)
	ts.seeded = true
}

// RTT returns the current round-trip-time estimate in seconds.
func (ts *TimeSync) RTT() float64 { return ts.rtt }

// Offset returns the current server-minus-client clock offset in seconds.
func (ts *TimeSync) Offset() float64 { return ts.offset }

// RenderTime computes the delayed render time:
// now_local - offset - interp_delay.
func (ts *TimeSync) RenderTime(nowLocal, interpDelay float64) float64 {
	return nowLocal - ts.offset - interpDelay
}

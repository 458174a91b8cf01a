package netplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMachine is a deterministic stand-in for the real Machine: its
// state is just a running counter of which inputs it has seen, so
// tests can assert rewind-and-replay produces the same counter as an
// equivalent non-speculative run.
type fakeMachine struct {
	frame   uint32
	history []uint8
}

func (m *fakeMachine) RunFrame(buttons [MaxPlayers]uint8) {
	m.frame++
	m.history = append(m.history, buttons[0]+buttons[1])
}

func (m *fakeMachine) SaveSnapshot() []byte {
	out := make([]byte, 4+len(m.history))
	out[0] = byte(m.frame)
	out[1] = byte(m.frame >> 8)
	out[2] = byte(m.frame >> 16)
	out[3] = byte(m.frame >> 24)
	copy(out[4:], m.history)
	return out
}

func (m *fakeMachine) LoadSnapshot(data []byte) error {
	m.frame = uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	m.history = append([]uint8{}, data[4:]...)
	return nil
}

func (m *fakeMachine) SetMuted(bool) {}

func TestSnapshotPoolReusesBuffers(t *testing.T) {
	var pool snapshotPool
	a := pool.get(16)
	pool.put(a)
	b := pool.get(16)
	assert.Equal(t, &a[0], &b[0])
}

func TestSnapshotPoolAllocatesWhenEmpty(t *testing.T) {
	var pool snapshotPool
	b := pool.get(32)
	assert.Len(t, b, 32)
}

func TestRollbackAdvanceFrameFillsRing(t *testing.T) {
	m := &fakeMachine{}
	r := NewRollback(m, 1, 1, 8, nil)
	local := r.AddPlayer(PeerLocal, 0, invalidPeer)

	for i := 0; i < 3; i++ {
		r.AddLocalInput(local, uint8(i), func(PeerHandle, []byte) {})
		inputs, _ := r.SynchronizeInput()
		m.RunFrame(inputs)
		r.AdvanceFrame()
	}

	assert.Equal(t, uint32(3), r.CurrentFrame())
	_, ok := r.ChecksumFor(2)
	assert.True(t, ok)
}

func TestRollbackRewindReplaysToSameState(t *testing.T) {
	m := &fakeMachine{}
	r := NewRollback(m, 2, 1, 8, nil)
	local := r.AddPlayer(PeerLocal, 0, invalidPeer)
	r.AddPlayer(PeerRemote, 1, PeerHandle(1))

	// Frames 0-2: local plays, remote's input is only predicted (not
	// yet known) as zero.
	for i := 0; i < 3; i++ {
		r.AddLocalInput(local, uint8(i+1), func(PeerHandle, []byte) {})
		inputs, _ := r.SynchronizeInput()
		m.RunFrame(inputs)
		r.AdvanceFrame()
	}
	speculative := append([]uint8{}, m.history...)

	// The remote's real input for frame 1 disagrees with the
	// predicted zero, forcing a rewind-and-replay from frame 1.
	err := r.HandlePacket(PeerHandle(1), []byte{byte(gameplayInput), 1, 0, 0, 0, 9})
	require.NoError(t, err)

	assert.Equal(t, uint32(3), r.CurrentFrame())
	assert.NotEqual(t, speculative[1], m.history[1])
	assert.Equal(t, uint8(9+2), m.history[1]) // local input at frame 1 was 2
}

func TestRollbackCanAdvanceStallsAtPredictionWindow(t *testing.T) {
	m := &fakeMachine{}
	r := NewRollback(m, 2, 1, 3, nil)
	local := r.AddPlayer(PeerLocal, 0, invalidPeer)
	r.AddPlayer(PeerRemote, 1, PeerHandle(1))

	// The remote never confirms a single frame, so confirmedFrame
	// never moves off 0: after maxRollback speculative frames the
	// engine must stall rather than let AdvanceFrame overwrite a ring
	// slot a future rewind still needs.
	for i := 0; i < 3; i++ {
		require.True(t, r.CanAdvance())
		r.AddLocalInput(local, uint8(i), func(PeerHandle, []byte) {})
		inputs, _ := r.SynchronizeInput()
		m.RunFrame(inputs)
		r.AdvanceFrame()
	}

	assert.False(t, r.CanAdvance())
}

func TestRollbackAdvanceFrameRaisesTimeSyncWhenRemoteLags(t *testing.T) {
	m := &fakeMachine{}
	r := NewRollback(m, 2, 1, 8, nil)
	local := r.AddPlayer(PeerLocal, 0, invalidPeer)
	r.AddPlayer(PeerRemote, 1, PeerHandle(1))

	var events []RollbackEvent
	r.OnEvent = func(e RollbackEvent) { events = append(events, e) }

	// Confirm the remote's input for frame 0 only, then speculate
	// timeSyncPeriod frames past it without another confirmation.
	require.NoError(t, r.HandlePacket(PeerHandle(1), []byte{byte(gameplayInput), 0, 0, 0, 0, 1}))

	for i := 0; i < timeSyncPeriod; i++ {
		r.AddLocalInput(local, 0, func(PeerHandle, []byte) {})
		inputs, _ := r.SynchronizeInput()
		m.RunFrame(inputs)
		r.AdvanceFrame()
	}

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, EventTimeSync, last.Kind)
	assert.Equal(t, timeSyncPeriod, last.PeriodInFrames)
	assert.Greater(t, last.FramesAhead, 0)
}

func TestRollbackHandlePacketRejectsUnknownPeer(t *testing.T) {
	m := &fakeMachine{}
	r := NewRollback(m, 1, 1, 8, nil)
	r.AddPlayer(PeerLocal, 0, invalidPeer)

	err := r.HandlePacket(PeerHandle(99), []byte{byte(gameplayInput), 0, 0, 0, 0, 1})
	assert.Error(t, err)
}

func TestRollbackObserveRemoteChecksumRaisesDesyncOnMismatch(t *testing.T) {
	m := &fakeMachine{}
	r := NewRollback(m, 1, 1, 8, nil)
	local := r.AddPlayer(PeerLocal, 0, invalidPeer)

	r.AddLocalInput(local, 1, func(PeerHandle, []byte) {})
	inputs, _ := r.SynchronizeInput()
	m.RunFrame(inputs)
	r.AdvanceFrame()

	var got *RollbackEvent
	r.OnEvent = func(e RollbackEvent) { got = &e }

	ours, ok := r.ChecksumFor(0)
	require.True(t, ok)
	r.ObserveRemoteChecksum(0, ours+1)

	require.NotNil(t, got)
	assert.Equal(t, EventDesync, got.Kind)
}

func TestRollbackObserveRemoteChecksumSilentOnMatch(t *testing.T) {
	m := &fakeMachine{}
	r := NewRollback(m, 1, 1, 8, nil)
	local := r.AddPlayer(PeerLocal, 0, invalidPeer)

	r.AddLocalInput(local, 1, func(PeerHandle, []byte) {})
	inputs, _ := r.SynchronizeInput()
	m.RunFrame(inputs)
	r.AdvanceFrame()

	called := false
	r.OnEvent = func(e RollbackEvent) { called = true }

	ours, ok := r.ChecksumFor(0)
	require.True(t, ok)
	r.ObserveRemoteChecksum(0, ours)

	assert.False(t, called)
}

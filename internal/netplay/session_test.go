package netplay

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a scripted stand-in for Transport: Poll drains a
// queue of pre-seeded events, one per call, and every outbound call
// is recorded so a test can assert on wire order without a real
// socket on either end.
type fakeTransport struct {
	queue []Event

	sent         []sentPacket
	broadcasts   [][]byte
	dialed       []string
	disconnected []PeerHandle
	nextPeer     PeerHandle
}

type sentPacket struct {
	peer     PeerHandle
	channel  Channel
	data     []byte
	reliable bool
}

func (f *fakeTransport) Start(localPort int, maxPeers int) error { return nil }

func (f *fakeTransport) Dial(address string) (PeerHandle, error) {
	f.dialed = append(f.dialed, address)
	f.nextPeer++
	return f.nextPeer, nil
}

func (f *fakeTransport) Send(peer PeerHandle, channel Channel, data []byte, reliable bool) error {
	f.sent = append(f.sent, sentPacket{peer, channel, data, reliable})
	return nil
}

func (f *fakeTransport) Broadcast(channel Channel, data []byte) error {
	f.broadcasts = append(f.broadcasts, data)
	return nil
}

func (f *fakeTransport) Poll(deadline time.Time) Event {
	if len(f.queue) == 0 {
		return Event{Kind: EventNone}
	}
	e := f.queue[0]
	f.queue = f.queue[1:]
	return e
}

func (f *fakeTransport) Disconnect(peer PeerHandle, graceful bool) error {
	f.disconnected = append(f.disconnected, peer)
	return nil
}

func (f *fakeTransport) Reset(peer PeerHandle) error { return nil }

func (f *fakeTransport) PeerAddress(peer PeerHandle) (net.Addr, bool) { return nil, false }

func (f *fakeTransport) Close() error { return nil }

// fakeHost records every callback it receives instead of touching a
// GUI layer.
type fakeHost struct {
	messages []string
	errors   []string
}

func (h *fakeHost) OnNetplayMessage(text string)                    { h.messages = append(h.messages, text) }
func (h *fakeHost) DisplayLoadingScreen(text string, progress *int) {}
func (h *fakeHost) PumpMessagesOnCPUThread()                        {}
func (h *fakeHost) ReportErrorAsync(title, message string)          { h.errors = append(h.errors, message) }
func (h *fakeHost) SetNetplaySettingsLayer(overlay *SettingsOverlay) {}

type fakeInput struct{}

func (fakeInput) Sample(slot, binding int) float64 { return 0 }

func newTestSession(transport *fakeTransport) (*Session, *fakeHost) {
	host := &fakeHost{}
	s := NewSession(&fakeMachine{}, host, fakeInput{}, transport, time.Second/60, nil)
	return s, host
}

func TestCreateSessionReachesRunningAlone(t *testing.T) {
	transport := &fakeTransport{}
	s, _ := newTestSession(transport)

	ok := s.CreateSession("host", 37000, MaxPlayers, "")
	require.True(t, ok)

	assert.Equal(t, Running, s.state)
	assert.Equal(t, 1, s.roster.NumPlayers)
	assert.True(t, s.roster.Complete())
	assert.Equal(t, PlayerID(0), s.localID)
}

// TestJoinHandshakeMessageOrder drives a joiner through
// Connect -> Reset -> Resume by hand-feeding the packets a host would
// send, and asserts the joiner answers each one in order: a reliable
// ConnectRequest up front, then a ResetComplete once it has adopted
// the host's roster and snapshot.
func TestJoinHandshakeMessageOrder(t *testing.T) {
	transport := &fakeTransport{}
	s, host := newTestSession(transport)

	ok := s.JoinSession("joiner", "10.0.0.1", 37000, "")
	require.True(t, ok)
	assert.Equal(t, Connecting, s.state)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, MsgConnectRequest, mustDecodeType(t, transport.sent[0].data))
	assert.True(t, transport.sent[0].reliable)

	hostPeer := s.hostPeer
	respRaw, _ := Encode(ConnectResponse{Result: ConnectSuccess, PlayerID: 1})
	transport.queue = append(transport.queue, Event{Kind: EventReceived, Peer: hostPeer, Channel: ChannelControl, Data: respRaw})
	s.stepConnecting()

	assert.Equal(t, Resetting, s.state)
	assert.Equal(t, PlayerID(1), s.localID)

	reset := Reset{Cookie: 1, NumPlayers: 2}
	reset.Players[0] = PlayerEntry{ControllerPort: 0, Nickname: "host"}
	reset.Players[1] = PlayerEntry{ControllerPort: 1, Nickname: "joiner"}
	resetRaw, _ := Encode(reset)
	transport.queue = append(transport.queue, Event{Kind: EventReceived, Peer: hostPeer, Channel: ChannelControl, Data: resetRaw})
	s.stepResetting()

	require.Len(t, transport.sent, 2)
	assert.Equal(t, MsgResetComplete, mustDecodeType(t, transport.sent[1].data))
	assert.Equal(t, Resetting, s.state)

	resumeRaw, _ := Encode(ResumeSession{})
	transport.queue = append(transport.queue, Event{Kind: EventReceived, Peer: hostPeer, Channel: ChannelControl, Data: resumeRaw})
	s.stepResetting()

	assert.Equal(t, Running, s.state)
	assert.Contains(t, host.messages, "session resynchronized")
}

func mustDecodeType(t *testing.T, raw []byte) MessageType {
	typ, _, err := Decode(raw)
	require.NoError(t, err)
	return typ
}

func TestStepConnectingRetriesThenTimesOut(t *testing.T) {
	transport := &fakeTransport{}
	s, _ := newTestSession(transport)

	require.True(t, s.JoinSession("joiner", "10.0.0.1", 37000, ""))
	require.Len(t, transport.dialed, 1)

	retryInterval := MaxConnectTime / time.Duration(MaxConnectRetries+1)
	s.connectAttemptAt = time.Now().Add(-retryInterval - time.Millisecond)
	s.stepConnecting()

	assert.Equal(t, 1, s.connectRetries)
	assert.Len(t, transport.dialed, 2)

	s.connectDeadline = time.Now().Add(-time.Millisecond)
	s.stepConnecting()

	assert.Equal(t, ClosingSession, s.state)
	assert.ErrorIs(t, s.closeErr, ErrConnectTimeout)
}

func TestHandleResetRejectsImpossiblePlayerCount(t *testing.T) {
	transport := &fakeTransport{}
	s, _ := newTestSession(transport)
	s.role = RoleJoiner
	s.state = Connecting

	s.handleReset(PeerHandle(1), Reset{Cookie: 1, NumPlayers: MaxPlayers + 1})

	assert.Equal(t, Connecting, s.state)
	assert.Empty(t, transport.sent)
}

func TestHandleControlDropsMalformedPacketWithoutPanicking(t *testing.T) {
	transport := &fakeTransport{}
	s, _ := newTestSession(transport)
	s.role = RoleHost
	s.state = Running

	assert.NotPanics(t, func() {
		s.handleControl(PeerHandle(1), []byte{0xff, 0xff})
	})
	assert.Equal(t, Running, s.state)
}

func TestHostDropsStragglerAfterResyncTimeout(t *testing.T) {
	transport := &fakeTransport{}
	s, _ := newTestSession(transport)
	require.True(t, s.CreateSession("host", 37000, MaxPlayers, ""))

	s.roster.Occupy(1, "joiner", "", PeerHandle(9))
	s.roster.ResetAcks()
	s.roster.ResetPlayers[0] = true
	s.state = Resetting
	s.resetDeadline = time.Now().Add(-time.Millisecond)

	s.stepResetting()

	assert.False(t, s.roster.Slots[1].Occupied)
	assert.Contains(t, transport.disconnected, PeerHandle(9))
}

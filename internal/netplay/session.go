package netplay

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Session owns every piece of process-wide netplay state: the state
// machine, roster, Transport, Rollback Engine and Pacer. It is
// created by NewSession and started by CreateSession or JoinSession; ExecuteNetplay
// is the outer loop method that drives it to completion.
type Session struct {
	log *logrus.Logger

	state SessionState
	role  Role

	localID      PlayerID
	nickname     string
	password     string
	roster       Roster
	resetCookie  uint32

	transport Transport
	hostPeer  PeerHandle // joiner's connection to the host
	hostAddr  string
	hostPort  int

	rollback *Rollback
	pacer    *Pacer
	machine  Machine
	host     Host
	input    InputProvider

	connectDeadline time.Time
	connectRetries  int
	connectAttemptAt time.Time

	resetDeadline time.Time
	closeDeadline time.Time
	closeErr      error

	muted bool
}

// NewSession constructs an Inactive session ready for CreateSession or
// JoinSession. nominalFramePeriod is the Machine's native frame
// duration, e.g. time.Second/60.
func NewSession(machine Machine, host Host, input InputProvider, transport Transport, nominalFramePeriod time.Duration, log *logrus.Logger) *Session {
	if log == nil {
		log = logrus.New()
	}
	return &Session{
		log:       log,
		state:     Inactive,
		machine:   machine,
		host:      host,
		input:     input,
		transport: transport,
		pacer:     NewPacer(nominalFramePeriod),
		localID:   NoPlayer,
	}
}

func (s *Session) IsActive() bool { return s.state != Inactive }
func (s *Session) IsHost() bool   { return s.role == RoleHost }

// GetPing reports round-trip time to the host peer. Transport does
// not currently surface per-peer RTT (see DESIGN.md), so this is a
// placeholder zero until that is wired up.
func (s *Session) GetPing() time.Duration { return 0 }

func (s *Session) SendChatMessage(text string) {
	if s.state == Inactive {
		return
	}
	raw, err := Encode(ChatMessage{Text: text})
	if err != nil {
		return
	}
	if s.IsHost() {
		s.transport.Broadcast(ChannelControl, raw)
	} else {
		s.transport.Send(s.hostPeer, ChannelControl, raw, true)
	}
}

// CreateSession starts hosting. A single-peer Rollback Engine session
// is created immediately and the Session enters Running.
func (s *Session) CreateSession(nickname string, port int, maxPlayers int, password string) bool {
	s.role = RoleHost
	s.nickname = nickname
	s.password = password
	s.state = Initializing

	if err := s.transport.Start(port, maxPlayers); err != nil {
		s.log.WithError(err).Error("netplay: failed to start transport")
		s.host.ReportErrorAsync("Netplay", err.Error())
		s.state = Inactive
		return false
	}

	s.localID = 0
	s.roster.Occupy(0, nickname, "", invalidPeer)
	s.roster.ResetAcks()
	s.roster.ResetPlayers[0] = true
	s.resetCookie = 0

	s.host.SetNetplaySettingsLayer(DefaultSettingsOverlay())
	s.openRollback()
	s.state = Running
	s.host.OnNetplayMessage(fmt.Sprintf("Hosting session as %s on port %d", nickname, port))
	return true
}

// JoinSession dials a host and begins the Connecting handshake.
func (s *Session) JoinSession(nickname, hostname string, port int, password string) bool {
	s.role = RoleJoiner
	s.nickname = nickname
	s.password = password
	s.hostAddr, s.hostPort = hostname, port
	s.state = Initializing

	if err := s.transport.Start(0, 1); err != nil {
		s.log.WithError(err).Error("netplay: failed to start transport")
		s.host.ReportErrorAsync("Netplay", err.Error())
		s.state = Inactive
		return false
	}

	s.host.SetNetplaySettingsLayer(DefaultSettingsOverlay())
	s.dialHost()
	s.state = Connecting
	s.connectDeadline = time.Now().Add(MaxConnectTime)
	return true
}

func (s *Session) dialHost() {
	peer, err := s.transport.Dial(fmt.Sprintf("%s:%d", s.hostAddr, s.hostPort))
	if err != nil {
		s.log.WithError(err).Error("netplay: dial failed")
		return
	}
	s.hostPeer = peer
	s.connectAttemptAt = time.Now()
	req, _ := Encode(ConnectRequest{
		Mode:              ModePlayer,
		RequestedPlayerID: NoPlayer,
		Nickname:          s.nickname,
		Password:          s.password,
	})
	s.transport.Send(s.hostPeer, ChannelControl, req, true)
}

func (s *Session) openRollback() {
	s.rollback = NewRollback(s.machine, s.roster.NumPlayers, 1, MaxRollbackFrames, s.log)
	s.rollback.OnEvent = s.onRollbackEvent
	for i := 0; i < MaxPlayers; i++ {
		if !s.roster.Slots[i].Occupied {
			continue
		}
		id := PlayerID(i)
		if id == s.localID {
			h := s.rollback.AddPlayer(PeerLocal, id, invalidPeer)
			s.rollback.SetFrameDelay(h, 1) // local_delay=1, see DESIGN.md (c)
		} else {
			s.rollback.AddPlayer(PeerRemote, id, s.roster.Slots[i].Peer)
		}
	}
}

func (s *Session) onRollbackEvent(e RollbackEvent) {
	switch e.Kind {
	case EventConnectedToPeer:
		s.host.OnNetplayMessage(fmt.Sprintf("connected to player %d", e.Player))
	case EventSynchronizingWithPeer:
		s.host.OnNetplayMessage(fmt.Sprintf("synchronizing with player %d (%d/%d)", e.Player, e.SyncCount, e.SyncTotal))
	case EventSynchronizedWithPeer:
		s.host.OnNetplayMessage(fmt.Sprintf("synchronized with player %d", e.Player))
	case EventRunning:
		s.host.OnNetplayMessage("session running")
	case EventDesync:
		s.host.OnNetplayMessage(fmt.Sprintf("desync at frame %d: ours=%08x remote=%08x", e.Frame, e.OurChecksum, e.RemoteChecksum))
	case EventTimeSync:
		s.pacer.OnTimeSync(s.rollback.CurrentFrame(), e.FramesAhead, e.PeriodInFrames)
	case EventDisconnectedFromPeer:
		if s.IsHost() {
			s.dropPlayer(e.Player, DropConnectionLost)
		} else if e.Player == 0 {
			s.closeWith(ErrHostLost)
		} else {
			s.requestReset(ResetRequestConnectionLost, e.Player)
		}
	}
}

// ExecuteNetplay runs the outer loop until the session returns to
// Inactive. Every suspension point inside this loop is either
// Transport.Poll(deadline) or the Pacer's 2ms throttle sleep, per the
// single-threaded cooperative concurrency model.
func (s *Session) ExecuteNetplay() error {
	for s.state != Inactive {
		switch s.state {
		case Connecting:
			s.stepConnecting()
		case Resetting:
			s.stepResetting()
		case Running:
			s.stepRunning()
		case ClosingSession:
			s.stepClosing()
		default:
			return fmt.Errorf("netplay: ExecuteNetplay called in state %s", s.state)
		}
		s.host.PumpMessagesOnCPUThread()
	}
	return s.closeErr
}

func (s *Session) stepConnecting() {
	retryInterval := MaxConnectTime / time.Duration(MaxConnectRetries+1)
	if time.Since(s.connectAttemptAt) > retryInterval && s.connectRetries < MaxConnectRetries {
		s.connectRetries++
		s.transport.Reset(s.hostPeer)
		s.dialHost()
	}
	if time.Now().After(s.connectDeadline) {
		s.closeWith(ErrConnectTimeout)
		return
	}

	ev := s.transport.Poll(time.Now().Add(50 * time.Millisecond))
	if ev.Kind == EventReceived && ev.Channel == ChannelControl {
		s.handleControl(ev.Peer, ev.Data)
	}
}

func (s *Session) stepResetting() {
	deadline := s.resetDeadline
	if time.Now().After(deadline) {
		if s.IsHost() {
			s.dropStragglers()
		} else {
			s.closeWith(ErrResyncTimeout)
		}
		return
	}

	ev := s.transport.Poll(time.Now().Add(50 * time.Millisecond))
	switch ev.Kind {
	case EventReceived:
		if ev.Channel == ChannelControl {
			s.handleControl(ev.Peer, ev.Data)
		}
	case EventConnected:
		s.onPeerConnected(ev.Peer)
	}

	if s.IsHost() && s.roster.Complete() {
		s.resumeSession()
	}
}

func (s *Session) stepRunning() {
	s.pacer.Throttle(func(deadline time.Time) {
		ev := s.transport.Poll(deadline)
		switch ev.Kind {
		case EventReceived:
			switch ev.Channel {
			case ChannelControl:
				s.handleControl(ev.Peer, ev.Data)
			case ChannelGameplay:
				s.rollback.HandlePacket(ev.Peer, ev.Data)
			}
		case EventDisconnected:
			s.onRollbackEvent(RollbackEvent{Kind: EventDisconnectedFromPeer, Player: s.playerForPeer(ev.Peer)})
		}
	})
	if s.state != Running {
		return // a control message handled above moved us on
	}

	s.pacer.MaybeRecover(s.rollback.CurrentFrame())

	if !s.rollback.CanAdvance() {
		// Prediction window full: stall the frame clock rather than
		// speculate past a remote input we have not confirmed yet
		// (§4.3). Transport has already been drained above, so the
		// confirmation that frees the window keeps flowing in.
		return
	}

	local := sampleLocalButtons(s.input)
	for _, h := range s.localHandles() {
		s.rollback.AddLocalInput(h, local, func(peer PeerHandle, data []byte) {
			s.transport.Send(peer, ChannelGameplay, data, false)
		})
	}

	inputs, _ := s.rollback.SynchronizeInput()
	s.machine.RunFrame(inputs)
	frame := s.rollback.AdvanceFrame()

	if checksum, ok := s.rollback.ChecksumFor(frame); ok {
		s.exchangeChecksum(frame, checksum)
	}
}

func (s *Session) localHandles() []RollbackHandle {
	var handles []RollbackHandle
	for i, p := range s.rollback.players {
		if p.typ == PeerLocal {
			handles = append(handles, RollbackHandle(i))
		}
	}
	return handles
}

func (s *Session) exchangeChecksum(frame uint32, checksum uint32) {
	s.rollback.SendChecksum(frame, checksum, func(peer PeerHandle, data []byte) {
		s.transport.Send(peer, ChannelGameplay, data, false)
	})
}

func (s *Session) stepClosing() {
	if time.Now().After(s.closeDeadline) {
		s.state = Inactive
		return
	}
	ev := s.transport.Poll(time.Now().Add(50 * time.Millisecond))
	if ev.Kind == EventDisconnected {
		allGone := true
		for i := range s.roster.Slots {
			if s.roster.Slots[i].connected() && PlayerID(i) != s.localID {
				allGone = false
			}
		}
		if allGone {
			s.state = Inactive
		}
	}
}

func (s *Session) playerForPeer(peer PeerHandle) PlayerID {
	for i, slot := range s.roster.Slots {
		if slot.Peer == peer {
			return PlayerID(i)
		}
	}
	return NoPlayer
}

func (s *Session) closeWith(err error) {
	s.closeErr = err
	if err != nil {
		s.host.ReportErrorAsync("Netplay", err.Error())
	}
	s.state = ClosingSession
	s.closeDeadline = time.Now().Add(MaxCloseTime)
	raw, _ := Encode(CloseSession{Reason: CloseError})
	s.transport.Broadcast(ChannelControl, raw)
}

func (s *Session) requestReset(reason ResetRequestReason, causing PlayerID) {
	raw, _ := Encode(ResetRequest{Reason: reason, CausingPlayerID: causing})
	s.transport.Send(s.hostPeer, ChannelControl, raw, true)
}

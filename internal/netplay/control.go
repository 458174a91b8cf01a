package netplay

import (
	"fmt"
	"net"
	"time"
)

// handleControl dispatches one decoded CONTROL message to the state
// machine transition it drives, per §4.2. Malformed packets are
// logged and dropped rather than closing the session - a single bad
// packet on an otherwise healthy connection is not fatal.
func (s *Session) handleControl(peer PeerHandle, data []byte) {
	typ, msg, err := Decode(data)
	if err != nil {
		s.log.WithError(err).WithField("type", typ).Warn("netplay: dropping malformed control packet")
		return
	}

	switch m := msg.(type) {
	case ConnectRequest:
		s.handleConnectRequest(peer, m)
	case ConnectResponse:
		s.handleConnectResponse(m)
	case Reset:
		s.handleReset(peer, m)
	case ResetComplete:
		s.handleResetComplete(peer, m)
	case ResumeSession:
		s.handleResumeSession()
	case PlayerJoined:
		s.host.OnNetplayMessage(fmt.Sprintf("player %d joined", m.PlayerID))
	case DropPlayer:
		s.handleDropPlayer(m)
	case ResetRequest:
		if s.IsHost() {
			s.dropPlayer(m.CausingPlayerID, DropConnectionLost)
		}
	case CloseSession:
		s.closeWith(nil)
	case ChatMessage:
		s.host.OnNetplayMessage(m.Text)
	}
}

// --- host-side admission ---------------------------------------------

func (s *Session) handleConnectRequest(peer PeerHandle, req ConnectRequest) {
	if !s.IsHost() {
		return
	}

	reject := func(result ConnectResult) {
		raw, _ := Encode(ConnectResponse{Result: result, PlayerID: NoPlayer})
		s.transport.Send(peer, ChannelControl, raw, true)
	}

	if req.Mode == ModeSpectator {
		reject(ConnectSessionClosed)
		return
	}
	if s.password != "" && req.Password != s.password {
		reject(ConnectSessionClosed)
		return
	}

	var id PlayerID
	if req.RequestedPlayerID != NoPlayer {
		if s.roster.Slots[req.RequestedPlayerID].Occupied {
			reject(ConnectPlayerIDInUse)
			return
		}
		id = req.RequestedPlayerID
	} else {
		id = s.roster.LowestFreeSlot()
		if id == NoPlayer {
			reject(ConnectServerFull)
			return
		}
	}

	addr, _ := s.transport.PeerAddress(peer)
	s.roster.Occupy(id, req.Nickname, addrString(addr), peer)
	s.onRollbackEvent(RollbackEvent{Kind: EventConnectedToPeer, Player: id})

	raw, _ := Encode(ConnectResponse{Result: ConnectSuccess, PlayerID: id})
	s.transport.Send(peer, ChannelControl, raw, true)

	joined, _ := Encode(PlayerJoined{PlayerID: id})
	s.transport.Broadcast(ChannelControl, joined)

	s.broadcastReset()
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}

// --- joiner-side connect --------------------------------------------

func (s *Session) handleConnectResponse(resp ConnectResponse) {
	if s.state != Connecting {
		return
	}
	switch resp.Result {
	case ConnectSuccess:
		s.localID = resp.PlayerID
		s.roster.Occupy(resp.PlayerID, s.nickname, "", s.hostPeer)
		s.onRollbackEvent(RollbackEvent{Kind: EventConnectedToPeer, Player: 0})
		s.state = Resetting
		s.resetDeadline = s.connectDeadline
	case ConnectServerFull:
		s.closeWith(ErrServerFull)
	case ConnectPlayerIDInUse:
		s.closeWith(ErrPlayerIDInUse)
	case ConnectSessionClosed:
		s.closeWith(ErrSessionClosed)
	}
}

// --- resync orchestration --------------------------------------------

// broadcastReset is the host's entry point into a resync: bump the
// cookie, snapshot the Machine, serialize the full roster and send it
// reliably to every connected peer, then apply it locally.
func (s *Session) broadcastReset() {
	s.resetCookie++
	s.roster.ResetAcks()

	msg := Reset{Cookie: s.resetCookie, NumPlayers: uint16(s.roster.NumPlayers)}
	for i := 0; i < MaxPlayers; i++ {
		slot := s.roster.Slots[i]
		if !slot.Occupied {
			msg.Players[i] = PlayerEntry{ControllerPort: NoPlayer}
			continue
		}
		msg.Players[i] = PlayerEntry{ControllerPort: PlayerID(i), Nickname: slot.Nickname}
	}
	if s.machine != nil {
		msg.StateData = s.machine.SaveSnapshot()
	}

	raw, err := Encode(msg)
	if err != nil {
		s.log.WithError(err).Error("netplay: failed to encode reset")
		return
	}
	s.transport.Broadcast(ChannelControl, raw)

	s.roster.ResetPlayers[s.localID] = true
	s.applyReset(msg)
	s.state = Resetting
	s.resetDeadline = time.Now().Add(MaxConnectTime)
	s.onRollbackEvent(RollbackEvent{Kind: EventSynchronizingWithPeer, SyncCount: s.roster.AckCount(), SyncTotal: s.roster.NumPlayers})
}

// handleReset is the joiner-side counterpart: adopt the host's
// roster and snapshot wholesale, dropping any locally-known peer not
// present in it (the host is authoritative).
func (s *Session) handleReset(peer PeerHandle, msg Reset) {
	if int(msg.NumPlayers) > MaxPlayers {
		s.log.Warn("netplay: reset declares impossible player count, dropping")
		return
	}

	for i := 0; i < MaxPlayers; i++ {
		entry := msg.Players[i]
		if entry.ControllerPort == NoPlayer {
			s.roster.Clear(PlayerID(i))
			continue
		}
		if PlayerID(i) == s.localID {
			continue
		}
		s.roster.Occupy(PlayerID(i), entry.Nickname, "", s.peerForSlot(PlayerID(i), peer))
	}

	if len(msg.StateData) > 0 && s.machine != nil {
		if err := s.machine.LoadSnapshot(msg.StateData); err != nil {
			s.log.WithError(err).Error("netplay: failed to load reset snapshot")
			s.closeWith(err)
			return
		}
	}

	s.resetCookie = msg.Cookie
	s.applyReset(msg)

	ack, _ := Encode(ResetComplete{Cookie: msg.Cookie})
	s.transport.Send(s.hostPeer, ChannelControl, ack, true)

	s.state = Resetting
	s.resetDeadline = time.Now().Add(MaxConnectTime)
	s.onRollbackEvent(RollbackEvent{Kind: EventSynchronizingWithPeer, SyncCount: s.roster.AckCount(), SyncTotal: s.roster.NumPlayers})
}

// peerForSlot resolves the Transport handle to dial for a newly
// announced peer: the host IS the connecting peer for a joiner, so
// every remote slot in a joiner's roster resolves to hostPeer; a host
// resolves a remote slot to the handle it already admitted the
// ConnectRequest on.
func (s *Session) peerForSlot(id PlayerID, admitted PeerHandle) PeerHandle {
	if !s.IsHost() {
		return s.hostPeer
	}
	if s.roster.Slots[id].Occupied {
		return s.roster.Slots[id].Peer
	}
	return admitted
}

// applyReset (re)builds the Rollback Engine session against the
// now-current roster. Any in-flight rollback session is torn down
// first - its ring and pending predictions are meaningless across a
// resync.
func (s *Session) applyReset(msg Reset) {
	s.rollback = nil
	s.openRollback()
}

func (s *Session) handleResetComplete(peer PeerHandle, m ResetComplete) {
	if !s.IsHost() || m.Cookie != s.resetCookie {
		return
	}
	id := s.playerForPeer(peer)
	if id == NoPlayer {
		return
	}
	s.roster.ResetPlayers[id] = true
	s.onRollbackEvent(RollbackEvent{Kind: EventSynchronizedWithPeer, Player: id})
}

func (s *Session) resumeSession() {
	raw, _ := Encode(ResumeSession{})
	s.transport.Broadcast(ChannelControl, raw)
	s.state = Running
	s.onRollbackEvent(RollbackEvent{Kind: EventRunning})
	s.host.OnNetplayMessage("session resynchronized")
}

func (s *Session) handleResumeSession() {
	if s.state == Resetting {
		s.onRollbackEvent(RollbackEvent{Kind: EventSynchronizedWithPeer})
		s.state = Running
		s.onRollbackEvent(RollbackEvent{Kind: EventRunning})
		s.host.OnNetplayMessage("session resynchronized")
	}
}

func (s *Session) onPeerConnected(peer PeerHandle) {
	// Nothing further to do: the ConnectRequest/Response exchange
	// already happened on the same reliable channel that raised this
	// event, so by the time it is observed the roster is already
	// current.
	_ = peer
}

// --- drop / disconnect ------------------------------------------------

func (s *Session) dropPlayer(id PlayerID, reason DropReason) {
	if id == NoPlayer || !s.roster.Slots[id].Occupied {
		return
	}
	peer := s.roster.Slots[id].Peer
	s.roster.Clear(id)
	if s.rollback != nil {
		s.rollback.MarkDisconnected(id)
	}
	raw, _ := Encode(DropPlayer{Reason: reason, PlayerID: id})
	s.transport.Broadcast(ChannelControl, raw)
	s.transport.Disconnect(peer, true)
	s.broadcastReset()
}

func (s *Session) handleDropPlayer(m DropPlayer) {
	s.roster.Clear(m.PlayerID)
	if s.rollback != nil {
		s.rollback.MarkDisconnected(m.PlayerID)
	}
}

// dropStragglers is the host's MAX_CONNECT_TIME timeout handler during
// Resetting: any occupied slot that has not sent ResetComplete is
// dropped so the remaining peers are not held hostage by one stalled
// connection.
func (s *Session) dropStragglers() {
	for i := 0; i < MaxPlayers; i++ {
		if s.roster.Slots[i].Occupied && !s.roster.ResetPlayers[i] && PlayerID(i) != s.localID {
			s.dropPlayer(PlayerID(i), DropTimeout)
		}
	}
	if s.roster.Complete() {
		s.resumeSession()
	}
}

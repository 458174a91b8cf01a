package netplay

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"
)

// PeerType distinguishes a rollback participant driven by this
// process's own Input Provider from one whose input arrives over the
// wire.
type PeerType uint8

const (
	PeerLocal PeerType = iota
	PeerRemote
)

// RollbackHandle identifies a player added to a Rollback Engine
// session via AddPlayer.
type RollbackHandle int

// RollbackEventKind tags the events AddPlayer/SynchronizeInput/etc.
// raise via the Session Runner's OnEvent callback.
type RollbackEventKind uint8

const (
	EventConnectedToPeer RollbackEventKind = iota
	EventSynchronizingWithPeer
	EventSynchronizedWithPeer
	EventRunning
	EventTimeSync
	EventDesync
	EventDisconnectedFromPeer
)

// RollbackEvent is the payload delivered on every Rollback Engine
// event.
type RollbackEvent struct {
	Kind RollbackEventKind

	Player PlayerID

	// SynchronizingWithPeer
	SyncCount, SyncTotal int

	// TimeSync
	FramesAhead    int
	PeriodInFrames int

	// Desync
	Frame          uint32
	OurChecksum    uint32
	RemoteChecksum uint32
}

// snapshotEntry is one ring slot: a frame number, its checksum, and
// the borrowed Machine snapshot bytes backing it.
type snapshotEntry struct {
	frame     uint32
	valid     bool
	checksum  uint32
	data      []byte
	buttons   [MaxPlayers]uint8
	confirmed [MaxPlayers]bool
}

// snapshotPool is a free-list of reusable Machine snapshot buffers,
// so save/free during steady-state rollback never allocates once
// warmed up. Ownership is a move: a buffer handed out by get is
// either in exactly one ring slot or back in the pool, never both.
type snapshotPool struct {
	free [][]byte
}

func (p *snapshotPool) get(size int) []byte {
	for i, b := range p.free {
		if cap(b) >= size {
			p.free[i] = p.free[len(p.free)-1]
			p.free = p.free[:len(p.free)-1]
			return b[:size]
		}
	}
	return make([]byte, size, size*2)
}

func (p *snapshotPool) put(b []byte) {
	p.free = append(p.free, b)
}

// rollbackPlayer is one added participant.
type rollbackPlayer struct {
	typ        PeerType
	playerID   PlayerID
	peer       PeerHandle
	frameDelay int

	predictedButtons   uint8
	confirmed          map[uint32]uint8
	disconnected       bool
	lastConfirmedFrame uint32
}

// Rollback implements the predict-advance-correct loop over a
// Machine. It owns the snapshot ring and free-list; the Session
// Runner owns the Machine and feeds this engine local input and
// incoming GAMEPLAY packets.
type Rollback struct {
	log *logrus.Logger

	machine        Machine
	numPlayers     int
	maxRollback    int
	players        []*rollbackPlayer
	localID        PlayerID

	pool           snapshotPool
	ring           []snapshotEntry
	genesis        []byte
	current        uint32
	confirmedFrame uint32
	lastInputs     [MaxPlayers]uint8
	replaying      bool

	OnEvent func(RollbackEvent)
}

// timeSyncPeriod is how often, in frames, the engine samples frame
// advantage over each remote player and raises a TimeSync event.
const timeSyncPeriod = 40

// NewRollback opens a Rollback Engine session. perInputSize is
// unused by this adapter - each player's input is a single button
// bitfield byte - but is accepted to keep the surface in §4.3 intact
// for a future wider controller encoding.
func NewRollback(machine Machine, numPlayers, perInputSize, maxRollbackFrames int, log *logrus.Logger) *Rollback {
	if log == nil {
		log = logrus.New()
	}
	return &Rollback{
		log:         log,
		machine:     machine,
		numPlayers:  numPlayers,
		maxRollback: maxRollbackFrames,
		ring:        make([]snapshotEntry, maxRollbackFrames+1),
		genesis:     machine.SaveSnapshot(),
	}
}

// AddPlayer registers a participant and returns its handle.
func (r *Rollback) AddPlayer(typ PeerType, playerID PlayerID, peer PeerHandle) RollbackHandle {
	p := &rollbackPlayer{typ: typ, playerID: playerID, peer: peer, confirmed: make(map[uint32]uint8)}
	r.players = append(r.players, p)
	if typ == PeerLocal {
		r.localID = playerID
	}
	return RollbackHandle(len(r.players) - 1)
}

// SetFrameDelay records a frame delay for h. The value is stored
// only: AddLocalInput always applies local input to the current
// frame, so no input delay takes effect.
func (r *Rollback) SetFrameDelay(h RollbackHandle, frames int) {
	r.players[h].frameDelay = frames
}

// gameplayTag discriminates the two kinds of packet the engine puts
// on the GAMEPLAY channel. The wire library named in §6 defines its
// own opaque framing for this; lacking a concrete one to ground
// against (see DESIGN.md), this single leading byte is the engine's
// own minimal framing, reusing the same channel the spec names for
// both input exchange and the desync checksum it describes.
type gameplayTag byte

const (
	gameplayInput    gameplayTag = 0
	gameplayChecksum gameplayTag = 1
)

// AddLocalInput records this frame's local input for later
// SynchronizeInput calls and broadcasts it to every remote player on
// the GAMEPLAY channel.
func (r *Rollback) AddLocalInput(h RollbackHandle, buttons uint8, send func(PeerHandle, []byte)) {
	p := r.players[h]
	p.confirmed[r.current] = buttons

	packet := make([]byte, 6)
	packet[0] = byte(gameplayInput)
	binary.LittleEndian.PutUint32(packet[1:5], r.current)
	packet[5] = buttons
	for _, other := range r.players {
		if other.typ == PeerRemote && !other.disconnected {
			send(other.peer, packet)
		}
	}
}

// SendChecksum pushes this peer's checksum for frame to every
// connected remote player, for ObserveRemoteChecksum on the other end
// to compare against its own.
func (r *Rollback) SendChecksum(frame uint32, checksum uint32, send func(PeerHandle, []byte)) {
	packet := make([]byte, 9)
	packet[0] = byte(gameplayChecksum)
	binary.LittleEndian.PutUint32(packet[1:5], frame)
	binary.LittleEndian.PutUint32(packet[5:9], checksum)
	for _, other := range r.players {
		if other.typ == PeerRemote && !other.disconnected {
			send(other.peer, packet)
		}
	}
}

// HandlePacket feeds one GAMEPLAY packet from peer into the engine.
// An input packet records the remote input it carries, triggering a
// rewind if it disagrees with the prediction already stored for that
// frame; a checksum packet is compared against ours via
// ObserveRemoteChecksum.
func (r *Rollback) HandlePacket(peer PeerHandle, data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("netplay: empty gameplay packet")
	}

	var remote *rollbackPlayer
	for _, p := range r.players {
		if p.typ == PeerRemote && p.peer == peer {
			remote = p
			break
		}
	}
	if remote == nil {
		return fmt.Errorf("netplay: gameplay packet from unknown peer %d", peer)
	}

	switch gameplayTag(data[0]) {
	case gameplayInput:
		if len(data) < 6 {
			return fmt.Errorf("netplay: short gameplay input packet (%d bytes)", len(data))
		}
		frame := binary.LittleEndian.Uint32(data[1:5])
		buttons := data[5]
		_, alreadyConfirmed := remote.confirmed[frame]
		remote.confirmed[frame] = buttons
		if frame > remote.lastConfirmedFrame {
			remote.lastConfirmedFrame = frame
		}

		if !alreadyConfirmed && frame < r.current {
			if slot := r.slot(frame); slot.valid && slot.frame == frame && slot.buttons[remote.playerID] != buttons {
				r.rewindTo(frame)
			}
		}
	case gameplayChecksum:
		if len(data) < 9 {
			return fmt.Errorf("netplay: short gameplay checksum packet (%d bytes)", len(data))
		}
		frame := binary.LittleEndian.Uint32(data[1:5])
		checksum := binary.LittleEndian.Uint32(data[5:9])
		r.ObserveRemoteChecksum(frame, checksum)
	default:
		return fmt.Errorf("netplay: unknown gameplay packet tag %d", data[0])
	}
	return nil
}

// SynchronizeInput returns the authoritative (or, within the
// prediction window, best-guess predicted) input for every player for
// the current frame. disconnected[i] is set for any player whose
// remote peer has dropped.
func (r *Rollback) SynchronizeInput() (inputs [MaxPlayers]uint8, disconnected [MaxPlayers]bool) {
	for _, p := range r.players {
		buttons, ok := p.confirmed[r.current]
		if !ok {
			// No input yet for this frame: predict "repeat last
			// pressed input," the standard rollback fallback.
			buttons = p.predictedButtons
		} else {
			p.predictedButtons = buttons
		}
		inputs[p.playerID] = buttons
		disconnected[p.playerID] = p.disconnected
	}
	r.lastInputs = inputs
	return inputs, disconnected
}

// saveFrame snapshots the Machine into a pooled buffer and returns the
// ring entry for frame, stamped with its checksum and the inputs last
// returned by SynchronizeInput.
func (r *Rollback) saveFrame(frame uint32) snapshotEntry {
	data := r.machine.SaveSnapshot()
	buf := r.pool.get(len(data))
	copy(buf, data)
	checksum := frameChecksum(buf, frame)
	return snapshotEntry{frame: frame, valid: true, checksum: checksum, data: buf, buttons: r.lastInputs}
}

func (r *Rollback) slot(frame uint32) *snapshotEntry {
	return &r.ring[frame%uint32(len(r.ring))]
}

// CanAdvance reports whether the engine may speculate another frame
// without outrunning the prediction window (§4.3): once
// current - confirmedFrame reaches maxRollback, every ring slot a
// rewind might still need to target is live, and speculating further
// would let AdvanceFrame overwrite one out from under a later
// rewindTo. The Session Runner must stall synchronize_input/
// advance_frame rather than call them while this is false.
func (r *Rollback) CanAdvance() bool {
	return r.current-r.confirmedFrame < uint32(r.maxRollback)
}

// AdvanceFrame saves the current frame's snapshot into the ring,
// frees the snapshot that just fell out of the prediction window if
// any, and moves the engine to the next frame.
func (r *Rollback) AdvanceFrame() uint32 {
	entry := r.saveFrame(r.current)
	slot := r.slot(r.current)
	if slot.valid {
		r.pool.put(slot.data)
	}
	*slot = entry

	r.maybeAdvanceConfirmed()

	frame := r.current
	r.current++
	r.maybeRaiseTimeSync()
	return frame
}

// maybeRaiseTimeSync samples this peer's frame advantage over every
// connected remote every timeSyncPeriod frames and raises TimeSync so
// the Frame Pacer can correct clock drift (§4.5). It is a no-op
// during rewind replay, which revisits already-accounted-for frames
// rather than advancing the wall clock.
func (r *Rollback) maybeRaiseTimeSync() {
	if r.replaying || r.current == 0 || r.current%timeSyncPeriod != 0 {
		return
	}
	var framesAhead int
	for _, p := range r.players {
		if p.typ != PeerRemote || p.disconnected {
			continue
		}
		if ahead := int(r.current) - int(p.lastConfirmedFrame); ahead > framesAhead {
			framesAhead = ahead
		}
	}
	if framesAhead == 0 || r.OnEvent == nil {
		return
	}
	r.OnEvent(RollbackEvent{Kind: EventTimeSync, FramesAhead: framesAhead, PeriodInFrames: timeSyncPeriod})
}

// maybeAdvanceConfirmed moves confirmedFrame forward over every frame
// every player has now supplied real (non-predicted) input for, and
// trims prediction-window bookkeeping behind it.
func (r *Rollback) maybeAdvanceConfirmed() {
	for {
		f := r.confirmedFrame
		allConfirmed := true
		for _, p := range r.players {
			if p.disconnected {
				continue
			}
			if _, ok := p.confirmed[f]; !ok {
				allConfirmed = false
				break
			}
		}
		if !allConfirmed {
			return
		}
		for _, p := range r.players {
			delete(p.confirmed, f)
		}
		r.confirmedFrame++
	}
}

// rewindTo re-derives every frame from `frame` up to the current
// frame using the now-authoritative inputs: load the snapshot taken
// just before `frame` was originally run, then replay forward. Audio
// is muted for the replay so the silent re-simulation isn't heard.
func (r *Rollback) rewindTo(frame uint32) {
	var base []byte
	if frame == 0 {
		base = r.genesis
	} else {
		slot := r.slot(frame - 1)
		if !slot.valid || slot.frame != frame-1 {
			r.log.WithField("frame", frame).Warn("netplay: rewind target missing from ring, skipping")
			return
		}
		base = slot.data
	}
	if err := r.machine.LoadSnapshot(base); err != nil {
		r.log.WithError(err).Error("netplay: snapshot load failed during rewind")
		return
	}

	r.machine.SetMuted(true)
	defer r.machine.SetMuted(false)

	r.replaying = true
	defer func() { r.replaying = false }()

	replayTo := r.current
	r.current = frame
	for r.current < replayTo {
		inputs, _ := r.SynchronizeInput()
		r.machine.RunFrame(inputs)
		r.AdvanceFrame()
	}
}

// CurrentFrame returns the frame the engine is about to advance.
func (r *Rollback) CurrentFrame() uint32 { return r.current }

// ConfirmedFrame returns the earliest frame for which some player's
// input is still predicted; every frame before it has authoritative
// input from every player.
func (r *Rollback) ConfirmedFrame() uint32 { return r.confirmedFrame }

// ChecksumFor returns the checksum recorded for frame if it is still
// in the ring.
func (r *Rollback) ChecksumFor(frame uint32) (uint32, bool) {
	slot := r.slot(frame)
	if slot.valid && slot.frame == frame {
		return slot.checksum, true
	}
	return 0, false
}

// ObserveRemoteChecksum compares a peer-reported checksum for frame
// against ours and raises a Desync event on mismatch. Execution is
// never halted on mismatch - this is a transient, user-visible
// condition, not a fatal one.
func (r *Rollback) ObserveRemoteChecksum(frame uint32, remote uint32) {
	ours, ok := r.ChecksumFor(frame)
	if !ok {
		return
	}
	if ours != remote && r.OnEvent != nil {
		r.OnEvent(RollbackEvent{Kind: EventDesync, Frame: frame, OurChecksum: ours, RemoteChecksum: remote})
	}
}

// MarkDisconnected flags a remote player as gone; SynchronizeInput
// will keep predicting its last known input and report it
// disconnected rather than stall the local frame clock on it.
func (r *Rollback) MarkDisconnected(playerID PlayerID) {
	for _, p := range r.players {
		if p.playerID == playerID {
			p.disconnected = true
		}
	}
	if r.OnEvent != nil {
		r.OnEvent(RollbackEvent{Kind: EventDisconnectedFromPeer, Player: playerID})
	}
}

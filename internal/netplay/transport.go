package netplay

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Channel is one of the two logical Transport channels.
type Channel uint8

const (
	// ChannelControl carries session-management and chat traffic.
	// Delivery is reliable and ordered.
	ChannelControl Channel = iota
	// ChannelGameplay carries the Rollback Engine's input packets.
	// Delivery is unreliable; packets may be dropped or reordered.
	ChannelGameplay
)

// PeerHandle identifies a dialed or accepted remote endpoint.
type PeerHandle uint32

const invalidPeer PeerHandle = 0

// EventKind tags a Transport event returned from Poll.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventConnected
	EventDisconnected
	EventReceived
)

// Event is the result of one Transport.Poll call.
type Event struct {
	Kind    EventKind
	Peer    PeerHandle
	Channel Channel
	Data    []byte
}

// Transport is a reliable/unreliable packet endpoint over UDP with
// two logical channels. It mirrors the narrow surface a rollback
// session needs from a third-party UDP-reliability library: bind,
// dial, send, poll, reset - nothing about addressing or congestion
// control leaks past this interface.
type Transport interface {
	Start(localPort int, maxPeers int) error
	Dial(address string) (PeerHandle, error)
	Send(peer PeerHandle, channel Channel, data []byte, reliable bool) error
	Broadcast(channel Channel, data []byte) error
	Poll(deadline time.Time) Event
	Disconnect(peer PeerHandle, graceful bool) error
	Reset(peer PeerHandle) error
	PeerAddress(peer PeerHandle) (net.Addr, bool)
	Close() error
}

// No ready-made ENet-style binding was available to ground this
// against in the reference pack (see DESIGN.md), so udpTransport
// implements the same two-channel contract directly over net.UDPConn:
// ChannelControl gets a minimal sequence+ack retransmission layer,
// modeled on the framing in an ENet-protocol reference file from the
// pack; ChannelGameplay is sent and received as bare unreliable
// datagrams, exactly as the spec requires.
type udpTransport struct {
	log *logrus.Logger

	mu       sync.Mutex
	conn     *net.UDPConn
	peers    map[PeerHandle]*udpPeer
	nextPeer PeerHandle
	events   chan Event
	closed   chan struct{}
}

type udpPeer struct {
	addr *net.UDPAddr

	mu        sync.Mutex
	sendSeq   uint32
	recvSeq   uint32
	unacked   map[uint32]reliableSend
	connected bool
}

type reliableSend struct {
	data []byte
	sent time.Time
}

const (
	reliableRetransmit = 150 * time.Millisecond
	frameControl        = 0
	frameGameplay        = 1
	frameAck             = 2
)

// NewUDPTransport returns a Transport grounded on the standard
// library's UDP socket, the stdlib being the documented fallback
// when no pack-grounded ENet binding exists.
func NewUDPTransport(log *logrus.Logger) Transport {
	if log == nil {
		log = logrus.New()
	}
	return &udpTransport{
		log:    log,
		peers:  make(map[PeerHandle]*udpPeer),
		events: make(chan Event, 256),
		closed: make(chan struct{}),
	}
}

func (t *udpTransport) Start(localPort int, maxPeers int) error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: localPort})
	if err != nil {
		return fmt.Errorf("netplay: transport bind failed: %w", err)
	}
	t.conn = conn
	go t.readLoop()
	return nil
}

func (t *udpTransport) readLoop() {
	buf := make([]byte, 64*1024)
	for {
		select {
		case <-t.closed:
			return
		default:
		}
		n, addr, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		t.handleDatagram(addr, buf[:n])
	}
}

func (t *udpTransport) handleDatagram(addr *net.UDPAddr, raw []byte) {
	if len(raw) < 1 {
		return
	}
	frame := raw[0]
	peer, p := t.peerForAddr(addr)

	switch frame {
	case frameControl:
		if len(raw) < 5 {
			return
		}
		seq := binary.LittleEndian.Uint32(raw[1:5])
		payload := raw[5:]

		p.mu.Lock()
		deliver := seq == p.recvSeq
		if deliver {
			p.recvSeq++
		}
		seen := seq < p.recvSeq
		p.mu.Unlock()
		if seen {
			t.sendAck(p, seq)
		}
		if !deliver {
			// A duplicate is acked again; a frame ahead of sequence is
			// left unacked so the sender retransmits it in order.
			return
		}

		if !p.connected {
			p.connected = true
			t.emit(Event{Kind: EventConnected, Peer: peer})
		}
		t.emit(Event{Kind: EventReceived, Peer: peer, Channel: ChannelControl, Data: payload})
	case frameGameplay:
		t.emit(Event{Kind: EventReceived, Peer: peer, Channel: ChannelGameplay, Data: raw[1:]})
	case frameAck:
		if len(raw) < 5 {
			return
		}
		seq := binary.LittleEndian.Uint32(raw[1:5])
		p.mu.Lock()
		delete(p.unacked, seq)
		p.mu.Unlock()
	}
}

func (t *udpTransport) sendAck(p *udpPeer, seq uint32) {
	out := make([]byte, 5)
	out[0] = frameAck
	binary.LittleEndian.PutUint32(out[1:], seq)
	t.conn.WriteToUDP(out, p.addr)
}

func (t *udpTransport) peerForAddr(addr *net.UDPAddr) (PeerHandle, *udpPeer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for h, p := range t.peers {
		if p.addr.IP.Equal(addr.IP) && p.addr.Port == addr.Port {
			return h, p
		}
	}
	t.nextPeer++
	h := t.nextPeer
	p := &udpPeer{addr: addr, unacked: make(map[uint32]reliableSend)}
	t.peers[h] = p
	return h, p
}

func (t *udpTransport) emit(e Event) {
	select {
	case t.events <- e:
	case <-t.closed:
	}
}

func (t *udpTransport) Dial(address string) (PeerHandle, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return invalidPeer, err
	}
	t.mu.Lock()
	t.nextPeer++
	h := t.nextPeer
	t.peers[h] = &udpPeer{addr: addr, unacked: make(map[uint32]reliableSend)}
	t.mu.Unlock()

	// Nothing is sent here; the connection is established by the
	// first reliable frame the caller sends on it (the ConnectRequest).
	return h, nil
}

func (t *udpTransport) Send(peer PeerHandle, channel Channel, data []byte, reliable bool) error {
	t.mu.Lock()
	p, ok := t.peers[peer]
	t.mu.Unlock()
	if !ok {
		return fmt.Errorf("netplay: unknown peer handle %d", peer)
	}

	if channel == ChannelGameplay || !reliable {
		out := make([]byte, 1+len(data))
		out[0] = frameGameplay
		copy(out[1:], data)
		_, err := t.conn.WriteToUDP(out, p.addr)
		return err
	}

	p.mu.Lock()
	seq := p.sendSeq
	p.sendSeq++
	out := make([]byte, 5+len(data))
	out[0] = frameControl
	binary.LittleEndian.PutUint32(out[1:5], seq)
	copy(out[5:], data)
	p.unacked[seq] = reliableSend{data: out, sent: time.Now()}
	p.mu.Unlock()

	_, err := t.conn.WriteToUDP(out, p.addr)
	go t.retransmitLoop(p, seq)
	return err
}

// retransmitLoop resends an unacked reliable frame until it is acked
// or the peer disconnects. This is the minimal ARQ needed for
// ordered, at-least-once CONTROL delivery.
func (t *udpTransport) retransmitLoop(p *udpPeer, seq uint32) {
	for {
		time.Sleep(reliableRetransmit)
		p.mu.Lock()
		send, pending := p.unacked[seq]
		p.mu.Unlock()
		if !pending {
			return
		}
		t.conn.WriteToUDP(send.data, p.addr)
	}
}

func (t *udpTransport) Broadcast(channel Channel, data []byte) error {
	t.mu.Lock()
	handles := make([]PeerHandle, 0, len(t.peers))
	for h := range t.peers {
		handles = append(handles, h)
	}
	t.mu.Unlock()
	for _, h := range handles {
		if err := t.Send(h, channel, data, channel == ChannelControl); err != nil {
			return err
		}
	}
	return nil
}

func (t *udpTransport) Poll(deadline time.Time) Event {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case e := <-t.events:
		return e
	case <-timer.C:
		return Event{Kind: EventNone}
	case <-t.closed:
		return Event{Kind: EventNone}
	}
}

func (t *udpTransport) Disconnect(peer PeerHandle, graceful bool) error {
	t.mu.Lock()
	p, ok := t.peers[peer]
	if ok {
		delete(t.peers, peer)
	}
	t.mu.Unlock()
	if !ok {
		return nil
	}
	t.emit(Event{Kind: EventDisconnected, Peer: peer})
	p.mu.Lock()
	p.unacked = make(map[uint32]reliableSend)
	p.mu.Unlock()
	return nil
}

func (t *udpTransport) Reset(peer PeerHandle) error {
	t.mu.Lock()
	p, ok := t.peers[peer]
	t.mu.Unlock()
	if !ok {
		return fmt.Errorf("netplay: unknown peer handle %d", peer)
	}
	p.mu.Lock()
	p.sendSeq, p.recvSeq = 0, 0
	p.unacked = make(map[uint32]reliableSend)
	p.connected = false
	p.mu.Unlock()
	return nil
}

func (t *udpTransport) PeerAddress(peer PeerHandle) (net.Addr, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.peers[peer]
	if !ok {
		return nil, false
	}
	return p.addr, true
}

func (t *udpTransport) Close() error {
	close(t.closed)
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}

package netplay

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MessageType tags every CONTROL-channel message. The wire format is
// the ground truth for the session state machine: a tagged variant
// over these kinds, never a raw struct reinterpret-cast.
type MessageType uint16

const (
	MsgConnectRequest MessageType = iota
	MsgConnectResponse
	MsgReset
	MsgResetComplete
	MsgResumeSession
	MsgPlayerJoined
	MsgDropPlayer
	MsgResetRequest
	MsgCloseSession
	MsgChatMessage
)

// headerSize is the fixed {u16 type, u16 size} prefix on every
// CONTROL message. size is the complete length, header included.
const headerSize = 4

// ConnectMode is carried in ConnectRequest; only ModePlayer is
// accepted by the current admission policy.
type ConnectMode uint8

const (
	ModePlayer ConnectMode = iota
	ModeSpectator
)

type ConnectResult uint8

const (
	ConnectSuccess ConnectResult = iota
	ConnectServerFull
	ConnectPlayerIDInUse
	ConnectSessionClosed
)

type DropReason uint8

const (
	DropKicked DropReason = iota
	DropConnectionLost
	DropTimeout
)

type ResetRequestReason uint8

const (
	ResetRequestConnectionLost ResetRequestReason = iota
)

// ConnectRequest is sent Joiner -> Host to request a seat.
type ConnectRequest struct {
	Mode              ConnectMode
	RequestedPlayerID PlayerID
	Nickname          string
	Password          string
}

// ConnectResponse is sent Host -> Joiner answering a ConnectRequest.
type ConnectResponse struct {
	Result   ConnectResult
	PlayerID PlayerID
}

// PlayerEntry is one roster slot as carried in a Reset message.
type PlayerEntry struct {
	ControllerPort PlayerID // -1 if the slot is empty
	Nickname       string
	Host           uint32 // peer address, network byte order
	Port           uint16
}

// Reset is broadcast Host -> peers to (re)synchronize the roster and
// Machine state. StateData is the trailing Machine snapshot.
type Reset struct {
	Cookie     uint32
	NumPlayers uint16
	Players    [MaxPlayers]PlayerEntry
	StateData  []byte
}

type ResetComplete struct {
	Cookie uint32
}

type ResumeSession struct{}

type PlayerJoined struct {
	PlayerID PlayerID
}

type DropPlayer struct {
	Reason   DropReason
	PlayerID PlayerID
}

type ResetRequest struct {
	Reason           ResetRequestReason
	CausingPlayerID  PlayerID
}

type CloseSession struct {
	Reason CloseReason
}

type ChatMessage struct {
	Text string
}

func putNickname(buf *bytes.Buffer, s string) {
	b := make([]byte, NicknameSize)
	copy(b, s)
	buf.Write(b)
}

func getNickname(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		i = len(b)
	}
	return string(b[:i])
}

// Encode serializes msg with its {type, size} header. msg must be one
// of the message struct types declared in this file.
func Encode(msg any) ([]byte, error) {
	var body bytes.Buffer
	var typ MessageType

	switch m := msg.(type) {
	case ConnectRequest:
		typ = MsgConnectRequest
		binary.Write(&body, binary.LittleEndian, uint8(m.Mode))
		binary.Write(&body, binary.LittleEndian, m.RequestedPlayerID)
		putNickname(&body, m.Nickname)
		putNickname(&body, m.Password)
	case ConnectResponse:
		typ = MsgConnectResponse
		binary.Write(&body, binary.LittleEndian, uint8(m.Result))
		binary.Write(&body, binary.LittleEndian, m.PlayerID)
	case Reset:
		typ = MsgReset
		binary.Write(&body, binary.LittleEndian, m.Cookie)
		binary.Write(&body, binary.LittleEndian, uint32(len(m.StateData)))
		binary.Write(&body, binary.LittleEndian, m.NumPlayers)
		for _, p := range m.Players {
			binary.Write(&body, binary.LittleEndian, p.ControllerPort)
			putNickname(&body, p.Nickname)
			binary.Write(&body, binary.LittleEndian, p.Host)
			binary.Write(&body, binary.LittleEndian, p.Port)
		}
		body.Write(m.StateData)
	case ResetComplete:
		typ = MsgResetComplete
		binary.Write(&body, binary.LittleEndian, m.Cookie)
	case ResumeSession:
		typ = MsgResumeSession
	case PlayerJoined:
		typ = MsgPlayerJoined
		binary.Write(&body, binary.LittleEndian, m.PlayerID)
	case DropPlayer:
		typ = MsgDropPlayer
		binary.Write(&body, binary.LittleEndian, uint8(m.Reason))
		binary.Write(&body, binary.LittleEndian, m.PlayerID)
	case ResetRequest:
		typ = MsgResetRequest
		binary.Write(&body, binary.LittleEndian, uint8(m.Reason))
		binary.Write(&body, binary.LittleEndian, m.CausingPlayerID)
	case CloseSession:
		typ = MsgCloseSession
		binary.Write(&body, binary.LittleEndian, uint8(m.Reason))
	case ChatMessage:
		typ = MsgChatMessage
		body.WriteString(m.Text)
	default:
		return nil, fmt.Errorf("netplay: unencodable message type %T", msg)
	}

	size := headerSize + body.Len()
	out := make([]byte, size)
	binary.LittleEndian.PutUint16(out[0:2], uint16(typ))
	binary.LittleEndian.PutUint16(out[2:4], uint16(size))
	copy(out[headerSize:], body.Bytes())
	return out, nil
}

// fixedBodySize is the minimum body length (header excluded) for each
// message type. Decode rejects any packet declaring less.
var fixedBodySize = map[MessageType]int{
	MsgConnectRequest:  1 + 2 + NicknameSize + PasswordSize,
	MsgConnectResponse: 1 + 2,
	MsgReset:           4 + 4 + 2 + MaxPlayers*(2+NicknameSize+4+2),
	MsgResetComplete:   4,
	MsgResumeSession:   0,
	MsgPlayerJoined:    2,
	MsgDropPlayer:      1 + 2,
	MsgResetRequest:    1 + 2,
	MsgCloseSession:    1,
	MsgChatMessage:     0,
}

// Decode parses a CONTROL packet's header and dispatches to the typed
// body. It returns ErrMalformedPacket if the declared size is smaller
// than the fixed portion of the typed message, or larger than the
// bytes actually present.
func Decode(raw []byte) (MessageType, any, error) {
	if len(raw) < headerSize {
		return 0, nil, ErrMalformedPacket
	}
	typ := MessageType(binary.LittleEndian.Uint16(raw[0:2]))
	size := int(binary.LittleEndian.Uint16(raw[2:4]))
	if size < headerSize || size > len(raw) {
		return 0, nil, ErrMalformedPacket
	}
	minBody, known := fixedBodySize[typ]
	if !known {
		return typ, nil, fmt.Errorf("netplay: unknown control message type %d", typ)
	}
	body := raw[headerSize:size]
	if len(body) < minBody {
		return typ, nil, ErrMalformedPacket
	}

	r := bytes.NewReader(body)
	switch typ {
	case MsgConnectRequest:
		var m ConnectRequest
		var mode uint8
		binary.Read(r, binary.LittleEndian, &mode)
		m.Mode = ConnectMode(mode)
		binary.Read(r, binary.LittleEndian, &m.RequestedPlayerID)
		nick := make([]byte, NicknameSize)
		r.Read(nick)
		m.Nickname = getNickname(nick)
		pass := make([]byte, PasswordSize)
		r.Read(pass)
		m.Password = getNickname(pass)
		return typ, m, nil
	case MsgConnectResponse:
		var m ConnectResponse
		var result uint8
		binary.Read(r, binary.LittleEndian, &result)
		m.Result = ConnectResult(result)
		binary.Read(r, binary.LittleEndian, &m.PlayerID)
		return typ, m, nil
	case MsgReset:
		var m Reset
		binary.Read(r, binary.LittleEndian, &m.Cookie)
		var stateSize uint32
		binary.Read(r, binary.LittleEndian, &stateSize)
		binary.Read(r, binary.LittleEndian, &m.NumPlayers)
		for i := range m.Players {
			binary.Read(r, binary.LittleEndian, &m.Players[i].ControllerPort)
			nick := make([]byte, NicknameSize)
			r.Read(nick)
			m.Players[i].Nickname = getNickname(nick)
			binary.Read(r, binary.LittleEndian, &m.Players[i].Host)
			binary.Read(r, binary.LittleEndian, &m.Players[i].Port)
		}
		if int(stateSize) > r.Len() {
			return typ, nil, ErrMalformedPacket
		}
		stateData := make([]byte, stateSize)
		if _, err := io.ReadFull(r, stateData); err != nil {
			return typ, nil, ErrMalformedPacket
		}
		m.StateData = stateData
		return typ, m, nil
	case MsgResetComplete:
		var m ResetComplete
		binary.Read(r, binary.LittleEndian, &m.Cookie)
		return typ, m, nil
	case MsgResumeSession:
		return typ, ResumeSession{}, nil
	case MsgPlayerJoined:
		var m PlayerJoined
		binary.Read(r, binary.LittleEndian, &m.PlayerID)
		return typ, m, nil
	case MsgDropPlayer:
		var m DropPlayer
		var reason uint8
		binary.Read(r, binary.LittleEndian, &reason)
		m.Reason = DropReason(reason)
		binary.Read(r, binary.LittleEndian, &m.PlayerID)
		return typ, m, nil
	case MsgResetRequest:
		var m ResetRequest
		var reason uint8
		binary.Read(r, binary.LittleEndian, &reason)
		m.Reason = ResetRequestReason(reason)
		binary.Read(r, binary.LittleEndian, &m.CausingPlayerID)
		return typ, m, nil
	case MsgCloseSession:
		var m CloseSession
		var reason uint8
		binary.Read(r, binary.LittleEndian, &reason)
		m.Reason = CloseReason(reason)
		return typ, m, nil
	case MsgChatMessage:
		return typ, ChatMessage{Text: string(body)}, nil
	}
	return typ, nil, fmt.Errorf("netplay: unknown control message type %d", typ)
}

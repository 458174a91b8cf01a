// Package netplay implements rollback-based two-player netcode for the
// emulator: a session state machine for peer discovery and resync, a
// rollback engine that speculatively advances the Machine and rewinds
// on late remote input, and an adaptive pacer that keeps both peers'
// clocks aligned.
package netplay

import (
	"errors"
	"time"
)

const (
	// MaxPlayers bounds the session to a head-to-head match. The
	// wire format and roster are sized to this constant throughout.
	MaxPlayers = 2

	// MaxRollbackFrames is the depth of speculative execution the
	// Rollback Engine is allowed before CanAdvance reports false and
	// the Session Runner stalls waiting for a confirmed remote input.
	MaxRollbackFrames = 8

	// NumChannels is the count of logical Transport channels: one
	// reliable/ordered channel for session control, one
	// unreliable channel for rollback input packets.
	NumChannels = 2

	// MaxConnectTime is how long a joiner waits for ConnectResponse,
	// and how long the host waits for stragglers during a resync,
	// before giving up.
	MaxConnectTime = 15 * time.Second

	// MaxConnectRetries bounds how many times a joiner redials
	// during MaxConnectTime before closing with a timeout error.
	MaxConnectRetries = 5

	// MaxCloseTime bounds how long ClosingSession drains pending
	// peer disconnects before forcing the session Inactive.
	MaxCloseTime = 3 * time.Second

	// NicknameSize and PasswordSize are the fixed, NUL-padded wire
	// widths of the corresponding ConnectRequest/Reset fields.
	NicknameSize = 128
	PasswordSize = 128
)

// SessionState is one of the states in the Session Runner's outer
// state machine. It is process-wide for the lifetime of a Session
// value and only the Session Runner may transition it.
type SessionState uint8

const (
	Inactive SessionState = iota
	Initializing
	Connecting
	Resetting
	Running
	ClosingSession
)

func (s SessionState) String() string {
	switch s {
	case Inactive:
		return "Inactive"
	case Initializing:
		return "Initializing"
	case Connecting:
		return "Connecting"
	case Resetting:
		return "Resetting"
	case Running:
		return "Running"
	case ClosingSession:
		return "ClosingSession"
	default:
		return "Unknown"
	}
}

// PlayerID identifies a roster slot. The host is always 0.
type PlayerID = int16

const NoPlayer PlayerID = -1

// Role distinguishes the one local peer that drives the roster
// (Host) from every other participant (Joiner).
type Role uint8

const (
	RoleHost Role = iota
	RoleJoiner
)

// CloseReason records why a session ended, for CloseSession and for
// the error surfaced to the Host.
type CloseReason uint8

const (
	CloseHostShutdown CloseReason = iota
	CloseTerminated
	CloseTimeout
	CloseError
)

var (
	ErrServerFull      = errors.New("netplay: server full")
	ErrPlayerIDInUse   = errors.New("netplay: requested player id in use")
	ErrSessionClosed   = errors.New("netplay: session closed")
	ErrConnectTimeout  = errors.New("netplay: timed out connecting to server")
	ErrResyncTimeout   = errors.New("netplay: timed out waiting for resync")
	ErrMalformedPacket = errors.New("netplay: malformed control packet")
	ErrCookieMismatch  = errors.New("netplay: reset cookie mismatch")
	ErrHostLost        = errors.New("netplay: lost connection to host")
)

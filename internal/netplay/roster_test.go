package netplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRosterLowestFreeSlot(t *testing.T) {
	var r Roster
	assert.Equal(t, PlayerID(0), r.LowestFreeSlot())

	r.Occupy(0, "host", "", PeerHandle(1))
	assert.Equal(t, PlayerID(1), r.LowestFreeSlot())

	r.Occupy(1, "joiner", "", PeerHandle(2))
	assert.Equal(t, NoPlayer, r.LowestFreeSlot())
}

func TestRosterClearDecrementsCount(t *testing.T) {
	var r Roster
	r.Occupy(0, "host", "", PeerHandle(1))
	r.Occupy(1, "joiner", "", PeerHandle(2))
	assert.Equal(t, 2, r.NumPlayers)

	r.Clear(1)
	assert.Equal(t, 1, r.NumPlayers)
	assert.False(t, r.Slots[1].Occupied)
}

func TestRosterReOccupyDoesNotDoubleCountNumPlayers(t *testing.T) {
	var r Roster
	r.Occupy(0, "host", "", PeerHandle(1))
	r.Occupy(1, "joiner", "addr-a", PeerHandle(2))
	assert.Equal(t, 2, r.NumPlayers)

	// A resync re-occupies an already-occupied remote slot with the
	// same peer; NumPlayers must not inflate.
	r.Occupy(1, "joiner", "addr-b", PeerHandle(2))
	assert.Equal(t, 2, r.NumPlayers)
	assert.Equal(t, "addr-b", r.Slots[1].Address)
}

func TestRosterClearIsIdempotent(t *testing.T) {
	var r Roster
	r.Occupy(0, "host", "", PeerHandle(1))
	r.Clear(0)
	r.Clear(0)
	assert.Equal(t, 0, r.NumPlayers)
}

func TestRosterCompleteRequiresEveryOccupiedSlot(t *testing.T) {
	var r Roster
	r.Occupy(0, "host", "", PeerHandle(1))
	r.Occupy(1, "joiner", "", PeerHandle(2))
	r.ResetAcks()
	assert.False(t, r.Complete())

	r.ResetPlayers[0] = true
	assert.False(t, r.Complete())

	r.ResetPlayers[1] = true
	assert.True(t, r.Complete())
}

func TestPeerSlotConnected(t *testing.T) {
	var s PeerSlot
	assert.False(t, s.connected())

	s.Occupied = true
	assert.False(t, s.connected())

	s.Peer = PeerHandle(5)
	assert.True(t, s.connected())
}

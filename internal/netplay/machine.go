package netplay

// Machine is the opaque collaborator the Rollback Engine and Session
// Runner drive: run one frame, save a snapshot, restore a snapshot,
// mute audio. Loading the game and every other
// hardware-accuracy concern belongs to the implementation behind this
// interface, not to netplay. See internal/netplay/gbmachine for the
// concrete adapter onto *gameboy.GameBoy - it lives in its own
// subpackage so that package netplay (and its tests) never depend on
// the emulator core's buildability.
type Machine interface {
	// RunFrame advances the Machine by exactly one frame under the
	// given per-player button bitfields, indexed by PlayerID.
	RunFrame(buttons [MaxPlayers]uint8)

	// SaveSnapshot serializes the complete Machine state into a
	// fresh byte slice.
	SaveSnapshot() []byte

	// LoadSnapshot restores the Machine state from bytes previously
	// produced by SaveSnapshot.
	LoadSnapshot(data []byte) error

	// SetMuted is the Rollback Engine's hook into audio muting,
	// asserted for the duration of a rewind replay.
	SetMuted(muted bool)
}

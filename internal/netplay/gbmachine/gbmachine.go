// Package gbmachine adapts *gameboy.GameBoy to netplay.Machine. It is
// kept out of package netplay deliberately: netplay and its tests must
// stay buildable independent of the emulator core underneath this
// adapter, per the Machine boundary described in netplay.Machine.
package gbmachine

import (
	"github.com/thelolagemann/gomeboy/internal/gameboy"
	"github.com/thelolagemann/gomeboy/internal/netplay"
	"github.com/thelolagemann/gomeboy/internal/types"
)

// Adapter wraps an already-booted GameBoy as a netplay.Machine.
// Player 0's buttons drive the joypad directly; MaxPlayers is 2 here
// but this core only has one physical joypad, so the other players'
// buttons passed to RunFrame are ignored.
type Adapter struct {
	gb *gameboy.GameBoy
}

// New wraps gb as a netplay.Machine.
func New(gb *gameboy.GameBoy) netplay.Machine {
	return &Adapter{gb: gb}
}

func (m *Adapter) RunFrame(buttons [netplay.MaxPlayers]uint8) {
	m.gb.SetButtons(buttons[0])
	m.gb.RunFrame()
}

func (m *Adapter) SaveSnapshot() []byte {
	s := types.NewState()
	m.gb.SaveState(s)
	return s.Bytes()
}

func (m *Adapter) LoadSnapshot(data []byte) error {
	s := types.StateFromBytes(data)
	m.gb.LoadState(s)
	return nil
}

func (m *Adapter) SetMuted(muted bool) {
	if muted {
		m.gb.Pause()
	} else {
		m.gb.Resume()
	}
}

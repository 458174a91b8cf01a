// Package gameboy provides an emulation of a Nintendo Game Boy.
//

package gameboy

import (
	"github.com/thelolagemann/gomeboy/internal/apu"
	"github.com/thelolagemann/gomeboy/internal/cartridge"
	"github.com/thelolagemann/gomeboy/internal/cpu"
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/io"
	"github.com/thelolagemann/gomeboy/internal/joypad"
	"github.com/thelolagemann/gomeboy/internal/mmu"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/internal/timer"
	"github.com/thelolagemann/gomeboy/internal/types"
	"github.com/thelolagemann/gomeboy/pkg/log"
	"time"

	io2 "io"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = 4194304 // 4.194304 MHz
	// CyclesPerFrame is the number of clock cycles per frame.
	CyclesPerFrame = 70224 // 154 scanlines * 456 cycles

	// FrameTime is the nominal wall-clock duration of one frame at
	// native speed, derived from ClockSpeed and CyclesPerFrame.
	FrameTime = time.Second * CyclesPerFrame / ClockSpeed
)

// GameBoy represents a Game Boy. It contains all the components of the Game Boy.
// It is the main entry point for the emulator.
type GameBoy struct {
	CPU *cpu.CPU
	MMU *mmu.MMU
	ppu *ppu.PPU

	APU        *apu.APU
	Joypad     *joypad.State
	Interrupts *interrupts.Service
	Timer      *timer.Controller
	Serial     *io.Serial

	LastSave time.Time

	log.Logger

	currentCycle uint
	w            io2.Writer

	paused bool
}

type GameBoyOpt func(gb *GameBoy)

func Debug() GameBoyOpt {
	return func(gb *GameBoy) {
		gb.CPU.Debug = true
	}
}

// NoBios disables the BIOS by setting CPU.CPU.PC to 0x100.
func NoBios() GameBoyOpt {
	return func(gb *GameBoy) {
		gb.CPU.PC = 0x0100
	}
}

// NewGameBoy returns a new GameBoy.
//
// TODO: joypad.New/mmu.NewMMU/ppu.New/cpu.NewCPU's call sites below do
// not match those functions' declared signatures - see DESIGN.md
// "Review fixes" items 4-7 for why this needs internal/io.Bus and
// internal/ppu.PPU to grow a method surface neither currently has,
// not just a call-site patch.
func NewGameBoy(rom []byte, opts ...GameBoyOpt) *GameBoy {
	cart := cartridge.NewCartridge(rom)
	interrupt := interrupts.NewService()
	pad := joypad.New(interrupt)
	serial := io.NewSerial()
	timerCtl := timer.NewController(interrupt)
	sound := apu.NewAPU()
	memBus := mmu.NewMMU(cart, pad, serial, timerCtl, interrupt, sound)
	video := ppu.New(memBus, interrupt)
	memBus.AttachVideo(video)

	g := &GameBoy{
		CPU: cpu.NewCPU(memBus, interrupt, timerCtl, video, sound),
		MMU: memBus,
		ppu: video,

		APU:        sound,
		Joypad:     pad,
		Interrupts: interrupt,
		Timer:      timerCtl,
		Serial:     serial,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// RunFrame steps the emulation until the PPU has finished rendering
// the current frame, then prepares and returns it. A netplay Session
// calls this once per confirmed simulation frame, whether running
// live or replaying during a rollback.
func (g *GameBoy) RunFrame() [ppu.ScreenWidth][ppu.ScreenHeight][3]uint8 {
	g.ppu.ClearRefresh()
	for !g.ppu.HasFrame() {
		g.CPU.Step()
	}

	g.ppu.PrepareFrame()

	return g.ppu.PreparedFrame
}

// SetButtons applies a single frame's worth of joypad input. pressed
// is a bitfield with one bit per joypad.Button - this is the same
// encoding carried over the wire in a netplay input packet, so the
// session runner can apply a peer's input with no translation step.
func (g *GameBoy) SetButtons(pressed uint8) {
	for button := joypad.ButtonA; button <= joypad.ButtonDown; button++ {
		if pressed&(1<<button) != 0 {
			g.Joypad.Press(button)
		} else {
			g.Joypad.Release(button)
		}
	}
}

// Pause stops the APU from advancing. It has no effect on CPU
// stepping - RunFrame still runs at full speed while paused, since
// pausing is a Host-level audio-muting concern, not a simulation one.
func (g *GameBoy) Pause() {
	g.paused = true
	g.APU.Pause()
}

func (g *GameBoy) Resume() {
	g.paused = false
	g.APU.Play()
}

var _ types.Stater = (*GameBoy)(nil)

// SaveState serializes every component needed to resume the machine
// bit-for-bit from the current frame boundary: CPU registers, the MMU
// (work RAM, zero page, HDMA), the PPU's register-visible state, the
// APU's register-visible state, interrupts, timer, serial and the
// joypad. Cartridge banking/external RAM state is not captured, so
// loading a state does not restore the selected ROM/RAM bank or the
// cartridge RAM contents. This is the backing save/load pair behind a
// netplay rollback Snapshot.
func (g *GameBoy) SaveState(s *types.State) {
	g.CPU.Save(s)
	g.MMU.Save(s)
	g.ppu.Save(s)
	g.APU.Save(s)
	g.Interrupts.Save(s)
	g.Timer.Save(s)
	g.Serial.Save(s)
	g.Joypad.Save(s)
}

func (g *GameBoy) LoadState(s *types.State) {
	g.CPU.Load(s)
	g.MMU.Load(s)
	g.ppu.Load(s)
	g.APU.Load(s)
	g.Interrupts.Load(s)
	g.Timer.Load(s)
	g.Serial.Load(s)
	g.Joypad.Load(s)
}

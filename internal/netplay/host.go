package netplay

// Host is the narrow callback surface the Session Runner drives: chat
// and error surfacing, loading-screen progress, settings overlay
// application and a hook to keep the Host's own message pump alive
// while the CPU thread is busy throttling. None of these concerns -
// GUI, audio device, settings persistence - belong to netplay itself.
type Host interface {
	OnNetplayMessage(text string)
	DisplayLoadingScreen(text string, progress *int)
	PumpMessagesOnCPUThread()
	ReportErrorAsync(title, message string)
	SetNetplaySettingsLayer(overlay *SettingsOverlay)
}

// SettingsOverlay is the fixed configuration forced on every peer for
// the duration of a session, so that rollback has a deterministic,
// low-latency Machine to work with.
type SettingsOverlay struct {
	ControllerType               string
	RunaheadFrameCount           int
	RewindEnable                 bool
	RecompilerBlockLinking       bool
	UseSoftwareRendererReadbacks bool
}

// DefaultSettingsOverlay is the overlay applied for every netplay
// session per §6: a single digital controller, no runahead or
// rewind competing with netplay's own rollback, and no behind-the-back
// recompiler or GPU readback optimizations that would make Machine
// state harder to snapshot deterministically.
func DefaultSettingsOverlay() *SettingsOverlay {
	return &SettingsOverlay{
		ControllerType:               "DigitalController",
		RunaheadFrameCount:           0,
		RewindEnable:                 false,
		RecompilerBlockLinking:       false,
		UseSoftwareRendererReadbacks: true,
	}
}

// InputProvider is a per-slot, per-binding floating point input
// source, e.g. an analog stick axis or a digital button read as 0/1.
// Only slot 0 (the local player's own controller) is read by the
// Session Runner; §4.4 notes multi-slot input is not supported by the
// current design.
type InputProvider interface {
	Sample(slot, binding int) float64
}

// bindingThreshold is the activation threshold applied when folding
// floating point input into the joypad's button bitfield.
const bindingThreshold = 0.25

// numBindings mirrors the joypad's eight physical buttons.
const numBindings = 8

// sampleLocalButtons folds the Input Provider's slot-0 readings into
// a joypad.Button-indexed bitfield: bit i is set iff
// input_value[slot=0][binding=i] >= 0.25.
func sampleLocalButtons(in InputProvider) uint8 {
	var b uint8
	for i := 0; i < numBindings; i++ {
		if in.Sample(0, i) >= bindingThreshold {
			b |= 1 << i
		}
	}
	return b
}

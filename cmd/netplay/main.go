package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/thelolagemann/gomeboy/internal/gameboy"
	"github.com/thelolagemann/gomeboy/internal/netplay"
	"github.com/thelolagemann/gomeboy/internal/netplay/gbmachine"
	"github.com/thelolagemann/gomeboy/pkg/utils"
)

// cliInputProvider samples a fixed bitfield set once at startup. A
// real Host drives InputProvider from the keyboard/gamepad; this CLI
// exists to exercise the Session API end to end without a GUI.
type cliInputProvider struct {
	buttons uint8
}

func (c *cliInputProvider) Sample(slot, binding int) float64 {
	if slot != 0 {
		return 0
	}
	if c.buttons&(1<<binding) != 0 {
		return 1
	}
	return 0
}

// cliHost is the minimal Host implementation: messages and errors go
// to stderr, the settings overlay is accepted and ignored since there
// is no GUI settings layer to apply it to.
type cliHost struct {
	log *logrus.Logger
}

func (h *cliHost) OnNetplayMessage(text string)                    { h.log.Info(text) }
func (h *cliHost) DisplayLoadingScreen(text string, progress *int) { h.log.Info(text) }
func (h *cliHost) PumpMessagesOnCPUThread()                        {}
func (h *cliHost) ReportErrorAsync(title, message string)          { h.log.WithField("title", title).Error(message) }
func (h *cliHost) SetNetplaySettingsLayer(overlay *netplay.SettingsOverlay) {}

func main() {
	romPath := flag.String("rom", "", "the rom file to load")
	host := flag.Bool("host", false, "host a session instead of joining one")
	nickname := flag.String("nickname", "player", "nickname announced to peers")
	port := flag.Int("port", 37000, "local port to bind (host) or dial (joiner)")
	remote := flag.String("remote", "", "host address to dial, required unless -host")
	password := flag.String("password", "", "session password")
	maxPlayers := flag.Int("max-players", netplay.MaxPlayers, "maximum players for a hosted session")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "missing -rom")
		os.Exit(1)
	}
	rom, err := utils.LoadFile(*romPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load rom:", err)
		os.Exit(1)
	}

	log := logrus.New()
	gb := gameboy.NewGameBoy(rom, gameboy.NoBios())
	machine := gbmachine.New(gb)
	transport := netplay.NewUDPTransport(log)
	input := &cliInputProvider{}

	session := netplay.NewSession(machine, &cliHost{log: log}, input, transport, gameboy.FrameTime, log)

	var ok bool
	if *host {
		ok = session.CreateSession(*nickname, *port, *maxPlayers, *password)
	} else {
		if *remote == "" {
			fmt.Fprintln(os.Stderr, "missing -remote (required unless -host)")
			os.Exit(1)
		}
		ok = session.JoinSession(*nickname, *remote, *port, *password)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "failed to start netplay session")
		os.Exit(1)
	}

	if err := session.ExecuteNetplay(); err != nil {
		fmt.Fprintln(os.Stderr, "netplay session ended:", err)
		os.Exit(1)
	}
}

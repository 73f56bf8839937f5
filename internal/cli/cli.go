package cli

import (
	"github.com/reeflink/mobiusctl/internal/commands"
	"github.com/reeflink/mobiusctl/internal/config"
	"github.com/reeflink/mobiusctl/internal/tui"
)

// CLI is the root command structure for mobiusctl.
type CLI struct {
	Verbose bool   `short:"v" help:"Enable verbose debug output"`
	Address string `short:"a" help:"Device MAC address (scans for one device if omitted)"`

	// Default command - TUI
	Tui TuiCmd `cmd:"" default:"withargs" help:"Launch interactive TUI (default)"`

	Scan     ScanCmd     `cmd:"" help:"List nearby Mobius devices"`
	Scene    SceneCmd    `cmd:"" help:"Get or set the running scene"`
	Feed     FeedCmd     `cmd:"" help:"Start feed mode (scene 1)"`
	Schedule ScheduleCmd `cmd:"" help:"Put the device back on its programmed schedule"`
}

// --- TUI Command ---

type TuiCmd struct{}

func (c *TuiCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	return tui.Run(globals.Address)
}

// --- Scan Command ---

type ScanCmd struct{}

func (c *ScanCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	return commands.Scan()
}

// --- Scene Commands ---

type SceneCmd struct {
	Get SceneGetCmd `cmd:"" help:"Show the currently running scene"`
	Set SceneSetCmd `cmd:"" help:"Switch to a scene by id"`
}

type SceneGetCmd struct{}

func (c *SceneGetCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	session, cleanup, err := commands.Connect(globals.Address)
	if err != nil {
		return err
	}
	defer cleanup()
	return commands.SceneGet(session)
}

type SceneSetCmd struct {
	Scene    uint16 `arg:"" help:"Scene id to switch to"`
	NoVerify bool   `help:"Do not wait for the device to confirm"`
}

func (c *SceneSetCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	session, cleanup, err := commands.Connect(globals.Address)
	if err != nil {
		return err
	}
	defer cleanup()
	return commands.SceneSet(session, c.Scene, !c.NoVerify)
}

// --- Feed Command ---

type FeedCmd struct {
	NoVerify bool `help:"Do not wait for the device to confirm"`
}

func (c *FeedCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	session, cleanup, err := commands.Connect(globals.Address)
	if err != nil {
		return err
	}
	defer cleanup()
	return commands.Feed(session, !c.NoVerify)
}

// --- Schedule Command ---

type ScheduleCmd struct {
	NoVerify bool `help:"Do not wait for the device to confirm"`
}

func (c *ScheduleCmd) Run(globals *CLI) error {
	config.Verbose = globals.Verbose
	session, cleanup, err := commands.Connect(globals.Address)
	if err != nil {
		return err
	}
	defer cleanup()
	return commands.Schedule(session, !c.NoVerify)
}

package main

import (
	"github.com/alecthomas/kong"

	"github.com/reeflink/mobiusctl/internal/cli"
)

func main() {
	var root cli.CLI
	ctx := kong.Parse(&root,
		kong.Name("mobiusctl"),
		kong.Description("Control Mobius aquarium devices over BLE"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&root)
	ctx.FatalIfErrorf(err)
}

package commands

import (
	"fmt"

	"github.com/reeflink/mobiusctl/internal/ble"
	"github.com/reeflink/mobiusctl/internal/config"
	"github.com/reeflink/mobiusctl/internal/mobius"
)

// Scan lists the addresses of nearby Mobius devices.
func Scan() error {
	adapter := ble.New()
	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable bluetooth: %w", err)
	}

	cfg := mobius.Config{Status: &progressStatus{}}
	if config.Verbose {
		cfg.Logger = debugLogger()
	}

	addresses, err := mobius.ScanForDevices(adapter, cfg)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(addresses) == 0 {
		fmt.Println("No Mobius devices found.")
		return nil
	}

	fmt.Printf("Found %d device(s):\n", len(addresses))
	for _, addr := range addresses {
		fmt.Printf("  %s\n", addr)
	}
	return nil
}

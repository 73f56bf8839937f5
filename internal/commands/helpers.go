package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/reeflink/mobiusctl/internal/ble"
	"github.com/reeflink/mobiusctl/internal/config"
	"github.com/reeflink/mobiusctl/internal/mobius"
)

func debugLogger() mobius.Logger {
	l := &logrus.Logger{
		Formatter: &logrus.TextFormatter{DisableTimestamp: true},
		Level:     logrus.DebugLevel,
		Out:       os.Stderr,
		Hooks:     make(logrus.LevelHooks),
	}
	return l.WithField("component", "mobius")
}

// Connect establishes a session with a Mobius device. With an empty
// address it scans for nearby devices first and requires exactly one
// match. The returned cleanup disconnects the session.
func Connect(address string) (*mobius.Session, func(), error) {
	adapter := ble.New()
	if err := adapter.Enable(); err != nil {
		return nil, nil, fmt.Errorf("failed to enable bluetooth: %w", err)
	}

	cfg := mobius.Config{Status: &progressStatus{}}
	if config.Verbose {
		// Frame hex dumps come out of the session at debug level.
		cfg.Logger = debugLogger()
	}

	if address == "" {
		addresses, err := mobius.ScanForDevices(adapter, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("scan failed: %w", err)
		}
		switch len(addresses) {
		case 0:
			return nil, nil, fmt.Errorf("no Mobius devices found")
		case 1:
			address = addresses[0]
			config.Debugf("using discovered device %s", address)
		default:
			fmt.Fprintln(os.Stderr, "Multiple devices found, pick one with --address:")
			for _, addr := range addresses {
				fmt.Fprintf(os.Stderr, "  %s\n", addr)
			}
			return nil, nil, fmt.Errorf("%d devices found", len(addresses))
		}
	}

	session := mobius.NewSession(adapter, address, cfg)
	if err := session.Connect(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	cleanup := func() { session.Disconnect() }
	return session, cleanup, nil
}

// progressStatus prints one line per connection phase to stderr.
// Callbacks repeat once per poll inside the retry loops, so the phase
// is tracked to keep the output quiet.
type progressStatus struct {
	phase string
}

func (p *progressStatus) report(phase string) {
	if p.phase == phase {
		return
	}
	p.phase = phase
	fmt.Fprintf(os.Stderr, "%s...\n", phase)
}

func (p *progressStatus) Scanning()    { p.report("Scanning") }
func (p *progressStatus) Connecting()  { p.report("Connecting") }
func (p *progressStatus) Discovering() { p.report("Discovering services") }
func (p *progressStatus) Sending()     { config.Debugf("sending request") }

func (p *progressStatus) BindFailed() {
	fmt.Fprintln(os.Stderr, "Characteristic binding failed, retrying...")
}

func (p *progressStatus) RequestFailed() {
	fmt.Fprintln(os.Stderr, "Request failed")
}

// Package ble implements the transport interfaces over
// tinygo.org/x/bluetooth.
package ble

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/reeflink/mobiusctl/internal/config"
	"github.com/reeflink/mobiusctl/internal/transport"
)

// scanStartGrace is how long a freshly started scan must survive before
// we consider it running. adapter.Scan blocks for the lifetime of a
// healthy scan, so an early return means it never started.
const scanStartGrace = 100 * time.Millisecond

// Adapter adapts the platform BLE central to transport.Transport.
type Adapter struct {
	adapter *bluetooth.Adapter

	mu       sync.Mutex
	enabled  bool
	scanning bool
	found    chan bluetooth.ScanResult
}

// New returns an Adapter over the default platform adapter. Enable must
// be called before scanning.
func New() *Adapter {
	return &Adapter{adapter: bluetooth.DefaultAdapter}
}

// Enable powers on the radio. Safe to call more than once.
func (a *Adapter) Enable() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled {
		return nil
	}
	if err := a.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable bluetooth: %w", err)
	}
	a.enabled = true
	return nil
}

// ScanForName starts a scan reporting peers whose advertised name equals
// name.
func (a *Adapter) ScanForName(name string) error {
	return a.startScan(func(r bluetooth.ScanResult) bool {
		return strings.EqualFold(r.LocalName(), name)
	})
}

// ScanForAddress starts a directed scan for a single address.
func (a *Adapter) ScanForAddress(address string) error {
	return a.startScan(func(r bluetooth.ScanResult) bool {
		return strings.EqualFold(resultAddress(r), address)
	})
}

func (a *Adapter) startScan(match func(bluetooth.ScanResult) bool) error {
	a.mu.Lock()
	if a.scanning {
		a.mu.Unlock()
		return fmt.Errorf("scan already in progress")
	}
	a.scanning = true
	a.found = make(chan bluetooth.ScanResult, 8)
	found := a.found
	a.mu.Unlock()

	errc := make(chan error, 1)
	go func() {
		err := a.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !match(result) {
				return
			}
			config.Debugf("scan hit: %q (%s)", result.LocalName(), resultAddress(result))
			select {
			case found <- result:
			default:
			}
		})
		a.mu.Lock()
		a.scanning = false
		a.mu.Unlock()
		errc <- err
	}()

	select {
	case err := <-errc:
		if err == nil {
			err = fmt.Errorf("scan stopped before starting")
		}
		return err
	case <-time.After(scanStartGrace):
		return nil
	}
}

// NextAvailable returns a peer discovered since the last call, if any.
func (a *Adapter) NextAvailable() (transport.Peripheral, bool) {
	a.mu.Lock()
	found := a.found
	a.mu.Unlock()
	if found == nil {
		return nil, false
	}
	select {
	case result := <-found:
		return &peripheral{adapter: a.adapter, result: result}, true
	default:
		return nil, false
	}
}

// StopScan stops a running scan. Stopping an idle adapter is not an
// error.
func (a *Adapter) StopScan() error {
	a.mu.Lock()
	scanning := a.scanning
	a.mu.Unlock()
	if !scanning {
		return nil
	}
	return a.adapter.StopScan()
}

func resultAddress(r bluetooth.ScanResult) string {
	text, err := r.Address.MarshalText()
	if err != nil {
		return ""
	}
	return string(text)
}

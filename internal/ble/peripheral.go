package ble

import (
	"fmt"
	"strings"
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/reeflink/mobiusctl/internal/config"
	"github.com/reeflink/mobiusctl/internal/transport"
)

type peripheral struct {
	adapter *bluetooth.Adapter
	result  bluetooth.ScanResult

	device    bluetooth.Device
	connected bool
	// UUID -> characteristic, filled by DiscoverService.
	chars map[string]*bluetooth.DeviceCharacteristic
}

func (p *peripheral) Address() string {
	return resultAddress(p.result)
}

func (p *peripheral) Connect() error {
	device, err := p.adapter.Connect(p.result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	p.device = device
	p.connected = true
	return nil
}

func (p *peripheral) Disconnect() error {
	if !p.connected {
		return nil
	}
	p.connected = false
	p.chars = nil
	return p.device.Disconnect()
}

// DiscoverService locates serviceUUID on the peer and discovers its
// characteristics.
func (p *peripheral) DiscoverService(serviceUUID string) error {
	if !p.connected {
		return fmt.Errorf("not connected")
	}

	services, err := p.device.DiscoverServices(nil)
	if err != nil {
		return fmt.Errorf("failed to discover services: %w", err)
	}

	var service *bluetooth.DeviceService
	for i := range services {
		if strings.EqualFold(services[i].UUID().String(), serviceUUID) {
			service = &services[i]
			break
		}
	}
	if service == nil {
		return fmt.Errorf("service %s not found", serviceUUID)
	}

	chars, err := service.DiscoverCharacteristics(nil)
	if err != nil {
		return fmt.Errorf("failed to discover characteristics: %w", err)
	}

	p.chars = make(map[string]*bluetooth.DeviceCharacteristic, len(chars))
	for i := range chars {
		uuid := strings.ToLower(chars[i].UUID().String())
		config.Debugf("found characteristic: %s", uuid)
		p.chars[uuid] = &chars[i]
	}
	return nil
}

func (p *peripheral) Characteristic(charUUID string) (transport.Characteristic, error) {
	char, ok := p.chars[strings.ToLower(charUUID)]
	if !ok {
		return nil, fmt.Errorf("characteristic %s not found", charUUID)
	}
	return &characteristic{char: char}, nil
}

type characteristic struct {
	char *bluetooth.DeviceCharacteristic

	mu      sync.Mutex
	pending [][]byte
}

// CanWrite and CanSubscribe report true: tinygo's bluetooth package does
// not expose GATT property flags, so capability failures surface from
// Write and Subscribe instead.
func (c *characteristic) CanWrite() bool     { return true }
func (c *characteristic) CanSubscribe() bool { return true }

func (c *characteristic) Write(data []byte) error {
	if _, err := c.char.WriteWithoutResponse(data); err != nil {
		return fmt.Errorf("failed to write characteristic: %w", err)
	}
	return nil
}

func (c *characteristic) Subscribe() error {
	err := c.char.EnableNotifications(func(buf []byte) {
		value := make([]byte, len(buf))
		copy(value, buf)
		c.mu.Lock()
		c.pending = append(c.pending, value)
		c.mu.Unlock()
	})
	if err != nil {
		return fmt.Errorf("failed to enable notifications: %w", err)
	}
	return nil
}

func (c *characteristic) HasNewValue() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending) > 0
}

func (c *characteristic) ReadValue(buf []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return 0, fmt.Errorf("no value available")
	}
	value := c.pending[0]
	c.pending = c.pending[1:]
	return copy(buf, value), nil
}

package mobius

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/reeflink/mobiusctl/internal/protocol"
	"github.com/reeflink/mobiusctl/internal/transport"
)

// fakeChar implements transport.Characteristic with a scripted value
// queue and a write log.
type fakeChar struct {
	writable     bool
	subscribable bool
	subscribeErr error
	subscribed   bool

	writes  [][]byte
	onWrite func(data []byte)

	queue [][]byte
	polls int
}

func (c *fakeChar) CanWrite() bool { return c.writable }

func (c *fakeChar) Write(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	c.writes = append(c.writes, cp)
	if c.onWrite != nil {
		c.onWrite(cp)
	}
	return nil
}

func (c *fakeChar) CanSubscribe() bool { return c.subscribable }

func (c *fakeChar) Subscribe() error {
	if c.subscribeErr != nil {
		return c.subscribeErr
	}
	c.subscribed = true
	return nil
}

func (c *fakeChar) HasNewValue() bool {
	c.polls++
	return len(c.queue) > 0
}

func (c *fakeChar) ReadValue(buf []byte) (int, error) {
	if len(c.queue) == 0 {
		return 0, fmt.Errorf("no value available")
	}
	value := c.queue[0]
	c.queue = c.queue[1:]
	return copy(buf, value), nil
}

func (c *fakeChar) inject(value []byte) {
	c.queue = append(c.queue, value)
}

// fakePeripheral implements transport.Peripheral with per-call error
// scripts.
type fakePeripheral struct {
	address string

	connectErrs  []error // consumed one per Connect call; nil entry = success
	connectCalls int

	discoverErrs  []error
	discoverCalls int

	disconnects int

	chars map[string]*fakeChar
}

func (p *fakePeripheral) Address() string { return p.address }

func (p *fakePeripheral) Connect() error {
	p.connectCalls++
	if len(p.connectErrs) > 0 {
		err := p.connectErrs[0]
		p.connectErrs = p.connectErrs[1:]
		return err
	}
	return nil
}

func (p *fakePeripheral) Disconnect() error {
	p.disconnects++
	return nil
}

func (p *fakePeripheral) DiscoverService(serviceUUID string) error {
	p.discoverCalls++
	if len(p.discoverErrs) > 0 {
		err := p.discoverErrs[0]
		p.discoverErrs = p.discoverErrs[1:]
		return err
	}
	return nil
}

func (p *fakePeripheral) Characteristic(charUUID string) (transport.Characteristic, error) {
	char, ok := p.chars[charUUID]
	if !ok {
		return nil, fmt.Errorf("characteristic %s not found", charUUID)
	}
	return char, nil
}

// fakeTransport implements transport.Transport. The directed scan yields
// peer after availableAfter NextAvailable polls (-1 = never).
type fakeTransport struct {
	peer           *fakePeripheral
	availableAfter int

	scanStartFailures int // first n ScanForAddress calls fail
	scanStarts        int
	nextCalls         int
	stops             int

	namePeers []*fakePeripheral // yielded by ScanForName scans
	nameScans int
}

func (t *fakeTransport) ScanForName(name string) error {
	t.nameScans++
	return nil
}

func (t *fakeTransport) ScanForAddress(address string) error {
	t.scanStarts++
	if t.scanStarts <= t.scanStartFailures {
		return fmt.Errorf("scan did not start")
	}
	return nil
}

func (t *fakeTransport) NextAvailable() (transport.Peripheral, bool) {
	if t.nameScans > 0 && len(t.namePeers) > 0 {
		peer := t.namePeers[0]
		t.namePeers = t.namePeers[1:]
		return peer, true
	}
	t.nextCalls++
	if t.peer == nil || t.availableAfter < 0 || t.nextCalls <= t.availableAfter {
		return nil, false
	}
	return t.peer, true
}

func (t *fakeTransport) StopScan() error {
	t.stops++
	return nil
}

const testAddress = "a4:c1:38:0a:0b:0c"

// newFakeDevice builds a peripheral with all three Mobius
// characteristics healthy. respond, when non-nil, maps each written
// request frame to the confirm queued on the final RX characteristic.
func newFakeDevice(respond func(request []byte) []byte) *fakePeripheral {
	requestChar := &fakeChar{writable: true}
	dataChar := &fakeChar{subscribable: true}
	finalChar := &fakeChar{subscribable: true}
	if respond != nil {
		requestChar.onWrite = func(request []byte) {
			if confirm := respond(request); confirm != nil {
				finalChar.inject(confirm)
			}
		}
	}
	return &fakePeripheral{
		address: testAddress,
		chars: map[string]*fakeChar{
			protocol.RequestCharUUID:       requestChar,
			protocol.ResponseDataCharUUID:  dataChar,
			protocol.ResponseFinalCharUUID: finalChar,
		},
	}
}

// confirmFrame builds the device's confirm for a request, echoing
// marker, op code and message id. The trailer is junk, as on real
// hardware.
func confirmFrame(request, payload []byte) []byte {
	frame := make([]byte, len(payload)+protocol.FrameOverhead)
	frame[0] = protocol.StartMarker
	frame[1] = protocol.OpGroupConfirm
	frame[2] = request[2]
	copy(frame[3:5], request[3:5])
	binary.LittleEndian.PutUint16(frame[7:9], uint16(len(payload)))
	copy(frame[protocol.PayloadOffset:], payload)
	frame[len(frame)-2] = 0xAB
	frame[len(frame)-1] = 0xCD
	return frame
}

func successConfirm(request []byte) []byte {
	return confirmFrame(request, []byte{0x00, 0xFF, 0xFF})
}

func testConfig() Config {
	return Config{PollInterval: 1} // 1ns keeps the bounded loops fast
}

func connectedSession(t *testing.T, tr *fakeTransport) *Session {
	t.Helper()
	s := NewSession(tr, testAddress, testConfig())
	if err := s.Connect(); err != nil {
		t.Fatalf("test session failed to connect: %v", err)
	}
	return s
}

// Package mobius drives one Mobius device over a BLE transport: peer
// discovery, connection and characteristic binding with bounded retries,
// and the framed attribute request/response engine.
package mobius

import (
	"time"

	"github.com/reeflink/mobiusctl/internal/protocol"
	"github.com/reeflink/mobiusctl/internal/transport"
)

// State is the session's position in the connect pipeline.
type State int

const (
	StateIdle State = iota
	StateScanning
	StatePeerFound
	StateConnecting
	StateDiscovering
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StatePeerFound:
		return "peer found"
	case StateConnecting:
		return "connecting"
	case StateDiscovering:
		return "discovering"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Retry ceilings. Every wait in the session is a bounded poll loop; the
// ceilings are the de facto timeout mechanism, so none of them may be
// removed or made unbounded.
const (
	scanStartAttempts = 4  // attempts to begin a directed scan
	peerPollLimit     = 26 // polls waiting for the directed scan to yield the peer
	connectAttempts   = 2  // outer connect attempts
	discoverAttempts  = 3  // service discovery + bind attempts per connect
	responsePollLimit = 5  // polls waiting for a confirm notification
)

// initialMessageID is where the counter restarts on every successful
// connect. The firmware does not care; 2 matches the vendor app.
const initialMessageID = 2

// Session is one connect-to-disconnect lifetime with a single Mobius
// device. It owns the peer handle and both characteristic handles
// exclusively, and is not safe for concurrent use: one request at a
// time, strictly sequenced.
type Session struct {
	tr      transport.Transport
	address string
	cfg     Config
	log     Logger

	state        State
	peer         transport.Peripheral
	requestChar  transport.Characteristic
	responseChar transport.Characteristic
	messageID    uint16
}

// NewSession creates a session bound to a device address. The address is
// immutable for the session's lifetime.
func NewSession(tr transport.Transport, address string, cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		tr:      tr,
		address: address,
		cfg:     cfg,
		log:     cfg.Logger,
		state:   StateIdle,
	}
}

// Address returns the device address the session was created with.
func (s *Session) Address() string { return s.address }

// State returns the current connectivity state.
func (s *Session) State() State { return s.state }

// Connected reports whether the full connect pipeline has completed.
func (s *Session) Connected() bool { return s.state == StateConnected }

// Connect scans for the device, connects, discovers the Mobius service
// and binds its characteristics. The message id counter restarts on
// every call. On any failure the session collapses back to a fully
// unbound state.
func (s *Session) Connect() error {
	s.messageID = initialMessageID

	peer, err := s.findPeer()
	if err != nil {
		s.state = StateDisconnected
		return err
	}

	if err := s.connectPeer(peer); err != nil {
		s.reset()
		s.state = StateDisconnected
		return err
	}

	s.peer = peer
	s.state = StateConnected
	s.log.Infof("connected to %s", s.address)
	return nil
}

// Disconnect releases the peer and characteristic handles. Idempotent;
// the transport-level scan stop is issued regardless of prior state.
// Returns whether the peer is no longer connected.
func (s *Session) Disconnect() bool {
	disconnected := true
	if s.peer != nil {
		if err := s.peer.Disconnect(); err != nil {
			s.log.Warnf("disconnect: %v", err)
			disconnected = false
		}
	}
	s.reset()
	_ = s.tr.StopScan()
	s.state = StateDisconnected
	return disconnected
}

func (s *Session) reset() {
	s.peer = nil
	s.requestChar = nil
	s.responseChar = nil
}

// findPeer starts a directed scan for the session address and polls for
// the peer. Scanning is stopped on every exit path.
func (s *Session) findPeer() (transport.Peripheral, error) {
	s.state = StateScanning
	defer func() { _ = s.tr.StopScan() }()

	started := false
	for i := 0; i < scanStartAttempts; i++ {
		s.cfg.Status.Scanning()
		if err := s.tr.ScanForAddress(s.address); err != nil {
			s.log.Debugf("directed scan start (attempt %d): %v", i+1, err)
			s.pause()
			continue
		}
		started = true
		break
	}
	if !started {
		return nil, ErrScanStart
	}

	for i := 0; i < peerPollLimit; i++ {
		if peer, ok := s.tr.NextAvailable(); ok {
			s.state = StatePeerFound
			s.log.Debugf("found %s after %d polls", s.address, i+1)
			return peer, nil
		}
		s.cfg.Status.Scanning()
		s.pause()
	}
	return nil, ErrDeviceNotFound
}

// connectPeer connects to the peer and binds the Mobius characteristics,
// retrying per the ceilings above. A connected peer that fails to bind
// is disconnected before the next attempt so no half-bound state
// survives.
func (s *Session) connectPeer(peer transport.Peripheral) error {
	err := ErrConnectFailed
	for attempt := 0; attempt < connectAttempts; attempt++ {
		s.state = StateConnecting
		s.cfg.Status.Connecting()

		if cerr := peer.Connect(); cerr != nil {
			s.log.Debugf("connect (attempt %d): %v", attempt+1, cerr)
			err = ErrConnectFailed
			continue
		}

		s.state = StateDiscovering
		bound := false
		for i := 0; i < discoverAttempts && !bound; i++ {
			s.cfg.Status.Discovering()
			if derr := peer.DiscoverService(protocol.ServiceUUID); derr != nil {
				s.log.Debugf("service discovery (attempt %d): %v", i+1, derr)
				continue
			}
			bound = s.bindCharacteristics(peer)
		}
		if bound {
			return nil
		}

		_ = peer.Disconnect()
		err = ErrBindFailed
	}
	return err
}

// bindCharacteristics resolves the request characteristic and subscribes
// both response characteristics. All three are required; any failure
// leaves both handles unbound.
func (s *Session) bindCharacteristics(peer transport.Peripheral) bool {
	requestChar, err := peer.Characteristic(protocol.RequestCharUUID)
	hasRequest := err == nil && requestChar.CanWrite()

	dataChar, err := peer.Characteristic(protocol.ResponseDataCharUUID)
	hasData := err == nil && dataChar.CanSubscribe() && dataChar.Subscribe() == nil

	finalChar, err := peer.Characteristic(protocol.ResponseFinalCharUUID)
	hasFinal := err == nil && finalChar.CanSubscribe() && finalChar.Subscribe() == nil

	if !hasRequest || !hasData || !hasFinal {
		s.log.Debugf("bind: request=%t data=%t final=%t", hasRequest, hasData, hasFinal)
		s.cfg.Status.BindFailed()
		s.requestChar = nil
		s.responseChar = nil
		return false
	}

	s.requestChar = requestChar
	// Replies are read from the final RX characteristic; the data RX
	// characteristic only needs its subscription active.
	s.responseChar = finalChar
	return true
}

func (s *Session) pause() {
	time.Sleep(s.cfg.PollInterval)
}

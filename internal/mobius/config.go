package mobius

import (
	"time"

	"github.com/reeflink/mobiusctl/internal/protocol"
)

// Config tunes a Session. The zero value is usable; defaults are filled
// in by NewSession.
type Config struct {
	// PollInterval paces every bounded wait loop (scan polls, response
	// polls). Defaults to 500ms, the cadence of the reference hardware's
	// indicator blinks.
	PollInterval time.Duration

	// Status receives lifecycle callbacks. Defaults to NopStatus.
	Status StatusReporter

	// Logger for session diagnostics. Defaults to a logrus logger on
	// stderr.
	Logger Logger

	// PeerName filters undirected scans. Defaults to "MOBIUS".
	PeerName string

	// StrictResponseCRC rejects confirm frames whose trailer fails the
	// request-side CRC. Off by default: real firmware emits trailers
	// that do not match, and the vendor app ignores them.
	StrictResponseCRC bool
}

const defaultPollInterval = 500 * time.Millisecond

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.Status == nil {
		c.Status = NopStatus{}
	}
	if c.Logger == nil {
		c.Logger = buildDefaultLogger()
	}
	if c.PeerName == "" {
		c.PeerName = protocol.PeerName
	}
	return c
}

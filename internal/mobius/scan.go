package mobius

import (
	"time"

	"github.com/reeflink/mobiusctl/internal/transport"
)

// scanPollRounds bounds the undirected scan: polling stops after the
// first round that found anything, or after this many rounds.
const scanPollRounds = 3

// ScanForDevices scans for nearby Mobius devices (filtered by
// cfg.PeerName) and returns their addresses. Scanning always stops
// before returning.
func ScanForDevices(tr transport.Transport, cfg Config) ([]string, error) {
	cfg = cfg.withDefaults()
	defer func() { _ = tr.StopScan() }()

	if err := tr.ScanForName(cfg.PeerName); err != nil {
		return nil, err
	}

	var addresses []string
	for i := 0; i < scanPollRounds && len(addresses) == 0; i++ {
		cfg.Status.Scanning()
		time.Sleep(cfg.PollInterval)
		for {
			peer, ok := tr.NextAvailable()
			if !ok {
				break
			}
			cfg.Logger.Debugf("found %s", peer.Address())
			addresses = append(addresses, peer.Address())
		}
	}
	return addresses, nil
}

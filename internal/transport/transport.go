// Package transport defines the slice of the radio stack the Mobius
// session layer depends on. internal/ble implements it over
// tinygo.org/x/bluetooth; tests substitute fakes.
package transport

// Characteristic is one addressable GATT endpoint on a connected peer.
// Notified values are buffered by the implementation until read.
type Characteristic interface {
	CanWrite() bool
	Write(data []byte) error
	CanSubscribe() bool
	Subscribe() error

	// HasNewValue reports whether a notified value is waiting.
	HasNewValue() bool
	// ReadValue copies the oldest waiting value into buf and returns its
	// length.
	ReadValue(buf []byte) (int, error)
}

// Peripheral is a peer reported by a scan.
type Peripheral interface {
	Address() string
	Connect() error
	Disconnect() error
	DiscoverService(serviceUUID string) error
	// Characteristic returns a handle for charUUID within the discovered
	// service.
	Characteristic(charUUID string) (Characteristic, error)
}

// Transport wraps the scanning primitives of the BLE stack. A scan runs
// until StopScan; discovered peers are handed out one at a time through
// NextAvailable polling.
type Transport interface {
	// ScanForName starts a scan reporting peers advertising the given
	// local name.
	ScanForName(name string) error
	// ScanForAddress starts a directed scan for a single known address.
	ScanForAddress(address string) error
	// NextAvailable returns a discovered peer if one is waiting.
	NextAvailable() (Peripheral, bool)
	StopScan() error
}

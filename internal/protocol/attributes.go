package protocol

import "encoding/binary"

// Attribute identifies a remote device property by its fixed byte
// template. Writable attributes carry the offset and width of the value
// slot inside the template.
type Attribute struct {
	name        string
	template    []byte
	valueOffset int // -1 when read-only
	valueSize   int
}

var (
	// AttrCurrentScene reads the scene the device is currently running.
	AttrCurrentScene = Attribute{
		name:        "currentScene",
		template:    []byte{0x91, 0x01, 0x00, 0x01},
		valueOffset: -1,
	}

	// AttrScene selects a scene by id (16-bit little-endian at offset 5).
	AttrScene = Attribute{
		name:        "scene",
		template:    []byte{0x91, 0x01, 0x00, 0x01, 0x04, 0xFF, 0xFF, 0x00, 0x00},
		valueOffset: 5,
		valueSize:   2,
	}

	// AttrOperationState sets the device operating state (single byte in
	// the final template slot).
	AttrOperationState = Attribute{
		name:        "operationState",
		template:    []byte{0x68, 0x00, 0x00, 0x01, 0x01, 0xFF},
		valueOffset: 5,
		valueSize:   1,
	}
)

// Name returns the attribute's name, for logging.
func (a Attribute) Name() string { return a.name }

// Encode returns a fresh copy of the attribute template.
func (a Attribute) Encode() []byte {
	payload := make([]byte, len(a.template))
	copy(payload, a.template)
	return payload
}

// EncodeValue returns the template with value spliced into the value
// slot. Read-only attributes come back unmodified.
func (a Attribute) EncodeValue(value uint16) []byte {
	payload := a.Encode()
	switch {
	case a.valueOffset < 0:
	case a.valueSize == 1:
		payload[a.valueOffset] = byte(value)
	default:
		binary.LittleEndian.PutUint16(payload[a.valueOffset:a.valueOffset+2], value)
	}
	return payload
}

// sceneDataOffset is where the 16-bit scene id sits inside a
// currentScene confirm payload.
const sceneDataOffset = 6

// DecodeScene extracts the scene id from a currentScene confirm payload.
func DecodeScene(payload []byte) (uint16, bool) {
	if len(payload) < sceneDataOffset+2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(payload[sceneDataOffset : sceneDataOffset+2]), true
}

package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/reeflink/mobiusctl/internal/crc"
)

// BuildRequest lays out a request frame around payload.
// Format:
//
//	byte  0:     start marker (0x02)
//	byte  1:     op group (0xDE = request)
//	byte  2:     op code (0x17 = get, 0x18 = set)
//	bytes 3-4:   message id (little-endian)
//	bytes 5-6:   reserved (big-endian on the wire; 0x0000 get, 0x0800 set)
//	bytes 7-8:   payload length (little-endian)
//	bytes 9+:    payload
//	last 2:      CRC-16 over bytes [1, len-2) (little-endian)
//
// The caller owns the message id counter; BuildRequest is deterministic
// for a given set of inputs.
func BuildRequest(payload []byte, opCode byte, reserved uint16, messageID uint16) []byte {
	frame := make([]byte, len(payload)+FrameOverhead)

	frame[0] = StartMarker
	frame[1] = OpGroupRequest
	frame[2] = opCode
	binary.LittleEndian.PutUint16(frame[3:5], messageID)
	binary.BigEndian.PutUint16(frame[5:7], reserved)
	binary.LittleEndian.PutUint16(frame[7:9], uint16(len(payload)))
	copy(frame[PayloadOffset:], payload)

	sum := crc.Checksum(frame[1 : len(frame)-TrailerSize])
	binary.LittleEndian.PutUint16(frame[len(frame)-TrailerSize:], sum)

	return frame
}

// ParseResponse extracts the payload from a confirm frame. The trailing
// CRC is not checked: Mobius firmware emits confirm trailers that do not
// match the request-side algorithm, and the vendor app ignores them too.
// Callers that want strict checking run VerifyCRC separately.
func ParseResponse(frame []byte) ([]byte, error) {
	if len(frame) <= FrameOverhead {
		return nil, fmt.Errorf("response too short: %d bytes", len(frame))
	}
	if frame[0] != StartMarker {
		return nil, fmt.Errorf("bad start marker 0x%02x", frame[0])
	}
	if frame[1] != OpGroupConfirm {
		return nil, fmt.Errorf("op group 0x%02x is not a confirm", frame[1])
	}

	n := int(binary.LittleEndian.Uint16(frame[7:9]))
	if len(frame) < PayloadOffset+n {
		return nil, fmt.Errorf("declared payload length %d exceeds frame (%d bytes)", n, len(frame))
	}

	payload := make([]byte, n)
	copy(payload, frame[PayloadOffset:PayloadOffset+n])
	return payload, nil
}

// ValidateSuccess reports whether response is the device's success confirm
// for request: start marker, op code and message id echoed, op group
// flipped to confirm, and a payload of exactly {0x00, 0xFF, 0xFF}.
// Malformed input yields false, never a panic.
func ValidateSuccess(request, response []byte) bool {
	if len(request) <= FrameOverhead || len(response) <= FrameOverhead {
		return false
	}

	// Echoed fields: marker, op code, message id. Op group must be the
	// confirm counterpart, not an echo.
	if response[0] != request[0] || response[1] != OpGroupConfirm || response[2] != request[2] {
		return false
	}
	if !bytes.Equal(response[3:5], request[3:5]) {
		return false
	}

	n := int(binary.LittleEndian.Uint16(response[7:9]))
	if n != 3 || len(response) < PayloadOffset+n {
		return false
	}
	// Status byte then the fixed success marker.
	if response[PayloadOffset] != 0x00 {
		return false
	}
	return bytes.Equal(response[PayloadOffset+1:PayloadOffset+3], successData[:])
}

// VerifyCRC reports whether the frame trailer matches the CRC-16 of
// bytes [1, len-2).
func VerifyCRC(frame []byte) bool {
	if len(frame) < FrameOverhead {
		return false
	}
	sum := crc.Checksum(frame[1 : len(frame)-TrailerSize])
	return binary.LittleEndian.Uint16(frame[len(frame)-TrailerSize:]) == sum
}

// MessageID returns the message id field of a frame.
func MessageID(frame []byte) uint16 {
	if len(frame) < 5 {
		return 0
	}
	return binary.LittleEndian.Uint16(frame[3:5])
}

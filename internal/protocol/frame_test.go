package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// confirmFor builds the device's confirm frame for a request, echoing the
// marker, op code and message id and carrying the given payload. The
// trailer is deliberately bogus, mirroring real firmware behavior.
func confirmFor(request, payload []byte) []byte {
	frame := make([]byte, len(payload)+FrameOverhead)
	frame[0] = StartMarker
	frame[1] = OpGroupConfirm
	frame[2] = request[2]
	copy(frame[3:5], request[3:5])
	binary.LittleEndian.PutUint16(frame[7:9], uint16(len(payload)))
	copy(frame[PayloadOffset:], payload)
	frame[len(frame)-2] = 0xAB
	frame[len(frame)-1] = 0xCD
	return frame
}

func TestBuildRequestLayout(t *testing.T) {
	payload := []byte{0x91, 0x01, 0x00, 0x01}
	frame := BuildRequest(payload, OpCodeGet, ReservedGet, 2)

	want := []byte{
		0x02,       // start marker
		0xDE,       // op group: request
		0x17,       // op code: get
		0x02, 0x00, // message id, little-endian
		0x00, 0x00, // reserved, big-endian
		0x04, 0x00, // payload length, little-endian
		0x91, 0x01, 0x00, 0x01, // payload
		0x4F, 0xE7, // CRC-16 over bytes [1, len-2), little-endian
	}
	if !bytes.Equal(frame, want) {
		t.Errorf("BuildRequest() = % X, want % X", frame, want)
	}
}

func TestBuildRequestSetReservedField(t *testing.T) {
	frame := BuildRequest([]byte{0x68}, OpCodeSet, ReservedSet, 0x1234)

	// Reserved is the one big-endian field on the wire.
	if frame[5] != 0x08 || frame[6] != 0x00 {
		t.Errorf("reserved bytes = % X, want 08 00", frame[5:7])
	}
	// Message id stays little-endian.
	if frame[3] != 0x34 || frame[4] != 0x12 {
		t.Errorf("message id bytes = % X, want 34 12", frame[3:5])
	}
}

func TestBuildRequestFrameLength(t *testing.T) {
	for _, n := range []int{0, 1, 9, 100, MaxPayloadSize} {
		frame := BuildRequest(make([]byte, n), OpCodeSet, ReservedSet, 7)
		if len(frame) != n+FrameOverhead {
			t.Errorf("payload %d: frame length = %d, want %d", n, len(frame), n+FrameOverhead)
		}
		if !VerifyCRC(frame) {
			t.Errorf("payload %d: built frame fails its own CRC", n)
		}
	}
}

func TestParseResponseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "success payload", payload: []byte{0x00, 0xFF, 0xFF}},
		{name: "scene payload", payload: []byte{0x00, 0x91, 0x01, 0x00, 0x01, 0x04, 0x01, 0x00}},
		{name: "max payload", payload: bytes.Repeat([]byte{0x5A}, MaxPayloadSize)},
	}

	req := BuildRequest([]byte{0x91, 0x01, 0x00, 0x01}, OpCodeGet, ReservedGet, 9)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := confirmFor(req, tt.payload)
			got, err := ParseResponse(frame)
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Errorf("ParseResponse() payload = % X, want % X", got, tt.payload)
			}
		})
	}
}

func TestParseResponseRejectsMalformed(t *testing.T) {
	req := BuildRequest([]byte{0x91, 0x01, 0x00, 0x01}, OpCodeGet, ReservedGet, 2)
	good := confirmFor(req, []byte{0x00, 0xFF, 0xFF})

	tests := []struct {
		name  string
		frame []byte
	}{
		{name: "nil", frame: nil},
		{name: "exactly overhead length", frame: make([]byte, FrameOverhead)},
		{
			name: "bad start marker",
			frame: func() []byte {
				f := append([]byte(nil), good...)
				f[0] = 0x03
				return f
			}(),
		},
		{
			name: "request op group instead of confirm",
			frame: func() []byte {
				f := append([]byte(nil), good...)
				f[1] = OpGroupRequest
				return f
			}(),
		},
		{
			name: "declared length past end of frame",
			frame: func() []byte {
				f := append([]byte(nil), good...)
				binary.LittleEndian.PutUint16(f[7:9], 200)
				return f
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if payload, err := ParseResponse(tt.frame); err == nil {
				t.Errorf("ParseResponse() = % X, want error", payload)
			}
		})
	}
}

func TestParseResponseIgnoresTrailerCRC(t *testing.T) {
	// Firmware confirm trailers do not match the request-side CRC; the
	// parser must accept them anyway.
	req := BuildRequest([]byte{0x91, 0x01, 0x00, 0x01}, OpCodeGet, ReservedGet, 2)
	frame := confirmFor(req, []byte{0x00, 0xFF, 0xFF})
	if VerifyCRC(frame) {
		t.Fatal("test frame unexpectedly has a valid CRC")
	}
	if _, err := ParseResponse(frame); err != nil {
		t.Errorf("ParseResponse() error = %v, want nil", err)
	}
}

func TestValidateSuccess(t *testing.T) {
	req := BuildRequest(AttrScene.EncodeValue(7), OpCodeSet, ReservedSet, 5)
	good := confirmFor(req, []byte{0x00, 0xFF, 0xFF})

	mutate := func(f func(frame []byte)) []byte {
		m := append([]byte(nil), good...)
		f(m)
		return m
	}

	tests := []struct {
		name     string
		request  []byte
		response []byte
		want     bool
	}{
		{name: "matching confirm", request: req, response: good, want: true},
		{name: "short request", request: req[:FrameOverhead], response: good, want: false},
		{name: "short response", request: req, response: good[:FrameOverhead], want: false},
		{
			name:    "mismatched message id",
			request: req,
			response: mutate(func(f []byte) {
				binary.LittleEndian.PutUint16(f[3:5], 6)
			}),
			want: false,
		},
		{
			name:    "mismatched op code",
			request: req,
			response: mutate(func(f []byte) {
				f[2] = OpCodeGet
			}),
			want: false,
		},
		{
			name:    "op group not confirm",
			request: req,
			response: mutate(func(f []byte) {
				f[1] = OpGroupRequest
			}),
			want: false,
		},
		{
			name:    "wrong status byte",
			request: req,
			response: mutate(func(f []byte) {
				f[PayloadOffset] = 0x01
			}),
			want: false,
		},
		{
			name:    "wrong success marker",
			request: req,
			response: mutate(func(f []byte) {
				f[PayloadOffset+2] = 0xFE
			}),
			want: false,
		},
		{
			name:     "wrong payload length",
			request:  req,
			response: confirmFor(req, []byte{0x00, 0xFF, 0xFF, 0x00}),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSuccess(tt.request, tt.response); got != tt.want {
				t.Errorf("ValidateSuccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

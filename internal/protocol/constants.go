package protocol

// Wire constants for the Mobius framed request/response protocol.
// Values were captured from live traffic; none of them are negotiable.
const (
	// StartMarker is the first byte of every frame.
	StartMarker = 0x02

	// OpGroupRequest marks frames sent to the device.
	OpGroupRequest = 0xDE
	// OpGroupConfirm marks frames the device sends back.
	OpGroupConfirm = 0xDF

	// OpCodeGet reads an attribute.
	OpCodeGet = 0x17
	// OpCodeSet writes an attribute.
	OpCodeSet = 0x18

	// ReservedGet and ReservedSet are the reserved-field values observed
	// for each op code. The meaning of 0x0800 is undocumented; treat it
	// as an opaque constant.
	ReservedGet = 0x0000
	ReservedSet = 0x0800

	// HeaderSize is the byte count before the payload, TrailerSize the
	// CRC-16 trailer, FrameOverhead their sum. A valid frame is always
	// payload length + FrameOverhead bytes.
	HeaderSize    = 9
	TrailerSize   = 2
	FrameOverhead = HeaderSize + TrailerSize

	// PayloadOffset is where payload bytes start within a frame.
	PayloadOffset = HeaderSize

	// MaxPayloadSize bounds the payload of a single frame.
	MaxPayloadSize = 246

	// OperationStateSchedule puts the device back on its programmed
	// schedule.
	OperationStateSchedule = 0x03

	// FeedSceneID is the well-known scene the Mobius app uses for feed
	// mode.
	FeedSceneID = 1
)

// GATT identifiers for the Mobius general service. Requests go to the
// TX characteristic; the device streams confirms on the two RX
// characteristics and the engine reads replies from the final one.
const (
	// PeerName is the advertised name Mobius devices scan under.
	PeerName = "MOBIUS"

	ServiceUUID           = "01ff0100-ba5e-f4ee-5ca1-eb1e5e4b1ce0"
	RequestCharUUID       = "01ff0104-ba5e-f4ee-5ca1-eb1e5e4b1ce0" // TX
	ResponseDataCharUUID  = "01ff0101-ba5e-f4ee-5ca1-eb1e5e4b1ce0" // RX data
	ResponseFinalCharUUID = "01ff0102-ba5e-f4ee-5ca1-eb1e5e4b1ce0" // RX final
)

// successData is the 2-byte marker a confirm frame carries (after a 0x00
// status byte) when a set request was applied.
var successData = [2]byte{0xFF, 0xFF}

package mobius

import "errors"

var (
	ErrNotConnected   = errors.New("session not connected")
	ErrDeviceNotFound = errors.New("device not found")
	ErrScanStart      = errors.New("scan failed to start")
	ErrConnectFailed  = errors.New("connect failed")
	ErrBindFailed     = errors.New("required characteristics unavailable")
	ErrNoResponse     = errors.New("no response from device")
	ErrNotConfirmed   = errors.New("device did not confirm request")
	ErrResponseCRC    = errors.New("response checksum mismatch")
)

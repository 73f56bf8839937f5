package mobius

import (
	"errors"
	"fmt"

	"github.com/reeflink/mobiusctl/internal/protocol"
)

// maxResponseSize bounds a single notified confirm frame.
const maxResponseSize = 255

// GetAttribute sends a get request for attr and returns the confirm
// payload. ErrNoResponse means the poll limit ran out; the attribute
// value is then unknown, not zero.
func (s *Session) GetAttribute(attr protocol.Attribute) ([]byte, error) {
	request := protocol.BuildRequest(attr.Encode(), protocol.OpCodeGet, protocol.ReservedGet, s.nextMessageID())
	response, err := s.sendRequest(request)
	if err != nil {
		return nil, err
	}
	if s.cfg.StrictResponseCRC && !protocol.VerifyCRC(response) {
		return nil, ErrResponseCRC
	}
	payload, err := protocol.ParseResponse(response)
	if err != nil {
		return nil, fmt.Errorf("invalid confirm for %s: %w", attr.Name(), err)
	}
	return payload, nil
}

// SetAttribute sends a set request splicing value into attr. With verify
// set, the confirm must validate as a success for attr's request; nil
// without verify only means the write went out, not that it was applied.
func (s *Session) SetAttribute(attr protocol.Attribute, value uint16, verify bool) error {
	request := protocol.BuildRequest(attr.EncodeValue(value), protocol.OpCodeSet, protocol.ReservedSet, s.nextMessageID())
	response, err := s.sendRequest(request)
	if !verify {
		// Missing confirms are fine when the caller opted out of
		// verification, but a request that never went out is still an
		// error.
		if errors.Is(err, ErrNoResponse) {
			return nil
		}
		return err
	}
	if err != nil {
		return err
	}
	if s.cfg.StrictResponseCRC && !protocol.VerifyCRC(response) {
		return ErrResponseCRC
	}
	if !protocol.ValidateSuccess(request, response) {
		return ErrNotConfirmed
	}
	return nil
}

// GetCurrentScene queries the scene the device is currently running.
func (s *Session) GetCurrentScene() (uint16, error) {
	payload, err := s.GetAttribute(protocol.AttrCurrentScene)
	if err != nil {
		return 0, err
	}
	id, ok := protocol.DecodeScene(payload)
	if !ok {
		return 0, fmt.Errorf("scene payload too short: % X", payload)
	}
	return id, nil
}

// SetScene switches the device to the scene with the given id and
// verifies the confirm.
func (s *Session) SetScene(sceneID uint16) error {
	return s.SetAttribute(protocol.AttrScene, sceneID, true)
}

// SetFeedScene switches to the well-known feed scene.
func (s *Session) SetFeedScene() error {
	return s.SetScene(protocol.FeedSceneID)
}

// RunSchedule puts the device back on its programmed schedule.
func (s *Session) RunSchedule() error {
	return s.SetAttribute(protocol.AttrOperationState, protocol.OperationStateSchedule, true)
}

// nextMessageID returns the current message id and advances the
// counter. Ids increment by exactly one per request, retries included,
// and wrap at 16 bits.
func (s *Session) nextMessageID() uint16 {
	id := s.messageID
	s.messageID++
	return id
}

// sendRequest writes a request frame and polls the response
// characteristic for the confirm, up to responsePollLimit polls at the
// configured pacing interval.
func (s *Session) sendRequest(request []byte) ([]byte, error) {
	if s.state != StateConnected || s.requestChar == nil || s.responseChar == nil {
		return nil, ErrNotConnected
	}

	s.cfg.Status.Sending()
	s.log.Debugf("request %d: % X", protocol.MessageID(request), request)
	if err := s.requestChar.Write(request); err != nil {
		s.cfg.Status.RequestFailed()
		return nil, fmt.Errorf("failed to write request: %w", err)
	}

	for i := 0; i < responsePollLimit; i++ {
		s.pause()
		if !s.responseChar.HasNewValue() {
			continue
		}
		buf := make([]byte, maxResponseSize)
		n, err := s.responseChar.ReadValue(buf)
		if err != nil {
			s.cfg.Status.RequestFailed()
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if n == 0 {
			continue
		}
		response := buf[:n]
		s.log.Debugf("response: % X", response)
		return response, nil
	}

	s.cfg.Status.RequestFailed()
	return nil, ErrNoResponse
}

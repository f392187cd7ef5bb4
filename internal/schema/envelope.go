package schema

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/yanun0323/errors"

	"main/pkg/exception"
)

// Reserved client-to-server message types.
const (
	TypeAuthenticate    = "authenticate"
	TypeVideoFrame      = "send_video_frame"
	TypeAudio           = "send_audio"
	TypeIMUData         = "send_imu_data"
	TypeRequestGuidance = "request_guidance"
)

// Reserved server-to-client message types.
const (
	TypeConnectionAck    = "connection_ack"
	TypeGuidanceResponse = "guidance_response"
	TypeError            = "error"
)

// Envelope is the uniform wire structure wrapping every message.
// It is immutable once constructed.
type Envelope struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
	MessageID string          `json:"messageId,omitempty"`
}

// New builds a client-originated envelope with a fresh message id and the
// current epoch-millisecond timestamp.
func New(msgType string, payload any) (Envelope, error) {
	if msgType == "" {
		return Envelope{}, exception.ErrEnvelopeMissingType
	}

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, errors.Wrapf(err, "marshal payload for %s", msgType)
		}
		raw = data
	}

	return Envelope{
		Type:      msgType,
		Payload:   raw,
		Timestamp: time.Now().UnixMilli(),
		MessageID: uuid.NewString(),
	}, nil
}

// Encode serializes the envelope for the wire.
func Encode(env Envelope) ([]byte, error) {
	if env.Type == "" {
		return nil, exception.ErrEnvelopeMissingType
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, "encode envelope")
	}
	return data, nil
}

// Decode parses a wire frame and validates the presence of a non-empty type.
// Server-originated envelopes may carry no message id.
func Decode(frame []byte) (Envelope, error) {
	if len(frame) == 0 {
		return Envelope{}, exception.ErrEnvelopeEmptyFrame
	}
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, errors.Wrap(err, "decode envelope")
	}
	if env.Type == "" {
		return Envelope{}, exception.ErrEnvelopeMissingType
	}
	return env, nil
}

// DecodePayload unmarshals the envelope payload into out.
func DecodePayload(env Envelope, out any) error {
	if len(env.Payload) == 0 {
		return exception.ErrInvalidArgument
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return errors.Wrapf(err, "decode %s payload", env.Type)
	}
	return nil
}

package schema

import "fmt"

// AuthRequest is the payload for TypeAuthenticate.
type AuthRequest struct {
	Token    string `json:"token"`
	DeviceID string `json:"deviceId,omitempty"`
}

// VideoFrame is the payload for TypeVideoFrame. Data is base64 on the wire.
type VideoFrame struct {
	Seq        uint64 `json:"seq"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Format     string `json:"format"`
	Data       []byte `json:"data"`
	CapturedAt int64  `json:"capturedAt"`
}

// AudioChunk is the payload for TypeAudio.
type AudioChunk struct {
	Seq        uint64 `json:"seq"`
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
	Data       []byte `json:"data"`
	CapturedAt int64  `json:"capturedAt"`
}

// IMUSample is the payload for TypeIMUData.
type IMUSample struct {
	AccelX     float64 `json:"accelX"`
	AccelY     float64 `json:"accelY"`
	AccelZ     float64 `json:"accelZ"`
	GyroX      float64 `json:"gyroX"`
	GyroY      float64 `json:"gyroY"`
	GyroZ      float64 `json:"gyroZ"`
	Heading    float64 `json:"heading,omitempty"`
	CapturedAt int64   `json:"capturedAt"`
}

// GuidanceRequest is the payload for TypeRequestGuidance.
type GuidanceRequest struct {
	Prompt  string `json:"prompt,omitempty"`
	Context string `json:"context,omitempty"`
}

// ConnectionAck is the payload for TypeConnectionAck.
type ConnectionAck struct {
	SessionID  string `json:"sessionId"`
	ServerTime int64  `json:"serverTime"`
}

// GuidanceResponse is the payload for TypeGuidanceResponse.
type GuidanceResponse struct {
	Guidance   string  `json:"guidance"`
	Confidence float64 `json:"confidence,omitempty"`
	AudioRef   string  `json:"audioRef,omitempty"`
}

// ServerError is the payload for TypeError. It satisfies error so it can be
// dispatched through the error listener slot as-is.
type ServerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ServerError) Error() string {
	return fmt.Sprintf("server error %s: %s", e.Code, e.Message)
}

// DecodeConnectionAck extracts the ack payload from an envelope.
func DecodeConnectionAck(env Envelope) (ConnectionAck, error) {
	var ack ConnectionAck
	if err := DecodePayload(env, &ack); err != nil {
		return ConnectionAck{}, err
	}
	return ack, nil
}

// DecodeGuidanceResponse extracts the guidance payload from an envelope.
func DecodeGuidanceResponse(env Envelope) (GuidanceResponse, error) {
	var resp GuidanceResponse
	if err := DecodePayload(env, &resp); err != nil {
		return GuidanceResponse{}, err
	}
	return resp, nil
}

// DecodeServerError extracts the server error payload from an envelope.
func DecodeServerError(env Envelope) (ServerError, error) {
	var se ServerError
	if err := DecodePayload(env, &se); err != nil {
		return ServerError{}, err
	}
	return se, nil
}

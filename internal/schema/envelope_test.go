package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"main/pkg/exception"
)

func TestEnvelopeEncodeDecodeRoundTrip(t *testing.T) {
	orig, err := New(TypeRequestGuidance, GuidanceRequest{Prompt: "crosswalk ahead?"})
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}
	if orig.MessageID == "" {
		t.Fatal("envelope should carry a fresh message id")
	}
	if orig.Timestamp <= 0 {
		t.Fatalf("envelope timestamp should be positive, got %d", orig.Timestamp)
	}

	wire, err := Encode(orig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.Type != orig.Type || decoded.Timestamp != orig.Timestamp || decoded.MessageID != orig.MessageID {
		t.Fatalf("envelope round-trip mismatch: got %+v want %+v", decoded, orig)
	}

	var req GuidanceRequest
	if err := DecodePayload(decoded, &req); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if req.Prompt != "crosswalk ahead?" {
		t.Fatalf("payload mismatch: got %q", req.Prompt)
	}
}

func TestNewEnvelopeRejectsEmptyType(t *testing.T) {
	if _, err := New("", nil); !errors.Is(err, exception.ErrEnvelopeMissingType) {
		t.Fatalf("want ErrEnvelopeMissingType, got %v", err)
	}
}

func TestNewEnvelopeRejectsUnencodablePayload(t *testing.T) {
	if _, err := New(TypeAudio, func() {}); err == nil {
		t.Fatal("want marshal error for func payload")
	}
}

func TestDecodeRejectsMissingType(t *testing.T) {
	frame := []byte(`{"payload":{"a":1},"timestamp":1700000000000}`)
	if _, err := Decode(frame); !errors.Is(err, exception.ErrEnvelopeMissingType) {
		t.Fatalf("want ErrEnvelopeMissingType, got %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("want decode error for malformed frame")
	}
	if _, err := Decode(nil); !errors.Is(err, exception.ErrEnvelopeEmptyFrame) {
		t.Fatal("want ErrEnvelopeEmptyFrame for empty frame")
	}
}

func TestDecodeKeepsAbsentMessageID(t *testing.T) {
	frame := []byte(`{"type":"connection_ack","payload":{"sessionId":"s-1","serverTime":42},"timestamp":1}`)
	env, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.MessageID != "" {
		t.Fatalf("server envelope should keep empty message id, got %q", env.MessageID)
	}

	ack, err := DecodeConnectionAck(env)
	if err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.SessionID != "s-1" || ack.ServerTime != 42 {
		t.Fatalf("ack mismatch: %+v", ack)
	}
}

func TestDecodeGuidanceResponse(t *testing.T) {
	payload, _ := json.Marshal(GuidanceResponse{Guidance: "turn left", Confidence: 0.93, AudioRef: "a-7"})
	env := Envelope{Type: TypeGuidanceResponse, Payload: payload, Timestamp: 1}

	resp, err := DecodeGuidanceResponse(env)
	if err != nil {
		t.Fatalf("decode guidance: %v", err)
	}
	if resp.Guidance != "turn left" || resp.AudioRef != "a-7" {
		t.Fatalf("guidance mismatch: %+v", resp)
	}
}

func TestServerErrorFormatsAsError(t *testing.T) {
	se := ServerError{Code: "AUTH_FAILED", Message: "bad token"}
	if se.Error() != "server error AUTH_FAILED: bad token" {
		t.Fatalf("unexpected error string: %q", se.Error())
	}
}

package protocol

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONCodecEncodeDecode(t *testing.T) {
	codec := JSONCodec{}
	orig := MustEnvelope(EventCodeChange, CodeChangePayload{SessionID: "abc123xyz", Code: "print(1)"})
	orig.Ts = 1700000000000

	var buf bytes.Buffer
	if err := codec.Encode(&buf, orig); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded := &Envelope{}
	if err := codec.Decode(&buf, decoded, 0); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Type != orig.Type || decoded.Ts != orig.Ts {
		t.Errorf("header mismatch: got %+v want %+v", decoded, orig)
	}

	var p CodeChangePayload
	if err := decoded.DecodePayload(&p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.SessionID != "abc123xyz" || p.Code != "print(1)" {
		t.Errorf("payload mismatch: %+v", p)
	}
}

func TestJSONCodecDecodeMissingType(t *testing.T) {
	codec := JSONCodec{}
	decoded := &Envelope{}
	err := codec.Decode(strings.NewReader(`{"payload":{}}`), decoded, 0)
	if err == nil {
		t.Fatalf("expect error for missing type")
	}
}

func TestJSONCodecDecodeSizeLimit(t *testing.T) {
	codec := JSONCodec{}
	big, _ := json.Marshal(strings.Repeat("x", 1024))
	frame := `{"type":"code-change","payload":{"sessionId":"abc123xyz","code":` + string(big) + `}}`

	decoded := &Envelope{}
	if err := codec.Decode(strings.NewReader(frame), decoded, 64); err == nil {
		t.Fatalf("expect error for oversized frame")
	}
}

func TestDecodePayloadEmpty(t *testing.T) {
	env := &Envelope{Type: EventRunCode}
	var p RunCodePayload
	if err := env.DecodePayload(&p); err == nil {
		t.Fatalf("expect ErrEmptyPayload")
	}
}

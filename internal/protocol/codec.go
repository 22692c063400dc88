package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrEmptyPayload = errors.New("protocol: empty payload")
	ErrMissingType  = errors.New("protocol: missing field: type")
)

// MessageCodec 信封编解码器
type MessageCodec interface {
	Name() string
	Encode(w io.Writer, e *Envelope) error
	Decode(r io.Reader, e *Envelope, maxSize int) error
}

// JSONCodec 默认编解码器，与浏览器客户端的 JSON 帧格式一致
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(w io.Writer, e *Envelope) error {
	return json.NewEncoder(w).Encode(e)
}

func (JSONCodec) Decode(r io.Reader, e *Envelope, maxSize int) error {
	// If r is already limited by the transport we rely on that,
	// otherwise guard with io.LimitReader.
	rr := r
	if maxSize > 0 {
		rr = io.LimitReader(r, int64(maxSize))
	}
	if err := json.NewDecoder(rr).Decode(e); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if e.Type == "" {
		return ErrMissingType
	}
	return nil
}

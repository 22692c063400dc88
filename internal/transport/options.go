package transport

import (
	"time"
)

// Options configures the WebSocket transport.
type Options struct {
	OutBuffer    int           // per-connection outgoing channel buffer size
	ReadTimeout  time.Duration // per-read deadline; 0 to disable
	WriteTimeout time.Duration // per-write deadline; 0 to disable
	MaxFrameSize int           // max inbound frame size in bytes, default 1MB
}

func (o Options) withDefaults() Options {
	if o.OutBuffer <= 0 {
		o.OutBuffer = 256
	}
	if o.MaxFrameSize <= 0 {
		o.MaxFrameSize = 1 << 20
	}
	return o
}

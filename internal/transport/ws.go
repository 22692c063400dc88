package transport

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hongjun500/codepair-go/internal/observe"
	"github.com/hongjun500/codepair-go/internal/protocol"
	"github.com/hongjun500/codepair-go/pkg/logger"
)

// wsConn implements Session for WebSocket connections.
// Outgoing envelopes go through a buffered channel drained by a single
// writer goroutine, so per-connection delivery order is FIFO.
type wsConn struct {
	id        string
	conn      *websocket.Conn
	codec     protocol.MessageCodec
	out       chan *protocol.Envelope
	closeOnce sync.Once
	closeChan chan struct{}
}

func (w *wsConn) ID() string {
	return w.id
}

func (w *wsConn) RemoteAddr() string {
	return w.conn.RemoteAddr().String()
}

// SendEnvelope enqueues an envelope for delivery. When the buffer is
// full the envelope is dropped and counted, never blocking the caller.
func (w *wsConn) SendEnvelope(e *protocol.Envelope) error {
	select {
	case <-w.closeChan:
		return ErrSessionClosed
	default:
	}
	select {
	case w.out <- e:
		return nil
	default:
		observe.IncDropped()
		return ErrBufferFull
	}
}

func (w *wsConn) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeChan)
		err = w.conn.Close()
	})
	return err
}

// WebSocketServer exposes the realtime protocol over WebSocket.
type WebSocketServer struct {
	Codec protocol.MessageCodec
	Path  string // WebSocket endpoint path, defaults to "/ws"
}

// Handler returns an http.Handler for the upgrade endpoint so it can be
// mounted into an existing HTTP server.
func (ws *WebSocketServer) Handler(gateway Gateway, opt Options) http.Handler {
	if ws.Codec == nil {
		ws.Codec = protocol.JSONCodec{}
	}
	opt = opt.withDefaults()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws.handleConnection(w, r, gateway, opt)
	})
}

// Start runs a standalone HTTP server for the WebSocket endpoint.
func (ws *WebSocketServer) Start(ctx context.Context, addr string, gateway Gateway, opt Options) error {
	if ws.Path == "" {
		ws.Path = "/ws"
	}
	mux := http.NewServeMux()
	mux.Handle(ws.Path, ws.Handler(gateway, opt))

	logger.L().Sugar().Infow("websocket_listen", "addr", addr, "path", ws.Path)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	return server.ListenAndServe()
}

func (ws *WebSocketServer) handleConnection(w http.ResponseWriter, r *http.Request, gateway Gateway, opt Options) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sess := &wsConn{
		id:        uuid.New().String(),
		conn:      conn,
		codec:     ws.Codec,
		out:       make(chan *protocol.Envelope, opt.OutBuffer),
		closeChan: make(chan struct{}),
	}

	gateway.OnSessionOpen(sess)

	// Writer goroutine: drain the outgoing queue in order
	go func() {
		for {
			select {
			case env := <-sess.out:
				if opt.WriteTimeout > 0 {
					_ = conn.SetWriteDeadline(time.Now().Add(opt.WriteTimeout))
				}
				var buf bytes.Buffer
				if err := sess.codec.Encode(&buf, env); err != nil {
					logger.L().Sugar().Warnw("ws_encode_error", "conn", sess.id, "err", err)
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, buf.Bytes()); err != nil {
					logger.L().Sugar().Warnw("ws_write_error", "conn", sess.id, "err", err)
					return
				}
			case <-sess.closeChan:
				return
			}
		}
	}()

	// Heartbeat: read deadline refreshed by pongs
	readDeadline := func() time.Time {
		if opt.ReadTimeout > 0 {
			return time.Now().Add(opt.ReadTimeout)
		}
		return time.Now().Add(60 * time.Second)
	}
	_ = conn.SetReadDeadline(readDeadline())
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(readDeadline())
	})
	conn.SetReadLimit(int64(opt.MaxFrameSize))

	// Periodic ping
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
			case <-sess.closeChan:
				return
			}
		}
	}()

	// Reader loop: decode inbound frames and hand them to the gateway.
	// The loop exits exactly once, so OnSessionClose runs exactly once
	// and the disconnect is fully processed before the connection is
	// forgotten.
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				err = ErrFrameTooLarge
			}
			gateway.OnSessionClose(sess, err)
			_ = sess.Close()
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var env protocol.Envelope
		if err := sess.codec.Decode(bytes.NewReader(data), &env, opt.MaxFrameSize); err != nil {
			logger.L().Sugar().Debugw("ws_decode_error", "conn", sess.id, "err", err)
			continue
		}
		gateway.OnEnvelope(sess, &env)
	}
}

package transport

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/hongjun500/codepair-go/internal/collab"
	"github.com/hongjun500/codepair-go/internal/observe"
	"github.com/hongjun500/codepair-go/internal/protocol"
	"github.com/hongjun500/codepair-go/pkg/logger"
)

// Gateway 网关接口：传输层与业务层的桥梁。
// 传输实现负责在连接建立、收到信封、连接关闭时回调；
// 对同一连接，OnSessionClose 保证只被调用一次。
type Gateway interface {
	OnSessionOpen(s Session)
	OnEnvelope(s Session, env *protocol.Envelope)
	OnSessionClose(s Session, err error)
}

// CollabGateway 把入站信封按事件类型路由到协同引擎。
// payload 解码失败的事件直接丢弃，坏事件只影响自己，不影响进程。
type CollabGateway struct {
	engine *collab.Engine
	router *protocol.Router
	log    *zap.SugaredLogger
}

// NewCollabGateway 创建网关并注册全部入站事件的处理函数
func NewCollabGateway(engine *collab.Engine) *CollabGateway {
	g := &CollabGateway{
		engine: engine,
		router: protocol.NewRouter(),
		log:    logger.L().Sugar(),
	}

	g.router.Register(protocol.EventJoinSession, func(c protocol.Conn, env *protocol.Envelope) error {
		sessionID, err := decodeJoinPayload(env)
		if err != nil {
			return err
		}
		g.engine.Join(c, sessionID)
		return nil
	})
	g.router.Register(protocol.EventCodeChange, func(c protocol.Conn, env *protocol.Envelope) error {
		var p protocol.CodeChangePayload
		if err := env.DecodePayload(&p); err != nil {
			return err
		}
		g.engine.CodeChange(c, p.SessionID, p.Code)
		return nil
	})
	g.router.Register(protocol.EventLanguageChange, func(c protocol.Conn, env *protocol.Envelope) error {
		var p protocol.LanguageChangePayload
		if err := env.DecodePayload(&p); err != nil {
			return err
		}
		g.engine.LanguageChange(c, p.SessionID, p.Language)
		return nil
	})
	g.router.Register(protocol.EventRunCode, func(c protocol.Conn, env *protocol.Envelope) error {
		var p protocol.RunCodePayload
		if err := env.DecodePayload(&p); err != nil {
			return err
		}
		g.engine.RunCode(c, p.SessionID)
		return nil
	})
	g.router.SetDefault(func(c protocol.Conn, env *protocol.Envelope) error {
		g.log.Debugw("unknown_event_dropped", "conn", c.ID(), "type", env.Type)
		return nil
	})

	return g
}

// OnSessionOpen 连接建立
func (g *CollabGateway) OnSessionOpen(s Session) {
	observe.AddConnections(1)
	g.log.Infow("conn_open", "conn", s.ID(), "remote", s.RemoteAddr())
}

// OnEnvelope 收到入站信封
func (g *CollabGateway) OnEnvelope(s Session, env *protocol.Envelope) {
	if err := g.router.Dispatch(s, env); err != nil {
		g.log.Debugw("event_dropped", "conn", s.ID(), "type", env.Type, "err", err)
	}
}

// OnSessionClose 连接断开：先完成全部会话退出和广播，再记账
func (g *CollabGateway) OnSessionClose(s Session, err error) {
	g.engine.Disconnect(s)
	observe.AddConnections(-1)
	g.log.Infow("conn_close", "conn", s.ID(), "err", err)
}

// decodeJoinPayload 兼容两种形态：{"sessionId":"..."} 对象，
// 或直接一个 JSON 字符串（协议签名 join-session(sessionId)）。
// 缺失或为空的 ID 原样放行，由引擎统一按未找到回 error 事件。
func decodeJoinPayload(env *protocol.Envelope) (string, error) {
	if len(env.Payload) == 0 {
		return "", nil
	}
	var p protocol.JoinSessionPayload
	if err := env.DecodePayload(&p); err == nil {
		return p.SessionID, nil
	}
	var s string
	if err := json.Unmarshal(env.Payload, &s); err != nil {
		return "", err
	}
	return s, nil
}

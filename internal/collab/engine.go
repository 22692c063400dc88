package collab

import (
	"time"

	"go.uber.org/zap"

	"github.com/hongjun500/codepair-go/internal/observe"
	"github.com/hongjun500/codepair-go/internal/protocol"
	"github.com/hongjun500/codepair-go/internal/room"
	"github.com/hongjun500/codepair-go/internal/session"
	"github.com/hongjun500/codepair-go/pkg/logger"
)

// 加入不存在的会话时回给请求连接的错误文案
const msgSessionNotFound = "Session not found"

// 执行请求的占位通知，真正的执行发生在客户端沙箱里
const msgExecutionNotice = "Code execution not yet implemented"

// Engine 实时事件路由器：所有入站事件的唯一入口。
//
// 每个事件的处理都在目标会话的锁内完成"变更 + 扇出"，
// 因此同一会话的事件按接受顺序串行生效，广播紧跟在变更之后；
// 不同会话之间完全独立。
//
// Session.Members 与 Broker 的订阅关系只在会话锁内一起变更，
// 二者始终一致：不存在无成员记录的订阅，也不存在无订阅的成员。
type Engine struct {
	registry *session.Registry
	broker   *room.Broker
	reaper   *Reaper
	log      *zap.SugaredLogger
}

// NewEngine 创建事件路由器。grace 为空会话的保留时长。
func NewEngine(registry *session.Registry, broker *room.Broker, grace time.Duration) *Engine {
	e := &Engine{
		registry: registry,
		broker:   broker,
		log:      logger.L().Sugar(),
	}
	e.reaper = NewReaper(grace, e.reapIfEmpty)
	return e
}

// Reaper 返回生命周期管理器，供关停时清理
func (e *Engine) Reaper() *Reaper { return e.reaper }

// Join 处理 join-session：
// 会话不存在时仅向请求连接回 error 事件，无任何其它副作用；
// 存在时加入成员集合并订阅广播组，先单播会话快照给加入者，
// 再向全组（含加入者）广播新的成员数。
// 快照先于 user-joined 入队，加入者不会先看到自己的计数增量。
func (e *Engine) Join(c protocol.Conn, sessionID string) {
	observe.IncEvent(string(protocol.EventJoinSession))

	sess, ok := e.registry.Get(sessionID)
	if !ok {
		observe.IncJoinError()
		_ = c.SendEnvelope(protocol.MustEnvelope(protocol.EventError, protocol.ErrorPayload{Message: msgSessionNotFound}))
		return
	}

	sess.Lock()
	defer sess.Unlock()

	// 等锁期间回收器可能已在同一把锁内删除了该会话，
	// 持锁后必须重读注册表，确认拿到的还是注册中的那个实例
	if cur, live := e.registry.Get(sessionID); !live || cur != sess {
		observe.IncJoinError()
		_ = c.SendEnvelope(protocol.MustEnvelope(protocol.EventError, protocol.ErrorPayload{Message: msgSessionNotFound}))
		return
	}

	// 加入即取消挂起的回收任务
	if e.reaper.Cancel(sessionID) {
		observe.IncRescued()
		e.log.Infow("session_rescued", "session", sessionID)
	}

	sess.AddMember(c.ID())
	e.broker.Subscribe(sessionID, c)

	_ = c.SendEnvelope(stamp(protocol.MustEnvelope(protocol.EventCodeSync, protocol.CodeSyncPayload{
		Code:     sess.Code,
		Language: sess.Language,
	})))
	e.broker.Publish(sessionID, stamp(protocol.MustEnvelope(protocol.EventUserJoined, protocol.UserCountPayload{
		UserCount: sess.MemberCount(),
	})), "")

	e.log.Infow("user_joined", "conn", c.ID(), "session", sessionID, "users", sess.MemberCount())
}

// CodeChange 处理 code-change：覆盖写代码缓冲区（last-write-wins），
// 广播给除发送者外的成员。会话不存在时静默丢弃。
func (e *Engine) CodeChange(c protocol.Conn, sessionID, code string) {
	observe.IncEvent(string(protocol.EventCodeChange))

	sess, ok := e.registry.Get(sessionID)
	if !ok {
		e.log.Debugw("code_change_dropped", "conn", c.ID(), "session", sessionID)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	sess.Code = code
	e.broker.Publish(sessionID, stamp(protocol.MustEnvelope(protocol.EventCodeUpdate, protocol.CodeUpdatePayload{
		Code: code,
	})), c.ID())
}

// LanguageChange 处理 language-change：更新语言标签，
// 广播给全部成员（含发送者，客户端要按确认值重渲染）。
// 会话不存在时静默丢弃。
func (e *Engine) LanguageChange(c protocol.Conn, sessionID, language string) {
	observe.IncEvent(string(protocol.EventLanguageChange))

	sess, ok := e.registry.Get(sessionID)
	if !ok {
		e.log.Debugw("language_change_dropped", "conn", c.ID(), "session", sessionID)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	sess.Language = language
	e.broker.Publish(sessionID, stamp(protocol.MustEnvelope(protocol.EventLanguageUpdate, protocol.LanguageUpdatePayload{
		Language: language,
	})), "")
}

// RunCode 处理 run-code：不改状态，向全组（含发送者）转发执行请求通知。
// 会话不存在时静默丢弃。
func (e *Engine) RunCode(c protocol.Conn, sessionID string) {
	observe.IncEvent(string(protocol.EventRunCode))

	sess, ok := e.registry.Get(sessionID)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	e.log.Infow("run_code_requested", "conn", c.ID(), "session", sessionID)
	e.broker.Publish(sessionID, stamp(protocol.MustEnvelope(protocol.EventCodeExecution, protocol.CodeExecutionPayload{
		Message: msgExecutionNotice,
	})), "")
}

// Disconnect 处理连接断开：从其加入的每个会话移除成员并退订，
// 向各会话的剩余成员广播递减后的成员数；归零的会话交给回收器。
// 传输层保证对同一连接只调用一次，调用返回时全部清理已完成。
func (e *Engine) Disconnect(c protocol.Conn) {
	connID := c.ID()
	for _, sessionID := range e.broker.GroupsOf(connID) {
		sess, ok := e.registry.Get(sessionID)
		if !ok {
			// 会话已被回收，仅清掉残留订阅
			e.broker.Unsubscribe(sessionID, connID)
			continue
		}

		sess.Lock()
		if sess.RemoveMember(connID) {
			e.broker.Unsubscribe(sessionID, connID)
			e.broker.Publish(sessionID, stamp(protocol.MustEnvelope(protocol.EventUserLeft, protocol.UserCountPayload{
				UserCount: sess.MemberCount(),
			})), "")
			e.log.Infow("user_left", "conn", connID, "session", sessionID, "users", sess.MemberCount())

			if sess.MemberCount() == 0 {
				e.reaper.Schedule(sessionID)
			}
		} else {
			e.broker.Unsubscribe(sessionID, connID)
		}
		sess.Unlock()
	}
}

// reapIfEmpty 回收定时器到期回调：重读实时状态，仍为空才删除。
// Registry.Delete 幂等，重复触发无害。
func (e *Engine) reapIfEmpty(sessionID string) {
	sess, ok := e.registry.Get(sessionID)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.MemberCount() > 0 {
		return
	}
	e.registry.Delete(sessionID)
	observe.IncReaped()
	observe.AddSessions(-1)
	e.log.Infow("session_deleted", "session", sessionID, "reason", "empty")
}

func stamp(env *protocol.Envelope) *protocol.Envelope {
	env.Ts = time.Now().UnixMilli()
	return env
}

package protocol

import "encoding/json"

// EventType 表示协议中的事件类型
type EventType string

// 入站事件（客户端 → 服务端）
const (
	EventJoinSession    EventType = "join-session"
	EventCodeChange     EventType = "code-change"
	EventLanguageChange EventType = "language-change"
	EventRunCode        EventType = "run-code"
)

// 出站事件（服务端 → 客户端）
const (
	EventCodeSync       EventType = "code-sync"       // 单播给刚加入的连接
	EventCodeUpdate     EventType = "code-update"     // 广播给除发送者外的成员
	EventLanguageUpdate EventType = "language-update" // 广播给全部成员（含发送者）
	EventUserJoined     EventType = "user-joined"
	EventUserLeft       EventType = "user-left"
	EventCodeExecution  EventType = "code-execution"
	EventError          EventType = "error"
)

// Envelope 事件信封，JSON 编码后即线上帧
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Ts      int64           `json:"ts,omitempty"` // 毫秒时间戳，服务端出站时填写
}

// NewEnvelope 将 payload 序列化后装入信封
func NewEnvelope(t EventType, payload any) (*Envelope, error) {
	if payload == nil {
		return &Envelope{Type: t}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{Type: t, Payload: raw}, nil
}

// MustEnvelope 与 NewEnvelope 相同，但 payload 序列化失败时 panic。
// 仅用于服务端自身构造的出站负载（结构固定，不可能失败）。
func MustEnvelope(t EventType, payload any) *Envelope {
	env, err := NewEnvelope(t, payload)
	if err != nil {
		panic(err)
	}
	return env
}

// DecodePayload 将信封负载解码到 target
func (e *Envelope) DecodePayload(target any) error {
	if len(e.Payload) == 0 {
		return ErrEmptyPayload
	}
	return json.Unmarshal(e.Payload, target)
}

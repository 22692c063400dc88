package transport

import (
	"github.com/hongjun500/codepair-go/internal/protocol"
)

// Session 传输层统一的连接抽象。
// 一个 Session 绑定一条活跃的 WebSocket 连接，生命周期内 ID 不变，
// 断开后该 ID 不再复用（UUID 生成）。
type Session interface {
	protocol.Conn

	RemoteAddr() string
	Close() error
}

package protocol

// Conn 协议层看到的对端连接：有唯一标识，可写入信封。
// 由具体传输实现（WebSocket 等），业务层只依赖本接口。
type Conn interface {
	ID() string
	SendEnvelope(e *Envelope) error
}

package protocol

import (
	"fmt"
	"sync"
)

// Handler 处理某个连接发来的一条入站事件
type Handler func(c Conn, env *Envelope) error

// Router 按事件类型分发入站信封
type Router struct {
	mu             sync.RWMutex
	handlers       map[EventType]Handler
	defaultHandler Handler
}

// NewRouter 创建空路由器
func NewRouter() *Router {
	return &Router{handlers: make(map[EventType]Handler)}
}

// Register 注册事件处理函数，重复注册时后者覆盖前者
func (r *Router) Register(t EventType, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[t] = h
}

// SetDefault 设置未注册事件类型的兜底处理函数
func (r *Router) SetDefault(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultHandler = h
}

// Dispatch 分发信封到对应处理函数
func (r *Router) Dispatch(c Conn, env *Envelope) error {
	r.mu.RLock()
	h, ok := r.handlers[env.Type]
	def := r.defaultHandler
	r.mu.RUnlock()

	if ok {
		return h(c, env)
	}
	if def != nil {
		return def(c, env)
	}
	return fmt.Errorf("no handler registered for event type: %s", env.Type)
}

// RegisteredTypes 返回已注册的事件类型
func (r *Router) RegisteredTypes() []EventType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]EventType, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}

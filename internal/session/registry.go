package session

import (
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"
)

var (
	// ErrSessionExists 创建时 ID 已被占用
	ErrSessionExists = errors.New("session: id already exists")
	// ErrSessionNotFound 查找的会话不存在
	ErrSessionNotFound = errors.New("session: not found")
)

// Registry 进程内的会话索引，id → *Session。
// 只负责注册、查询和移除，全部为 O(1) 的 map 操作；
// 会话内容的并发控制由 Session 自身的锁承担。
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create 以给定初始内容创建会话。ID 已存在时返回 ErrSessionExists。
func (r *Registry) Create(id, code, language string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return nil, ErrSessionExists
	}
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Code:      code,
		Language:  language,
		Members:   make(map[string]struct{}),
	}
	r.sessions[id] = s
	return s, nil
}

// Get 按 ID 查找会话。格式非法的 ID 与不存在的 ID 统一按未找到处理。
func (r *Registry) Get(id string) (*Session, bool) {
	if ValidateID(id) != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Delete 移除会话。幂等：删除不存在的 ID 是 no-op。
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Count 当前会话数量
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Range 遍历所有会话。先复制快照再回调，避免持锁执行用户代码。
// fn 返回 false 时中断遍历。
func (r *Registry) Range(fn func(s *Session) bool) {
	r.mu.RLock()
	snapshot := lo.Values(r.sessions)
	r.mu.RUnlock()

	for _, s := range snapshot {
		if !fn(s) {
			return
		}
	}
}

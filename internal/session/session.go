package session

import (
	"sync"
	"time"
)

// Session 一个共享编辑单元：代码缓冲区、语言标签和成员集合。
//
// 嵌入的互斥锁是该会话的串行化点：对 Code/Language/Members 的读写，
// 以及"变更后立即广播"的原子性，都依赖调用方持有本锁。
// 不同会话互不相关，各自持锁即可。
type Session struct {
	sync.Mutex

	ID        string    // 9 位小写字母数字，创建后不变
	CreatedAt time.Time // 写一次

	Code     string              // 永不为空，创建时取语言默认模板
	Language string              // 永不为空
	Members  map[string]struct{} // 连接 ID 集合，len 即权威在线人数
}

// AddMember 将连接加入成员集合，需持有会话锁
func (s *Session) AddMember(connID string) {
	s.Members[connID] = struct{}{}
}

// RemoveMember 将连接移出成员集合，需持有会话锁。
// 移除不存在的连接是 no-op，成员数不会为负。
func (s *Session) RemoveMember(connID string) bool {
	if _, ok := s.Members[connID]; !ok {
		return false
	}
	delete(s.Members, connID)
	return true
}

// HasMember 判断连接是否在成员集合中，需持有会话锁
func (s *Session) HasMember(connID string) bool {
	_, ok := s.Members[connID]
	return ok
}

// MemberCount 当前成员数，需持有会话锁
func (s *Session) MemberCount() int {
	return len(s.Members)
}

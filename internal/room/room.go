package room

import (
	"sync"

	"github.com/samber/lo"

	"github.com/hongjun500/codepair-go/internal/protocol"
)

// Broker 广播组管理器：维护 groupID → 连接集合的正向索引，
// 以及 connID → groupID 集合的反向索引，支持断开时一次性退出全部组。
//
// Broker 只做成员簿记和扇出，不理解事件语义；
// 事件路由器在会话锁内调用它，以保证"变更后立即广播"的顺序。
type Broker struct {
	mu     sync.RWMutex
	groups map[string]map[string]protocol.Conn // groupID -> connID -> conn
	joined map[string]map[string]struct{}      // connID -> groupID 集合
}

// NewBroker 创建空的广播组管理器
func NewBroker() *Broker {
	return &Broker{
		groups: make(map[string]map[string]protocol.Conn),
		joined: make(map[string]map[string]struct{}),
	}
}

// Subscribe 将连接订阅到指定组，组不存在时自动创建
func (b *Broker) Subscribe(groupID string, c protocol.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, ok := b.groups[groupID]
	if !ok {
		g = make(map[string]protocol.Conn)
		b.groups[groupID] = g
	}
	g[c.ID()] = c

	j, ok := b.joined[c.ID()]
	if !ok {
		j = make(map[string]struct{})
		b.joined[c.ID()] = j
	}
	j[groupID] = struct{}{}
}

// Unsubscribe 将连接移出指定组。重复退订是 no-op。
func (b *Broker) Unsubscribe(groupID, connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(groupID, connID)
}

func (b *Broker) removeLocked(groupID, connID string) {
	if g, ok := b.groups[groupID]; ok {
		delete(g, connID)
		if len(g) == 0 {
			delete(b.groups, groupID)
		}
	}
	if j, ok := b.joined[connID]; ok {
		delete(j, groupID)
		if len(j) == 0 {
			delete(b.joined, connID)
		}
	}
}

// GroupsOf 返回连接当前订阅的全部组 ID
func (b *Broker) GroupsOf(connID string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return lo.Keys(b.joined[connID])
}

// Count 组内当前连接数，组不存在时为 0
func (b *Broker) Count(groupID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.groups[groupID])
}

// Publish 向组内除 exclude 外的全部连接发送信封。
// exclude 为空字符串时发给所有成员。发送失败只影响该连接。
func (b *Broker) Publish(groupID string, env *protocol.Envelope, exclude string) {
	b.mu.RLock()
	conns := make([]protocol.Conn, 0, len(b.groups[groupID]))
	for id, c := range b.groups[groupID] {
		if id == exclude {
			continue
		}
		conns = append(conns, c)
	}
	b.mu.RUnlock()

	for _, c := range conns {
		_ = c.SendEnvelope(env)
	}
}

package collab

import (
	"sync"
	"time"
)

// Reaper 延迟回收空会话。
//
// 每个会话最多持有一个定时器：重复的空置转换只会重置既有定时器，
// 不会累积；加入事件通过 Cancel 撤掉挂起的任务。
// 到期回调在独立的 timer goroutine 里执行，不持有任何锁等待，
// 且必须重读实时状态，不信任调度时的快照。
type Reaper struct {
	mu     sync.Mutex
	grace  time.Duration
	timers map[string]*time.Timer
	reap   func(sessionID string)
}

// NewReaper 创建回收器。reap 在宽限期满后以会话 ID 调用。
func NewReaper(grace time.Duration, reap func(sessionID string)) *Reaper {
	return &Reaper{
		grace:  grace,
		timers: make(map[string]*time.Timer),
		reap:   reap,
	}
}

// Schedule 为会话安排一次到期检查。已有定时器时重置而非新建。
func (r *Reaper) Schedule(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[sessionID]; ok {
		t.Stop()
	}
	r.timers[sessionID] = time.AfterFunc(r.grace, func() {
		r.fire(sessionID)
	})
}

// Cancel 撤销会话的挂起回收任务，返回是否确有任务被撤销
func (r *Reaper) Cancel(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[sessionID]
	if !ok {
		return false
	}
	t.Stop()
	delete(r.timers, sessionID)
	return true
}

// Pending 会话是否有挂起的回收任务
func (r *Reaper) Pending(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[sessionID]
	return ok
}

// Stop 停掉全部定时器，用于进程关停
func (r *Reaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

func (r *Reaper) fire(sessionID string) {
	r.mu.Lock()
	delete(r.timers, sessionID)
	r.mu.Unlock()

	r.reap(sessionID)
}

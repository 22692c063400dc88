package room

import (
	"sort"
	"sync"
	"testing"

	"github.com/hongjun500/codepair-go/internal/protocol"
)

type stubConn struct {
	id string

	mu   sync.Mutex
	envs []*protocol.Envelope
}

func (s *stubConn) ID() string { return s.id }

func (s *stubConn) SendEnvelope(e *protocol.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envs = append(s.envs, e)
	return nil
}

func (s *stubConn) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.envs)
}

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBroker()
	a := &stubConn{id: "a"}
	c := &stubConn{id: "c"}
	b.Subscribe("g1", a)
	b.Subscribe("g1", c)

	env := protocol.MustEnvelope(protocol.EventCodeUpdate, protocol.CodeUpdatePayload{Code: "x"})
	b.Publish("g1", env, "")

	if a.count() != 1 || c.count() != 1 {
		t.Fatalf("all members should receive, got a=%d c=%d", a.count(), c.count())
	}
}

func TestPublishExcludesSender(t *testing.T) {
	b := NewBroker()
	a := &stubConn{id: "a"}
	c := &stubConn{id: "c"}
	b.Subscribe("g1", a)
	b.Subscribe("g1", c)

	env := protocol.MustEnvelope(protocol.EventCodeUpdate, protocol.CodeUpdatePayload{Code: "x"})
	b.Publish("g1", env, "a")

	if a.count() != 0 {
		t.Fatalf("excluded conn must not receive")
	}
	if c.count() != 1 {
		t.Fatalf("other members should receive, got %d", c.count())
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBroker()
	a := &stubConn{id: "a"}
	b.Subscribe("g1", a)
	b.Unsubscribe("g1", "a")

	if b.Count("g1") != 0 {
		t.Fatalf("expect empty group, got %d", b.Count("g1"))
	}
	if got := b.GroupsOf("a"); len(got) != 0 {
		t.Fatalf("reverse index not cleaned: %v", got)
	}

	// 重复退订是 no-op
	b.Unsubscribe("g1", "a")
	b.Unsubscribe("never", "a")
}

func TestGroupsOf(t *testing.T) {
	b := NewBroker()
	a := &stubConn{id: "a"}
	b.Subscribe("g1", a)
	b.Subscribe("g2", a)

	got := b.GroupsOf("a")
	sort.Strings(got)
	if len(got) != 2 || got[0] != "g1" || got[1] != "g2" {
		t.Fatalf("unexpected groups: %v", got)
	}
	if got := b.GroupsOf("ghost"); len(got) != 0 {
		t.Fatalf("unknown conn should have no groups, got %v", got)
	}
}

func TestPublishToUnknownGroup(t *testing.T) {
	b := NewBroker()
	env := protocol.MustEnvelope(protocol.EventUserLeft, protocol.UserCountPayload{UserCount: 0})
	// 不存在的组：静默 no-op，不 panic
	b.Publish("ghost", env, "")
}

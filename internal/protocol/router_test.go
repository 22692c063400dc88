package protocol

import (
	"testing"
)

type nopConn struct{ id string }

func (n nopConn) ID() string                  { return n.id }
func (n nopConn) SendEnvelope(*Envelope) error { return nil }

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	var gotConn string
	r.Register(EventRunCode, func(c Conn, env *Envelope) error {
		gotConn = c.ID()
		return nil
	})

	env := MustEnvelope(EventRunCode, RunCodePayload{SessionID: "abc123xyz"})
	if err := r.Dispatch(nopConn{id: "c1"}, env); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if gotConn != "c1" {
		t.Fatalf("handler not invoked with conn, got %q", gotConn)
	}
}

func TestRouterDefaultHandler(t *testing.T) {
	r := NewRouter()
	invoked := false
	r.SetDefault(func(c Conn, env *Envelope) error {
		invoked = true
		return nil
	})

	if err := r.Dispatch(nopConn{id: "c1"}, &Envelope{Type: "mystery"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !invoked {
		t.Fatalf("default handler not invoked")
	}
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()
	if err := r.Dispatch(nopConn{id: "c1"}, &Envelope{Type: "mystery"}); err == nil {
		t.Fatalf("expect error when no handler registered")
	}
}

func TestRouterRegisteredTypes(t *testing.T) {
	r := NewRouter()
	r.Register(EventJoinSession, func(Conn, *Envelope) error { return nil })
	r.Register(EventCodeChange, func(Conn, *Envelope) error { return nil })

	if got := r.RegisteredTypes(); len(got) != 2 {
		t.Fatalf("expect 2 registered types, got %v", got)
	}
}

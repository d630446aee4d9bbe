package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/google/uuid"
)

func newTestManager(t *testing.T) (*Manager, context.CancelFunc) {
	t.Helper()
	m := NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)
	t.Cleanup(cancel)
	return m, cancel
}

func receive(t *testing.T, ch <-chan []byte) ([]byte, bool) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for message")
		return nil, false
	}
}

func TestManagerBroadcast(t *testing.T) {
	m, _ := newTestManager(t)

	a := NewClient(m, nil, uuid.New(), "a")
	b := NewClient(m, nil, uuid.New(), "b")
	if !m.Register(a) || !m.Register(b) {
		t.Fatalf("register failed on a running manager")
	}

	if err := m.Publish(context.Background(), models.LedgerEvent{Name: "INFY", Mode: models.ModeBuy, Qty: 3}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for _, c := range []*Client{a, b} {
		msg, ok := receive(t, c.Send)
		if !ok {
			t.Fatalf("send channel closed for %s", c.Username)
		}
		var ev models.LedgerEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Name != "INFY" || ev.Qty != 3 {
			t.Errorf("%s got unexpected event %+v", c.Username, ev)
		}
	}
}

func TestManagerUnregisterClosesSend(t *testing.T) {
	m, _ := newTestManager(t)

	c := NewClient(m, nil, uuid.New(), "c")
	m.Register(c)
	m.Unregister(c)

	if _, ok := receive(t, c.Send); ok {
		t.Errorf("expected send channel to be closed after unregister")
	}

	// a second unregister must not panic on the closed channel
	m.Unregister(c)
}

func TestManagerStop(t *testing.T) {
	m, cancel := newTestManager(t)

	c := NewClient(m, nil, uuid.New(), "c")
	m.Register(c)
	cancel()

	if _, ok := receive(t, c.Send); ok {
		t.Errorf("expected send channel to be closed on shutdown")
	}

	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("manager did not stop")
	}
	if m.Register(NewClient(m, nil, uuid.New(), "late")) {
		t.Errorf("expected register to fail after shutdown")
	}
	m.Unregister(c)
}

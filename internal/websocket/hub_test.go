package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mockClient(hub *Hub) *Client {
	return &Client{hub: hub, conn: nil, send: make(chan []byte, sendBufferSize)}
}

func TestRegisterUnregister(t *testing.T) {
	hub := testHub()
	c := mockClient(hub)

	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Errorf("client count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", hub.ClientCount())
	}

	// Channel should be closed after unregister
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed")
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := testHub()
	c := mockClient(hub)

	hub.Register(c)
	hub.Unregister(c)
	// Second unregister must not panic on the closed channel
	hub.Unregister(c)
}

func TestBroadcast(t *testing.T) {
	hub := testHub()
	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast(NewMessage("task", "completed", "c1", map[string]any{"points": 15}))

	for i, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("client %d: unmarshal: %v", i+1, err)
			}
			if msg.Type != "task_completed" {
				t.Errorf("client %d: type = %q, want %q", i+1, msg.Type, "task_completed")
			}
			if msg.ChildID != "c1" {
				t.Errorf("client %d: child_id = %q, want %q", i+1, msg.ChildID, "c1")
			}
		default:
			t.Errorf("client %d received nothing", i+1)
		}
	}
}

func TestBroadcastFullBufferDoesNotBlock(t *testing.T) {
	hub := testHub()
	c := &Client{hub: hub, conn: nil, send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast(NewMessage("child", "updated", "c1", nil))
	// Buffer now full; the next broadcast must drop rather than block.
	hub.Broadcast(NewMessage("child", "updated", "c1", nil))

	if got := len(c.send); got != 1 {
		t.Errorf("buffered messages = %d, want 1", got)
	}
}

package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		conn:      nil,
		send:      make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, "sess-a")
	c2 := mockClient(hub, "sess-a")

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount("sess-a"); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.ClientCount("sess-a"); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.ClientCount("sess-a"); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, "sess-a")
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount("sess-a"); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcastReachesOwnSessionOnly(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, "sess-a")
	c2 := mockClient(hub, "sess-a")
	other := mockClient(hub, "sess-b")
	hub.Register(c1)
	hub.Register(c2)
	hub.Register(other)

	msg := NewMessage("try_list_item", "completed", 42, map[string]any{"xp_gained": float64(10)})
	hub.Broadcast("sess-a", msg)

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "try_list_item_completed" {
				t.Errorf("expected type try_list_item_completed, got %s", got.Type)
			}
			if got.Entity != "try_list_item" {
				t.Errorf("expected entity try_list_item, got %s", got.Entity)
			}
			if got.ID != 42 {
				t.Errorf("expected id 42, got %d", got.ID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	select {
	case <-other.send:
		t.Fatal("client of another session received the broadcast")
	default:
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
	hub.Unregister(other)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	msg := NewMessage("try_list_item", "completed", 1, nil)
	hub.Broadcast("sess-a", msg)
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, "sess-a")
	hub.Register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast("sess-a", NewMessage("test", "fill", int64(i), nil))
	}

	// This should drop the message, not panic or block
	hub.Broadcast("sess-a", NewMessage("test", "dropped", 999, nil))

	// Drain to verify buffer was full
	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("progress", "updated", 5, nil)
	if msg.Type != "progress_updated" {
		t.Errorf("expected type progress_updated, got %s", msg.Type)
	}
	if msg.Entity != "progress" {
		t.Errorf("expected entity progress, got %s", msg.Entity)
	}
	if msg.Action != "updated" {
		t.Errorf("expected action updated, got %s", msg.Action)
	}
	if msg.ID != 5 {
		t.Errorf("expected id 5, got %d", msg.ID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	// Goroutines register, broadcast, and unregister across two sessions.
	for i := 0; i < 20; i++ {
		wg.Add(1)
		session := "sess-a"
		if i%2 == 0 {
			session = "sess-b"
		}
		go func(session string) {
			defer wg.Done()
			c := mockClient(hub, session)
			hub.Register(c)
			hub.Broadcast(session, NewMessage("test", "concurrent", 0, nil))
			// Drain any messages
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}(session)
	}

	wg.Wait()

	if got := hub.ClientCount("sess-a") + hub.ClientCount("sess-b"); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}

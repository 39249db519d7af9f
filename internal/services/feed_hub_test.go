package services

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeConn struct {
	messages [][]byte
	closed   bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func decodeAll(t *testing.T, conn *fakeConn) []FeedMessage {
	t.Helper()
	out := make([]FeedMessage, 0, len(conn.messages))
	for _, raw := range conn.messages {
		var msg FeedMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("failed to decode feed message: %v", err)
		}
		out = append(out, msg)
	}
	return out
}

func TestPublishDeliversOnlyMatchingSubscriptions(t *testing.T) {
	hub := NewFeedHub()
	alice := &fakeConn{}
	bob := &fakeConn{}

	hub.Register("alice", alice)
	hub.Register("bob", bob)

	if err := hub.Subscribe("alice", Subscription{Table: "notifications", Column: "user_id", Value: "alice"}); err != nil {
		t.Fatal(err)
	}
	if err := hub.Subscribe("bob", Subscription{Table: "events"}); err != nil {
		t.Fatal(err)
	}

	hub.Publish("notifications", ChangeInsert, map[string]string{"user_id": "alice"}, nil)
	hub.Publish("notifications", ChangeInsert, map[string]string{"user_id": "carol"}, nil)
	hub.Publish("events", ChangeUpdate, map[string]string{"event_id": "e1"}, nil)

	if got := len(alice.messages); got != 1 {
		t.Errorf("alice received %d messages, want 1", got)
	}
	if got := len(bob.messages); got != 1 {
		t.Errorf("bob received %d messages, want 1", got)
	}
	if msgs := decodeAll(t, bob); len(msgs) == 1 && msgs[0].Table != "events" {
		t.Errorf("bob received change for table %q, want events", msgs[0].Table)
	}
}

func TestPublishSequenceIsMonotonic(t *testing.T) {
	hub := NewFeedHub()
	conn := &fakeConn{}
	hub.Register("u", conn)
	if err := hub.Subscribe("u", Subscription{Table: "events"}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		hub.Publish("events", ChangeUpdate, nil, nil)
	}

	msgs := decodeAll(t, conn)
	if len(msgs) != 5 {
		t.Fatalf("received %d messages, want 5", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Seq != msgs[i-1].Seq+1 {
			t.Errorf("seq not monotonic: %d then %d", msgs[i-1].Seq, msgs[i].Seq)
		}
	}
}

// overlapConn records the highest number of goroutines that were inside
// WriteMessage at the same time
type overlapConn struct {
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (c *overlapConn) WriteMessage(messageType int, data []byte) error {
	n := c.active.Add(1)
	for {
		max := c.maxSeen.Load()
		if n <= max || c.maxSeen.CompareAndSwap(max, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	c.active.Add(-1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestWritesToSameConnectionAreSerialized(t *testing.T) {
	hub := NewFeedHub()
	conn := &overlapConn{}
	hub.Register("u", conn)
	if err := hub.Subscribe("u", Subscription{Table: "events"}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				hub.Publish("events", ChangeUpdate, nil, nil)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				_ = hub.SendToUser("u", FeedMessage{Type: "subscribed", Table: "events"})
			}
		}()
	}
	wg.Wait()

	if max := conn.maxSeen.Load(); max > 1 {
		t.Errorf("%d goroutines were inside WriteMessage at once, want 1", max)
	}
}

func TestRegisterReplacesExistingChannel(t *testing.T) {
	hub := NewFeedHub()
	first := &fakeConn{}
	second := &fakeConn{}

	hub.Register("u", first)
	hub.Register("u", second)

	if !first.closed {
		t.Error("first connection should be closed on re-register")
	}
	if !hub.IsOnline("u") {
		t.Error("user should still be online after re-register")
	}
}

func TestUnregisterClosesAndDrops(t *testing.T) {
	hub := NewFeedHub()
	conn := &fakeConn{}
	hub.Register("u", conn)
	hub.Unregister("u")

	if !conn.closed {
		t.Error("connection should be closed on unregister")
	}
	if hub.IsOnline("u") {
		t.Error("user should be offline after unregister")
	}
	if err := hub.Subscribe("u", Subscription{Table: "events"}); err == nil {
		t.Error("subscribe without a channel should fail")
	}
}

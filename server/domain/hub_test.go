package domain

import (
	"testing"
	"time"
)

func receive(t *testing.T, ch <-chan StreamMessage) StreamMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
		return StreamMessage{}
	}
}

func TestBroadcastReachesAllMembers(t *testing.T) {
	hub := NewHub()
	a := make(chan StreamMessage, 8)
	b := make(chan StreamMessage, 8)
	hub.Subscribe("s1", "r1", a)
	hub.Subscribe("s2", "r1", b)

	if err := hub.Broadcast("r1", NewSystemMessage("r1", "alice", "joined the room")); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	for _, ch := range []chan StreamMessage{a, b} {
		msg := receive(t, ch)
		if msg.Kind != KindSystem || msg.Content != "joined the room" {
			t.Errorf("message = %+v", msg)
		}
	}
}

func TestBroadcastIsScopedToRoom(t *testing.T) {
	hub := NewHub()
	r1 := make(chan StreamMessage, 8)
	r2 := make(chan StreamMessage, 8)
	hub.Subscribe("s1", "r1", r1)
	hub.Subscribe("s2", "r2", r2)

	if err := hub.Broadcast("r1", NewSystemMessage("r1", "alice", "hello")); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	receive(t, r1)
	select {
	case msg := <-r2:
		t.Errorf("r2 received r1 traffic: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	ch := make(chan StreamMessage, 8)
	hub.Subscribe("s1", "r1", ch)
	hub.Unsubscribe("s1", "r1")

	if hub.MemberCount("r1") != 0 {
		t.Errorf("MemberCount = %d, want 0", hub.MemberCount("r1"))
	}
	// The room is torn down with its last member.
	if err := hub.Broadcast("r1", NewSystemMessage("r1", "alice", "hello")); err == nil {
		t.Error("Broadcast() to an empty room succeeded")
	}
}

func TestSlowSubscriberDoesNotBlockRoom(t *testing.T) {
	hub := NewHub()
	slow := make(chan StreamMessage) // unbuffered and never drained
	fast := make(chan StreamMessage, 8)
	hub.Subscribe("slow", "r1", slow)
	hub.Subscribe("fast", "r1", fast)

	for i := 0; i < 10; i++ {
		if err := hub.Broadcast("r1", NewSystemMessage("r1", "alice", "spam")); err != nil {
			t.Fatalf("Broadcast() error = %v", err)
		}
	}
	for i := 0; i < 8; i++ {
		receive(t, fast)
	}
}

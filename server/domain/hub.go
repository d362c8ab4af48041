package domain

import (
	"fmt"
	"sync"
)

const broadcastBuffer = 256

// Hub fans live messages out to every subscriber of a room. Each room
// gets its own buffered broadcast channel and fanout goroutine; a
// subscriber that cannot keep up has frames dropped rather than stalling
// the room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*hubRoom
}

type hubRoom struct {
	mu        sync.RWMutex
	id        string
	members   map[string]chan<- StreamMessage
	broadcast chan StreamMessage
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*hubRoom)}
}

func newHubRoom(id string) *hubRoom {
	r := &hubRoom{
		id:        id,
		members:   make(map[string]chan<- StreamMessage),
		broadcast: make(chan StreamMessage, broadcastBuffer),
	}
	go r.fanout()
	return r
}

func (r *hubRoom) fanout() {
	for msg := range r.broadcast {
		r.mu.RLock()
		for _, out := range r.members {
			select {
			case out <- msg:
			default:
			}
		}
		r.mu.RUnlock()
	}
}

// Subscribe registers a session's outbound channel with the room,
// creating the room's fanout on first use.
func (h *Hub) Subscribe(sessionID, roomID string, out chan<- StreamMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		room = newHubRoom(roomID)
		h.rooms[roomID] = room
	}
	room.mu.Lock()
	room.members[sessionID] = out
	room.mu.Unlock()
}

// Unsubscribe removes a session; the last member leaving a room shuts
// the room's fanout down.
func (h *Hub) Unsubscribe(sessionID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	room.mu.Lock()
	delete(room.members, sessionID)
	remaining := len(room.members)
	room.mu.Unlock()

	if remaining == 0 {
		close(room.broadcast)
		delete(h.rooms, roomID)
	}
}

// Broadcast queues a message for every member of the room.
func (h *Hub) Broadcast(roomID string, msg StreamMessage) error {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("room has no subscribers: %s", roomID)
	}
	select {
	case room.broadcast <- msg:
		return nil
	default:
		return fmt.Errorf("room broadcast channel is full")
	}
}

// MemberCount reports how many sessions are subscribed to the room.
func (h *Hub) MemberCount(roomID string) int {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}
	room.mu.RLock()
	defer room.mu.RUnlock()
	return len(room.members)
}

package domain

import "time"

// MessageKind distinguishes replayed backlog, live chat and server notices.
type MessageKind string

const (
	KindHistory MessageKind = "history"
	KindMessage MessageKind = "message"
	KindSystem  MessageKind = "system"
)

// Message is a single chat message as streamed by the server. Immutable
// once received.
type Message struct {
	ID         string      `json:"id"`
	RoomID     string      `json:"room_id"`
	SenderID   string      `json:"user_id"`
	SenderName string      `json:"username"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
	Kind       MessageKind `json:"kind"`
}

// Outgoing is the only frame shape a client may send on a stream.
type Outgoing struct {
	Content string `json:"content"`
}

package domain

import "time"

// MaxMessageLen caps the body of a single chat message.
const MaxMessageLen = 4096

type MessageKind string

const (
	KindHistory MessageKind = "history"
	KindMessage MessageKind = "message"
	KindSystem  MessageKind = "system"
)

// Message is a stored chat message.
type Message struct {
	ID        string
	RoomID    string
	UserID    string
	Username  string
	Content   string
	CreatedAt time.Time
}

// StreamMessage is the wire shape of one frame streamed to clients.
type StreamMessage struct {
	ID        string      `json:"id"`
	RoomID    string      `json:"room_id"`
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Kind      MessageKind `json:"kind"`
}

func (m Message) Stream(kind MessageKind) StreamMessage {
	return StreamMessage{
		ID:        m.ID,
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		Username:  m.Username,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Kind:      kind,
	}
}

// NewSystemMessage builds a server-generated notice, e.g. join and leave
// announcements. System messages are not persisted.
func NewSystemMessage(roomID, username, content string) StreamMessage {
	return StreamMessage{
		RoomID:    roomID,
		Username:  username,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Kind:      KindSystem,
	}
}

package domain

import "time"

// Room is a named channel scoping a message stream. Rooms are created
// server-side; the client only reads and creates them.
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	OwnerUserID string    `json:"owner_user_id,omitempty"`
}

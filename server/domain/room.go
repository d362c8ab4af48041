package domain

import "time"

type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	OwnerUserID string    `json:"owner_user_id,omitempty"`
}

func NewRoom(id, name, ownerUserID string) Room {
	return Room{
		ID:          id,
		Name:        name,
		OwnerUserID: ownerUserID,
		CreatedAt:   time.Now().UTC(),
	}
}

package usecase

import "github.com/utkarsh-90/Axum-Chat-Service/server/domain"

type Repository interface {
	// User
	CreateUser(user domain.User) error
	GetUserByUsername(username string) (domain.User, error)

	// Room
	CreateRoom(room domain.Room) error
	GetRoom(id string) (domain.Room, error)
	ListRooms() ([]domain.Room, error)
	AddMember(roomID, userID string) error
	IsMember(roomID, userID string) (bool, error)

	// Message
	CreateMessage(msg domain.Message) error
	ListRecentMessages(roomID string, limit int) ([]domain.Message, error)
	ListMessagesBefore(roomID, beforeID string, limit int) ([]domain.Message, error)
}

package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/utkarsh-90/Axum-Chat-Service/server/domain"
)

var ErrEmptyRoomName = errors.New("room name must not be empty")

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

// RoomUsecase handles the room directory and message history.
type RoomUsecase struct {
	repo Repository
}

func NewRoomUsecase(repo Repository) *RoomUsecase {
	return &RoomUsecase{repo: repo}
}

func (u *RoomUsecase) ListRooms() ([]domain.Room, error) {
	return u.repo.ListRooms()
}

// CreateRoom creates a room owned by the given user, who joins it
// immediately.
func (u *RoomUsecase) CreateRoom(name, ownerUserID string) (domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Room{}, ErrEmptyRoomName
	}
	room := domain.NewRoom(NewID(), name, ownerUserID)
	if err := u.repo.CreateRoom(room); err != nil {
		return domain.Room{}, fmt.Errorf("failed to create room: %w", err)
	}
	if err := u.repo.AddMember(room.ID, ownerUserID); err != nil {
		return domain.Room{}, fmt.Errorf("failed to add owner to room: %w", err)
	}
	return room, nil
}

// JoinRoom makes the user a member and returns the room.
func (u *RoomUsecase) JoinRoom(roomID, userID string) (domain.Room, error) {
	room, err := u.repo.GetRoom(roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if err := u.repo.AddMember(roomID, userID); err != nil {
		return domain.Room{}, fmt.Errorf("failed to join room: %w", err)
	}
	return room, nil
}

// ListMessages returns history for a room, newest page first.
func (u *RoomUsecase) ListMessages(roomID, beforeID string, limit int) ([]domain.Message, error) {
	if _, err := u.repo.GetRoom(roomID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	if beforeID != "" {
		return u.repo.ListMessagesBefore(roomID, beforeID, limit)
	}
	return u.repo.ListRecentMessages(roomID, limit)
}

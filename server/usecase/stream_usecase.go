package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/utkarsh-90/Axum-Chat-Service/server/domain"
)

var ErrNotAMember = errors.New("not a member of this room")

const historyLimit = 50

// StreamUsecase handles one room's live message stream: access checks,
// history replay, chat persistence and fanout.
type StreamUsecase struct {
	repo Repository
	hub  *domain.Hub
}

func NewStreamUsecase(repo Repository, hub *domain.Hub) *StreamUsecase {
	return &StreamUsecase{repo: repo, hub: hub}
}

// EnsureAccess confirms the room exists and makes the user a member.
// Any authenticated user may enter any listed room; membership is
// recorded on first entry so chat and history checks pass afterwards.
func (u *StreamUsecase) EnsureAccess(roomID, userID string) error {
	if _, err := u.repo.GetRoom(roomID); err != nil {
		return err
	}
	return u.repo.AddMember(roomID, userID)
}

// History returns the most recent messages in chronological order,
// tagged as history frames for replay on a fresh connection.
func (u *StreamUsecase) History(roomID string) ([]domain.StreamMessage, error) {
	messages, err := u.repo.ListRecentMessages(roomID, historyLimit)
	if err != nil {
		return nil, err
	}
	// Repository returns newest first; replay oldest first.
	frames := make([]domain.StreamMessage, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		frames = append(frames, messages[i].Stream(domain.KindHistory))
	}
	return frames, nil
}

// Join subscribes a session and announces it to the room.
func (u *StreamUsecase) Join(sessionID, roomID, username string, out chan<- domain.StreamMessage) {
	u.hub.Subscribe(sessionID, roomID, out)
	if err := u.hub.Broadcast(roomID, domain.NewSystemMessage(roomID, username, "joined the room")); err != nil {
		log.Debug().Err(err).Str("room", roomID).Msg("join announcement dropped")
	}
}

// Leave announces the departure and unsubscribes the session.
func (u *StreamUsecase) Leave(sessionID, roomID, username string) {
	if err := u.hub.Broadcast(roomID, domain.NewSystemMessage(roomID, username, "left the room")); err != nil {
		log.Debug().Err(err).Str("room", roomID).Msg("leave announcement dropped")
	}
	u.hub.Unsubscribe(sessionID, roomID)
}

// HandleChat persists an inbound chat message and broadcasts it. Empty
// and oversized bodies are dropped silently, matching what clients
// expect from the stream contract.
func (u *StreamUsecase) HandleChat(roomID, userID, username, content string) error {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > domain.MaxMessageLen {
		return nil
	}
	member, err := u.repo.IsMember(roomID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotAMember
	}

	msg := domain.Message{
		ID:        NewID(),
		RoomID:    roomID,
		UserID:    userID,
		Username:  username,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.repo.CreateMessage(msg); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	if err := u.hub.Broadcast(roomID, msg.Stream(domain.KindMessage)); err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("broadcast failed")
	}
	return nil
}

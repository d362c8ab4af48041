package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/utkarsh-90/Axum-Chat-Service/server/domain"
	"github.com/utkarsh-90/Axum-Chat-Service/server/usecase"
)

// ErrNotFound is returned when a queried record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a unique constraint is violated.
var ErrAlreadyExists = errors.New("already exists")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) usecase.Repository {
	return &Repository{db: db}
}

// Migrate creates the schema. Idempotent.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner_user_id TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS room_members (
		room_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		PRIMARY KEY (room_id, user_id)
	);
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_room ON messages (room_id, id);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (r *Repository) CreateUser(user domain.User) error {
	query := `INSERT INTO users (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(query, user.ID, user.Username, user.PasswordHash, user.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *Repository) GetUserByUsername(username string) (domain.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	var user domain.User
	err := r.db.QueryRow(query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("error querying user: %w", err)
	}
	return user, nil
}

func (r *Repository) CreateRoom(room domain.Room) error {
	query := `INSERT INTO rooms (id, name, owner_user_id, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(query, room.ID, room.Name, room.OwnerUserID, room.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}
	return nil
}

func (r *Repository) GetRoom(id string) (domain.Room, error) {
	query := `SELECT id, name, COALESCE(owner_user_id, ''), created_at FROM rooms WHERE id = $1`
	var room domain.Room
	err := r.db.QueryRow(query, id).Scan(&room.ID, &room.Name, &room.OwnerUserID, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, ErrNotFound
		}
		return domain.Room{}, fmt.Errorf("error querying room: %w", err)
	}
	return room, nil
}

func (r *Repository) ListRooms() ([]domain.Room, error) {
	query := `SELECT id, name, COALESCE(owner_user_id, ''), created_at FROM rooms ORDER BY created_at, id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var results []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.OwnerUserID, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		results = append(results, room)
	}
	return results, rows.Err()
}

func (r *Repository) AddMember(roomID, userID string) error {
	query := `INSERT OR IGNORE INTO room_members (room_id, user_id) VALUES ($1, $2)`
	if _, err := r.db.Exec(query, roomID, userID); err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

func (r *Repository) IsMember(roomID, userID string) (bool, error) {
	query := `SELECT COUNT(1) FROM room_members WHERE room_id = $1 AND user_id = $2`
	var count int
	if err := r.db.QueryRow(query, roomID, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("error querying membership: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) CreateMessage(msg domain.Message) error {
	query := `INSERT INTO messages (id, room_id, user_id, content, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(query, msg.ID, msg.RoomID, msg.UserID, msg.Content, msg.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

const messageColumns = `
	SELECT m.id, m.room_id, m.user_id, COALESCE(u.username, ''), m.content, m.created_at
	FROM messages m LEFT JOIN users u ON u.id = m.user_id`

func (r *Repository) ListRecentMessages(roomID string, limit int) ([]domain.Message, error) {
	query := messageColumns + ` WHERE m.room_id = $1 ORDER BY m.id DESC LIMIT $2`
	return r.queryMessages(query, roomID, limit)
}

func (r *Repository) ListMessagesBefore(roomID, beforeID string, limit int) ([]domain.Message, error) {
	query := messageColumns + ` WHERE m.room_id = $1 AND m.id < $2 ORDER BY m.id DESC LIMIT $3`
	return r.queryMessages(query, roomID, beforeID, limit)
}

func (r *Repository) queryMessages(query string, args ...any) ([]domain.Message, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var results []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.UserID, &msg.Username, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		results = append(results, msg)
	}
	return results, rows.Err()
}

// Package session owns the authenticated identity: it is the only
// component that may replace or clear it, and it mirrors every change
// into durable storage so a restart restores the login.
package session

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/utkarsh-90/Axum-Chat-Service/client/domain"
)

// CredentialService is the slice of the API client the store needs.
type CredentialService interface {
	Login(ctx context.Context, username, password string) (domain.Identity, error)
	Register(ctx context.Context, username, password string) (domain.Identity, error)
}

type Store struct {
	svc      CredentialService
	storage  Storage
	identity *domain.Identity
}

func NewStore(svc CredentialService, storage Storage) *Store {
	return &Store{svc: svc, storage: storage}
}

// Current returns the active identity, or nil when logged out.
func (s *Store) Current() *domain.Identity {
	return s.identity
}

// Restore loads the persisted identity. Absent or malformed records mean
// "not logged in"; restore never fails.
func (s *Store) Restore() *domain.Identity {
	record, err := s.storage.Load()
	if err != nil {
		return nil
	}
	var identity domain.Identity
	if err := json.Unmarshal(record, &identity); err != nil || !identity.Valid() {
		log.Debug().Err(err).Msg("discarding unreadable session record")
		return nil
	}
	s.identity = &identity
	return s.identity
}

// Login authenticates against the credential service and persists the
// issued identity.
func (s *Store) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	identity, err := s.svc.Login(ctx, username, password)
	if err != nil {
		return domain.Identity{}, err
	}
	s.replace(identity)
	return identity, nil
}

// Register creates an account and persists the issued identity.
func (s *Store) Register(ctx context.Context, username, password string) (domain.Identity, error) {
	identity, err := s.svc.Register(ctx, username, password)
	if err != nil {
		return domain.Identity{}, err
	}
	s.replace(identity)
	return identity, nil
}

// Logout clears the in-memory identity and the persisted record.
func (s *Store) Logout() {
	s.identity = nil
	if err := s.storage.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear stored session")
	}
}

func (s *Store) replace(identity domain.Identity) {
	s.identity = &identity
	record, err := json.Marshal(identity)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode session record")
		return
	}
	if err := s.storage.Save(record); err != nil {
		log.Warn().Err(err).Msg("failed to persist session record")
	}
}

package session

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoRecord is returned by Load when nothing has been persisted yet.
var ErrNoRecord = errors.New("no stored session")

// Storage persists one opaque identity record across restarts. Writes
// replace the record wholesale; there are no partial updates.
type Storage interface {
	Load() ([]byte, error)
	Save(record []byte) error
	Clear() error
}

// FileStorage keeps the record in a single file, created with user-only
// permissions since it holds a credential.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load() ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return b, nil
}

func (s *FileStorage) Save(record []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, record, 0o600)
}

func (s *FileStorage) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStorage is the in-process variant used by tests.
type MemoryStorage struct {
	record []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load() ([]byte, error) {
	if s.record == nil {
		return nil, ErrNoRecord
	}
	return s.record, nil
}

func (s *MemoryStorage) Save(record []byte) error {
	s.record = append([]byte(nil), record...)
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.record = nil
	return nil
}

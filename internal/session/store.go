package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	"entrance-client/internal/model"
)

// Store is the client-local cache of the authenticated user's profile. It is
// advisory only: the credential cookie held by the HTTP client is the real
// session, and the cache is refreshed or cleared by the manager's probes.
type Store interface {
	Get() *model.User
	Set(user *model.User) error
	Clear() error
}

// MemoryStore keeps the profile for the lifetime of the process
// (session-scoped storage)
type MemoryStore struct {
	mu   sync.RWMutex
	user *model.User
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *MemoryStore) Set(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

// FileStore persists the profile across restarts (remember-me storage).
// The cached profile may be stale after a restart, so the startup probe must
// still run before it is trusted.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the given file path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		// A corrupt cache file is the same as no cache
		return nil
	}
	return &user
}

func (s *FileStore) Set(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

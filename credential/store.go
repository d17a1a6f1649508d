// Package credential persists the signed tokens that represent the current
// login. It is pure storage: nothing here inspects or validates a token.
package credential

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Key names a stored credential slot.
type Key string

const (
	// AccessToken is the bearer credential attached to authenticated requests.
	AccessToken Key = "accessToken"
	// RefreshToken is the long-lived credential used for silent refresh.
	RefreshToken Key = "refreshToken"
)

// ErrNoCredential is returned by Load when the slot is empty.
var ErrNoCredential = errors.New("credential: not present")

// Store is a durable key-value holder for credentials. Implementations must
// be safe for concurrent use; the session manager is the only writer.
type Store interface {
	Save(key Key, token string) error
	Load(key Key) (string, error)
	Clear() error
}

// FileStore keeps credentials in a JSON file, the durable-across-restarts
// analogue of the browser's local storage. Single account, singly keyed.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(key Key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return err
	}
	creds[string(key)] = token
	return s.write(creds)
}

func (s *FileStore) Load(key Key) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return "", err
	}
	token, ok := creds[string(key)]
	if !ok || token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	creds := map[string]string{}
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt file counts as absent; the next Save rewrites it.
		return map[string]string{}, nil
	}
	return creds, nil
}

func (s *FileStore) write(creds map[string]string) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// MemStore is an in-memory Store for tests and ephemeral sessions.
type MemStore struct {
	mu    sync.Mutex
	creds map[Key]string
}

func NewMemStore() *MemStore {
	return &MemStore{creds: map[Key]string{}}
}

func (s *MemStore) Save(key Key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[key] = token
	return nil
}

func (s *MemStore) Load(key Key) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.creds[key]
	if !ok || token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = map[Key]string{}
	return nil
}

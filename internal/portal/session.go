package portal

import (
	"encoding/json" // Session file format
	"errors"        // Error inspection
	"fmt"           // Error wrapping
	"io/fs"         // Missing file detection
	"net/http"      // Authorized requests
	"os"            // Session file access
	"sync"          // Store locking
)

// TokenKey is the fixed key the access token is stored under.
const TokenKey = "token"

// ErrNotLoggedIn is an authenticated call attempted without a stored token.
var ErrNotLoggedIn = errors.New("not logged in")

// TokenStore persists small string values between runs.
type TokenStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Session holds the access token of the logged-in user. It is created once
// and handed to whatever needs to make authenticated calls.
type Session struct {
	store TokenStore // Where the token lives
}

// NewSession wraps store.
func NewSession(store TokenStore) *Session {
	return &Session{store: store}
}

// Save stores the access token.
func (s *Session) Save(token string) error {
	return s.store.Set(TokenKey, token)
}

// Token returns the stored access token, if any.
func (s *Session) Token() (string, bool, error) {
	return s.store.Get(TokenKey)
}

// Clear forgets the access token.
func (s *Session) Clear() error {
	return s.store.Delete(TokenKey)
}

// Authorize adds the bearer token to req. Without a stored token it
// returns ErrNotLoggedIn.
func (s *Session) Authorize(req *http.Request) error {
	token, ok, err := s.Token()
	if err != nil {
		return err // Store unreadable
	}
	if !ok || token == "" {
		return ErrNotLoggedIn
	}
	req.Header.Set("Authorization", "Bearer "+token) // Same scheme the JWT middleware expects
	return nil
}

// MemoryStore keeps values for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex      // Guards values
	values map[string]string // Stored values by key
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// FileStore keeps values in a JSON object on disk, readable only by the owner.
type FileStore struct {
	mu   sync.Mutex // Serializes read-modify-write cycles
	path string     // Session file location
}

// NewFileStore stores values in the file at path, created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return f.save(values)
}

func (f *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil // Nothing saved yet
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(b) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return values, nil
}

func (f *FileStore) save(values map[string]string) error {
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, b, 0o600); err != nil { // Owner only, it holds a bearer token
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the session in a JSON file. All operations swallow I/O
// errors so that a read-only or missing home directory behaves like an
// absent store rather than breaking sign-in.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "worknest", "session.json"), nil
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.read()
	sess.AccessToken = token
	if token == "" {
		sess = session{}
	}
	s.write(sess)
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read().AccessToken
}

func (s *FileStore) SetMarker() {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.read()
	if sess.AccessToken == "" {
		return
	}
	sess.AuthTimestamp = NowTimeFunc().UnixMilli()
	sess.AuthPersisted = true
	s.write(sess)
}

func (s *FileStore) ReadMarker() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read().markerValid()
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = os.Remove(s.path)
}

func (s *FileStore) read() session {
	var sess session
	data, err := os.ReadFile(s.path)
	if err != nil {
		return session{}
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return session{}
	}
	return sess
}

func (s *FileStore) write(sess session) {
	if sess == (session{}) {
		_ = os.Remove(s.path)
		return
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}
	// Write-then-rename keeps a concurrent reader from seeing a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, s.path)
}

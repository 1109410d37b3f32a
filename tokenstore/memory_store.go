package tokenstore

import "sync"

// MemoryStore is an in-memory Store for tests and ephemeral processes.
type MemoryStore struct {
	mu   sync.Mutex
	sess session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		s.sess = session{}
		return
	}
	s.sess.AccessToken = token
}

func (s *MemoryStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sess.AccessToken
}

func (s *MemoryStore) SetMarker() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.AccessToken == "" {
		return
	}
	s.sess.AuthTimestamp = NowTimeFunc().UnixMilli()
	s.sess.AuthPersisted = true
}

func (s *MemoryStore) ReadMarker() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sess.markerValid()
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = session{}
}

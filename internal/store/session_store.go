package store

import (
	"path/filepath"
	"sync"

	"sigil/internal/domain"
)

// SessionFileStore persists established X3DH sessions per peer.
type SessionFileStore struct {
	file jsonFile
	mu   sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{file: jsonFile{filepath.Join(dir, "sessions.json")}}
}

// SaveSession stores the session for peer, replacing any previous one.
func (s *SessionFileStore) SaveSession(peer domain.Username, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[domain.Username]domain.Session{}
	if _, err := s.file.load(&m); err != nil {
		return err
	}
	m[peer] = session
	return s.file.store(m)
}

// LoadSession retrieves the session for peer, if one exists.
func (s *SessionFileStore) LoadSession(peer domain.Username) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[domain.Username]domain.Session{}
	if _, err := s.file.load(&m); err != nil {
		return domain.Session{}, false, err
	}
	sess, ok := m[peer]
	return sess, ok, nil
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)

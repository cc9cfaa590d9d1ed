package relay

import (
	"sync"

	"sigil/internal/domain"
)

// MemoryStore is the relay's in-memory state: registered bundles and queued
// envelopes, guarded by a single lock. Re-registering a username overwrites
// its bundle (last writer wins); a production deployment would want
// versioned bundles and durable queues, which is out of scope here.
type MemoryStore struct {
	mu      sync.Mutex
	bundles map[domain.Username]domain.PreKeyBundle
	queues  map[domain.Username][]domain.Envelope
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bundles: make(map[domain.Username]domain.PreKeyBundle),
		queues:  make(map[domain.Username][]domain.Envelope),
	}
}

// RegisterBundle stores the bundle for its username, replacing any previous
// one including its remaining one-time pre-keys.
func (s *MemoryStore) RegisterBundle(b domain.PreKeyBundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles[b.Username] = b
}

// TakeBundle returns username's bundle carrying at most one one-time
// pre-key, which is removed from the stored bundle under the lock so no two
// initiators are ever handed the same one. A bundle whose pool has drained
// is still returned, just without a one-time pre-key.
func (s *MemoryStore) TakeBundle(username domain.Username) (domain.PreKeyBundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bundles[username]
	if !ok {
		return domain.PreKeyBundle{}, false
	}
	out := b
	if len(b.OneTimePreKeys) > 0 {
		out.OneTimePreKeys = []domain.OneTimePreKeyPublic{b.OneTimePreKeys[0]}
		b.OneTimePreKeys = b.OneTimePreKeys[1:]
		s.bundles[username] = b
	} else {
		out.OneTimePreKeys = nil
	}
	return out, true
}

// PushEnvelope queues an envelope for its recipient.
func (s *MemoryStore) PushEnvelope(env domain.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[env.To] = append(s.queues[env.To], env)
}

// ListEnvelopes returns up to limit queued envelopes for username without
// removing them; limit <= 0 means all.
func (s *MemoryStore) ListEnvelopes(username domain.Username, limit int) []domain.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.queues[username]
	if limit > 0 && limit < len(q) {
		q = q[:limit]
	}
	return append([]domain.Envelope(nil), q...)
}

// AckEnvelopes drops the first count queued envelopes for username.
func (s *MemoryStore) AckEnvelopes(username domain.Username, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.queues[username]
	if count >= len(q) {
		delete(s.queues, username)
		return
	}
	s.queues[username] = q[count:]
}

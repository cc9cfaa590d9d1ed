package store

import (
	"path/filepath"
	"sync"

	"sigil/internal/domain"
)

// PreKeyFileStore persists signed pre-key and one-time pre-key state, one
// JSON document per concern.
type PreKeyFileStore struct {
	spk  jsonFile
	opk  jsonFile
	meta jsonFile
	mu   sync.Mutex
}

// NewPreKeyFileStore returns a PreKeyFileStore rooted at dir.
func NewPreKeyFileStore(dir string) *PreKeyFileStore {
	return &PreKeyFileStore{
		spk:  jsonFile{filepath.Join(dir, "spk_pairs.json")},
		opk:  jsonFile{filepath.Join(dir, "opk_pairs.json")},
		meta: jsonFile{filepath.Join(dir, "prekey_meta.json")},
	}
}

// Internal record types.
type spkPair struct {
	Priv [32]byte `json:"priv"`
	Pub  [32]byte `json:"pub"`
	Sig  []byte   `json:"sig"`
}

type opkPair struct {
	Priv [32]byte `json:"priv"`
	Pub  [32]byte `json:"pub"`
}

type prekeyMeta struct {
	CurrentSignedPreKeyID domain.SignedPreKeyID `json:"current_signed_pre_key_id"`
}

// SaveSignedPreKey stores a signed pre-key pair by id.
func (s *PreKeyFileStore) SaveSignedPreKey(
	id domain.SignedPreKeyID,
	priv domain.X25519Private,
	pub domain.X25519Public,
	sig []byte,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[domain.SignedPreKeyID]spkPair{}
	if _, err := s.spk.load(&m); err != nil {
		return err
	}
	m[id] = spkPair{Priv: priv, Pub: pub, Sig: append([]byte(nil), sig...)}
	return s.spk.store(m)
}

// LoadSignedPreKey retrieves a signed pre-key pair by id.
func (s *PreKeyFileStore) LoadSignedPreKey(
	id domain.SignedPreKeyID,
) (priv domain.X25519Private, pub domain.X25519Public, sig []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[domain.SignedPreKeyID]spkPair{}
	if _, err = s.spk.load(&m); err != nil {
		return priv, pub, nil, false, err
	}
	p, exists := m[id]
	if !exists {
		return priv, pub, nil, false, nil
	}
	return p.Priv, p.Pub, append([]byte(nil), p.Sig...), true, nil
}

// SaveOneTimePreKeys adds one-time pre-key pairs to the pool.
func (s *PreKeyFileStore) SaveOneTimePreKeys(pairs []domain.OneTimePreKeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[domain.OneTimePreKeyID]opkPair{}
	if _, err := s.opk.load(&m); err != nil {
		return err
	}
	for _, p := range pairs {
		m[p.ID] = opkPair{Priv: p.Priv, Pub: p.Pub}
	}
	return s.opk.store(m)
}

// ConsumeOneTimePreKey removes the pair from the pool and returns its
// private half. The removal is written back before the key is returned, so
// a second handshake reusing the same id sees ok == false rather than a
// silently colliding derivation.
func (s *PreKeyFileStore) ConsumeOneTimePreKey(
	id domain.OneTimePreKeyID,
) (priv domain.X25519Private, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[domain.OneTimePreKeyID]opkPair{}
	if _, err = s.opk.load(&m); err != nil {
		return priv, false, err
	}
	p, exists := m[id]
	if !exists {
		return priv, false, nil
	}
	delete(m, id)
	if err = s.opk.store(m); err != nil {
		return priv, false, err
	}
	return p.Priv, true, nil
}

// ListOneTimePreKeyPublics returns the public halves still in the pool.
func (s *PreKeyFileStore) ListOneTimePreKeyPublics() ([]domain.OneTimePreKeyPublic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[domain.OneTimePreKeyID]opkPair{}
	if _, err := s.opk.load(&m); err != nil {
		return nil, err
	}
	out := make([]domain.OneTimePreKeyPublic, 0, len(m))
	for id, p := range m {
		out = append(out, domain.OneTimePreKeyPublic{ID: id, Pub: p.Pub})
	}
	return out, nil
}

// SetCurrentSignedPreKeyID marks which signed pre-key new bundles advertise.
func (s *PreKeyFileStore) SetCurrentSignedPreKeyID(id domain.SignedPreKeyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.meta.store(prekeyMeta{CurrentSignedPreKeyID: id})
}

// CurrentSignedPreKeyID returns the advertised signed pre-key id, if set.
func (s *PreKeyFileStore) CurrentSignedPreKeyID() (domain.SignedPreKeyID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta prekeyMeta
	if _, err := s.meta.load(&meta); err != nil {
		return "", false, err
	}
	return meta.CurrentSignedPreKeyID, meta.CurrentSignedPreKeyID != "", nil
}

// Compile-time assertion that PreKeyFileStore implements domain.PreKeyStore.
var _ domain.PreKeyStore = (*PreKeyFileStore)(nil)

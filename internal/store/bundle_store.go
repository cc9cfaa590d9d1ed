package store

import (
	"path/filepath"
	"sync"

	"sigil/internal/domain"
)

// BundleFileStore caches the last bundle registered with the relay.
type BundleFileStore struct {
	file jsonFile
	mu   sync.Mutex
}

// NewBundleFileStore returns a BundleFileStore rooted at dir.
func NewBundleFileStore(dir string) *BundleFileStore {
	return &BundleFileStore{file: jsonFile{filepath.Join(dir, "bundle_cache.json")}}
}

// SavePreKeyBundle overwrites the cached bundle.
func (s *BundleFileStore) SavePreKeyBundle(bundle domain.PreKeyBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.file.store(bundle)
}

// LoadPreKeyBundle returns the cached bundle if it belongs to username.
func (s *BundleFileStore) LoadPreKeyBundle(
	username domain.Username,
) (domain.PreKeyBundle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b domain.PreKeyBundle
	ok, err := s.file.load(&b)
	if err != nil {
		return domain.PreKeyBundle{}, false, err
	}
	if !ok || b.Username != username {
		return domain.PreKeyBundle{}, false, nil
	}
	return b, true, nil
}

// Compile-time assertion that BundleFileStore implements domain.PreKeyBundleStore.
var _ domain.PreKeyBundleStore = (*BundleFileStore)(nil)

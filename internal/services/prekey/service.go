// Package prekey manages pre-key pairs and assembles the public bundle.
package prekey

import (
	"fmt"

	"github.com/segmentio/ksuid"

	"sigil/internal/crypto"
	"sigil/internal/domain"
)

// Service generates signed and one-time pre-key pairs and builds the
// publishable bundle. All private halves stay in the local stores; only the
// bundle leaves the machine.
type Service struct {
	identityStore domain.IdentityStore
	prekeyStore   domain.PreKeyStore
	bundleStore   domain.PreKeyBundleStore
}

// New constructs a pre-key service over the given stores.
func New(
	identityStore domain.IdentityStore,
	prekeyStore domain.PreKeyStore,
	bundleStore domain.PreKeyBundleStore,
) *Service {
	return &Service{
		identityStore: identityStore,
		prekeyStore:   prekeyStore,
		bundleStore:   bundleStore,
	}
}

// GenerateAndStorePreKeys creates a signed pre-key pair and count one-time
// pairs, marks the new signed pre-key as current, and returns the public
// halves. The signed pre-key public is signed with the identity's Ed25519
// key; that signature is what initiators verify before trusting the bundle.
func (s *Service) GenerateAndStorePreKeys(
	passphrase string,
	count int,
) (domain.X25519Public, []domain.X25519Public, error) {
	id, err := s.identityStore.LoadIdentity(passphrase)
	if err != nil {
		return domain.X25519Public{}, nil, err
	}

	// Signed pre-key
	spkPriv, spkPub, err := crypto.GenerateX25519(nil)
	if err != nil {
		return domain.X25519Public{}, nil, err
	}
	spkID := domain.SignedPreKeyID("spk-" + ksuid.New().String())
	sig := crypto.SignEd25519(id.EdPriv, spkPub.Slice())
	if err := s.prekeyStore.SaveSignedPreKey(spkID, spkPriv, spkPub, sig); err != nil {
		return domain.X25519Public{}, nil, err
	}
	if err := s.prekeyStore.SetCurrentSignedPreKeyID(spkID); err != nil {
		return domain.X25519Public{}, nil, err
	}

	// One-time pre-keys
	pairs := make([]domain.OneTimePreKeyPair, 0, count)
	publics := make([]domain.X25519Public, 0, count)
	for i := 0; i < count; i++ {
		priv, pub, err := crypto.GenerateX25519(nil)
		if err != nil {
			return domain.X25519Public{}, nil, err
		}
		pairs = append(pairs, domain.OneTimePreKeyPair{
			ID:   domain.OneTimePreKeyID("opk-" + ksuid.New().String()),
			Priv: priv,
			Pub:  pub,
		})
		publics = append(publics, pub)
	}
	if err := s.prekeyStore.SaveOneTimePreKeys(pairs); err != nil {
		return domain.X25519Public{}, nil, err
	}
	return spkPub, publics, nil
}

// LoadPreKeyBundle builds the public bundle from the current signed pre-key
// and the remaining one-time pre-key publics, caches it, and returns it.
func (s *Service) LoadPreKeyBundle(
	passphrase string,
	username domain.Username,
) (domain.PreKeyBundle, error) {
	id, err := s.identityStore.LoadIdentity(passphrase)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}

	spkID, ok, err := s.prekeyStore.CurrentSignedPreKeyID()
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if !ok {
		return domain.PreKeyBundle{}, fmt.Errorf("%w: no signed pre-key, run register first", domain.ErrMissingKeyMaterial)
	}
	_, spkPub, sig, found, err := s.prekeyStore.LoadSignedPreKey(spkID)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if !found {
		return domain.PreKeyBundle{}, fmt.Errorf("%w: signed pre-key %q missing", domain.ErrMissingKeyMaterial, spkID)
	}

	oneTime, err := s.prekeyStore.ListOneTimePreKeyPublics()
	if err != nil {
		return domain.PreKeyBundle{}, err
	}

	bundle := domain.PreKeyBundle{
		Username:        username,
		IdentityKey:     id.XPub,
		SigningKey:      id.EdPub,
		SignedPreKeyID:  spkID,
		SignedPreKey:    spkPub,
		SignedPreKeySig: sig,
		OneTimePreKeys:  oneTime,
	}
	if err := s.bundleStore.SavePreKeyBundle(bundle); err != nil {
		return domain.PreKeyBundle{}, err
	}
	return bundle, nil
}

// Compile-time assertion that Service implements domain.PreKeyService.
var _ domain.PreKeyService = (*Service)(nil)

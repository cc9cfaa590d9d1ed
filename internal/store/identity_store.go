package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/scrypt"

	"sigil/internal/crypto"
	"sigil/internal/domain"
	"sigil/internal/util/memzero"
)

const (
	identityFile = "identity.json"

	// keystoreVersion is bumped when the on-disk layout changes shape.
	// Files written by a newer build are refused rather than misread.
	keystoreVersion = 1

	keystoreSaltSize = 16
)

// keystoreAAD binds the ciphertext to its purpose; an identity blob cannot
// be passed off as any other sealed payload.
var keystoreAAD = []byte("sigil identity keystore v1")

var errWrongPassphrase = errors.New("wrong passphrase or corrupted keystore")

// keystoreFile is the on-disk identity document. The KDF parameters travel
// with the file, so a later cost bump keeps old files decryptable.
type keystoreFile struct {
	Version int         `json:"version"`
	KDF     keystoreKDF `json:"kdf"`
	Nonce   []byte      `json:"nonce"`
	Cipher  []byte      `json:"cipher"`
}

type keystoreKDF struct {
	Salt []byte `json:"salt"`
	N    int    `json:"n"`
	R    int    `json:"r"`
	P    int    `json:"p"`
}

// keystoreParams pins the scrypt cost for newly written keystores.
func keystoreParams() keystoreKDF { return keystoreKDF{N: 1 << 15, R: 8, P: 1} }

// IdentityFileStore persists the long-term identity encrypted under a
// passphrase.
type IdentityFileStore struct {
	file jsonFile
	mu   sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{file: jsonFile{filepath.Join(dir, identityFile)}}
}

// SaveIdentity encrypts the identity under a fresh salt and nonce and
// replaces any previous keystore file.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	kdf := keystoreParams()
	kdf.Salt = make([]byte, keystoreSaltSize)
	if _, err := rand.Read(kdf.Salt); err != nil {
		return err
	}
	key, err := deriveKeystoreKey(passphrase, kdf)
	if err != nil {
		return err
	}
	nonce, ct, err := crypto.Seal(nil, key, raw, keystoreAAD)
	if err != nil {
		return err
	}

	return s.file.store(keystoreFile{
		Version: keystoreVersion,
		KDF:     kdf,
		Nonce:   nonce,
		Cipher:  ct,
	})
}

// LoadIdentity decrypts and returns the identity. If none has been
// generated yet it fails with domain.ErrMissingKeyMaterial.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ks keystoreFile
	ok, err := s.file.load(&ks)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: no identity, run init first", domain.ErrMissingKeyMaterial)
	}
	if ks.Version > keystoreVersion {
		return domain.Identity{}, fmt.Errorf("unsupported keystore version %d", ks.Version)
	}

	key, err := deriveKeystoreKey(passphrase, ks.KDF)
	if err != nil {
		return domain.Identity{}, err
	}
	raw, err := crypto.Open(key, ks.Nonce, ks.Cipher, keystoreAAD)
	if err != nil {
		return domain.Identity{}, errWrongPassphrase
	}
	defer memzero.Zero(raw)

	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// deriveKeystoreKey stretches the passphrase into an AEAD key with the
// file's own scrypt parameters.
func deriveKeystoreKey(passphrase string, kdf keystoreKDF) (key [crypto.KeySize]byte, err error) {
	kb, err := scrypt.Key([]byte(passphrase), kdf.Salt, kdf.N, kdf.R, kdf.P, crypto.KeySize)
	if err != nil {
		return key, err
	}
	copy(key[:], kb)
	memzero.Zero(kb)
	return key, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"sigil/internal/domain"
)

const (
	// KeySize is the ChaCha20-Poly1305 key size.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the 96-bit AEAD nonce size.
	NonceSize = chacha20poly1305.NonceSize
)

// Seal encrypts plaintext under key, authenticating ad, and returns the
// ciphertext (with tag) together with the freshly generated random nonce.
// The nonce must travel with the ciphertext; it is not secret. A (key,
// nonce) pair must never repeat.
func Seal(rng io.Reader, key [KeySize]byte, plaintext, ad []byte) (nonce, ciphertext []byte, err error) {
	if rng == nil {
		rng = rand.Reader
	}
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, NonceSize)
	if _, err := io.ReadFull(rng, nonce); err != nil {
		return nil, nil, err
	}
	return nonce, aead.Seal(nil, nonce, plaintext, ad), nil
}

// Open decrypts ciphertext under key and the same ad and nonce used to seal
// it. Any tag, ad, or nonce mismatch is a hard domain.ErrAuthentication; no
// partial plaintext is ever returned.
func Open(key [KeySize]byte, nonce, ciphertext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: bad nonce size %d", domain.ErrAuthentication, len(nonce))
	}
	pt, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, domain.ErrAuthentication
	}
	return pt, nil
}

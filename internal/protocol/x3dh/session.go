package x3dh

import (
	"io"

	"sigil/internal/crypto"
	"sigil/internal/domain"
)

// Seal encrypts plaintext for an established session and returns the fresh
// nonce and ciphertext. Every message reuses the session key and associated
// data; only the nonce varies.
func Seal(rng io.Reader, sess domain.Session, plaintext []byte) (nonce, ciphertext []byte, err error) {
	return crypto.Seal(rng, sess.Key, plaintext, sess.AssociatedData)
}

// Open decrypts a message for an established session. A tampered ciphertext
// or a session whose key material diverged from the peer's surfaces
// domain.ErrAuthentication.
func Open(sess domain.Session, nonce, ciphertext []byte) ([]byte, error) {
	return crypto.Open(sess.Key, nonce, ciphertext, sess.AssociatedData)
}

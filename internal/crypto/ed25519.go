package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"

	"sigil/internal/domain"
)

// GenerateEd25519 returns a new Ed25519 signing key pair. A nil rng selects
// crypto/rand.
func GenerateEd25519(rng io.Reader) (priv domain.Ed25519Private, pub domain.Ed25519Public, err error) {
	if rng == nil {
		rng = rand.Reader
	}
	pk, sk, err := ed25519.GenerateKey(rng)
	if err != nil {
		return priv, pub, err
	}
	copy(priv[:], sk)
	copy(pub[:], pk)
	return priv, pub, nil
}

// SignEd25519 signs msg with priv and returns the 64-byte signature.
func SignEd25519(priv domain.Ed25519Private, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(priv[:]), msg)
}

// VerifyEd25519 verifies sig over msg with pub. It fails closed: malformed
// signatures of any length simply report false.
func VerifyEd25519(pub domain.Ed25519Public, msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}

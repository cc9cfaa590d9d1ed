package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"

	"sigil/internal/domain"
)

// GenerateX25519 returns a fresh Curve25519 key pair. The private key is
// clamped per RFC 7748. A nil rng selects crypto/rand.
func GenerateX25519(rng io.Reader) (priv domain.X25519Private, pub domain.X25519Public, err error) {
	if rng == nil {
		rng = rand.Reader
	}
	if _, err = io.ReadFull(rng, priv[:]); err != nil {
		return
	}
	clamp(&priv)
	pb, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		return
	}
	copy(pub[:], pb)
	return
}

// DH computes X25519 Diffie–Hellman. A low-order peer point is rejected
// with domain.ErrKeyMismatch.
func DH(priv domain.X25519Private, pub domain.X25519Public) (out [32]byte, err error) {
	secret, err := curve25519.X25519(priv.Slice(), pub.Slice())
	if err != nil {
		return out, fmt.Errorf("%w: %v", domain.ErrKeyMismatch, err)
	}
	copy(out[:], secret)
	return out, nil
}

func clamp(k *domain.X25519Private) {
	kb := k[:]
	kb[0] &= 248
	kb[31] &= 127
	kb[31] |= 64
}

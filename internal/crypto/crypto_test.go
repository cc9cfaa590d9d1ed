package crypto_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"sigil/internal/crypto"
	"sigil/internal/domain"
)

func TestDH_Commutes(t *testing.T) {
	aPriv, aPub, err := crypto.GenerateX25519(nil)
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	bPriv, bPub, err := crypto.GenerateX25519(nil)
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}

	ab, err := crypto.DH(aPriv, bPub)
	if err != nil {
		t.Fatalf("DH(a,B): %v", err)
	}
	ba, err := crypto.DH(bPriv, aPub)
	if err != nil {
		t.Fatalf("DH(b,A): %v", err)
	}
	if ab != ba {
		t.Fatal("DH(a,B) != DH(b,A)")
	}
}

func TestDH_RejectsLowOrderPoint(t *testing.T) {
	priv, _, err := crypto.GenerateX25519(nil)
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	var zero domain.X25519Public // all-zero point
	if _, err := crypto.DH(priv, zero); err == nil {
		t.Fatal("expected error for low-order point")
	}
}

func TestSeal_RoundTrip(t *testing.T) {
	var key [crypto.KeySize]byte
	key[0] = 7
	msg := []byte("hello world")
	ad := []byte("context")

	nonce, ct, err := crypto.Seal(nil, key, msg, ad)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(nonce) != crypto.NonceSize {
		t.Fatalf("nonce size %d, want %d", len(nonce), crypto.NonceSize)
	}
	pt, err := crypto.Open(key, nonce, ct, ad)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Fatalf("plaintext mismatch: %q", pt)
	}
}

func TestOpen_FailsClosed(t *testing.T) {
	var key [crypto.KeySize]byte
	msg := []byte("hello world")
	ad := []byte("context")

	nonce, ct, err := crypto.Seal(nil, key, msg, ad)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	// Wrong key.
	wrong := key
	wrong[0] ^= 1
	if _, err := crypto.Open(wrong, nonce, ct, ad); err == nil {
		t.Fatal("expected failure with wrong key")
	}

	// Wrong associated data.
	if _, err := crypto.Open(key, nonce, ct, []byte("other")); err == nil {
		t.Fatal("expected failure with wrong AD")
	}

	// Flipped ciphertext bit.
	flipped := append([]byte(nil), ct...)
	flipped[0] ^= 1
	if _, err := crypto.Open(key, nonce, flipped, ad); err == nil {
		t.Fatal("expected failure with flipped bit")
	}
}

func TestFingerprint(t *testing.T) {
	key := []byte("a 32-byte public key placeholder")

	fp := crypto.Fingerprint(key)
	if fp != crypto.Fingerprint(key) {
		t.Fatal("fingerprint is not deterministic")
	}
	if fp == crypto.Fingerprint([]byte("a different public key entirely.")) {
		t.Fatal("distinct keys share a fingerprint")
	}

	parts := strings.Split(fp, ":")
	if len(parts) != 4 {
		t.Fatalf("want 4 groups, got %d (%q)", len(parts), fp)
	}
	for _, p := range parts {
		if len(p) != 4 {
			t.Fatalf("group %q is not 4 hex chars", p)
		}
		if _, err := hex.DecodeString(p); err != nil {
			t.Fatalf("group %q is not hex: %v", p, err)
		}
	}
}

func TestSignVerifyEd25519(t *testing.T) {
	priv, pub, err := crypto.GenerateEd25519(nil)
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	msg := []byte("signed pre-key bytes")
	sig := crypto.SignEd25519(priv, msg)
	if !crypto.VerifyEd25519(pub, msg, sig) {
		t.Fatal("signature did not verify")
	}
	sig[0] ^= 1
	if crypto.VerifyEd25519(pub, msg, sig) {
		t.Fatal("tampered signature verified")
	}
	if crypto.VerifyEd25519(pub, msg, nil) {
		t.Fatal("nil signature verified")
	}
}

package x3dh_test

import (
	"bytes"
	"errors"
	"testing"

	"sigil/internal/crypto"
	"sigil/internal/domain"
	"sigil/internal/protocol/x3dh"
)

// makeIdentity creates a domain.Identity with fresh X25519 and Ed25519 pairs.
func makeIdentity(t *testing.T) domain.Identity {
	t.Helper()
	xPriv, xPub, err := crypto.GenerateX25519(nil)
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	edPriv, edPub, err := crypto.GenerateEd25519(nil)
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	return domain.Identity{XPub: xPub, XPriv: xPriv, EdPub: edPub, EdPriv: edPriv}
}

// makeBundle builds a verified bundle for id and returns the private halves
// of the signed pre-key and the single one-time pre-key.
func makeBundle(
	t *testing.T,
	username domain.Username,
	id domain.Identity,
	withOPK bool,
) (domain.PreKeyBundle, domain.X25519Private, *domain.X25519Private) {
	t.Helper()

	spkPriv, spkPub, err := crypto.GenerateX25519(nil)
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	bundle := domain.PreKeyBundle{
		Username:        username,
		IdentityKey:     id.XPub,
		SigningKey:      id.EdPub,
		SignedPreKeyID:  "spk-test",
		SignedPreKey:    spkPub,
		SignedPreKeySig: crypto.SignEd25519(id.EdPriv, spkPub.Slice()),
	}

	var opkPriv *domain.X25519Private
	if withOPK {
		priv, pub, err := crypto.GenerateX25519(nil)
		if err != nil {
			t.Fatalf("GenerateX25519 (opk): %v", err)
		}
		opkPriv = &priv
		bundle.OneTimePreKeys = []domain.OneTimePreKeyPublic{{ID: "opk-1", Pub: pub}}
	}
	return bundle, spkPriv, opkPriv
}

func TestHandshakeAgreement_WithOneTimePreKey(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	bundle, spkPriv, opkPriv := makeBundle(t, "bob", bob, true)

	initial := []byte("Initial message")
	aliceSess, msg, nonce, ct, err := x3dh.Initiate(nil, alice, bundle, initial)
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if msg.OneTimePreKeyID != "opk-1" || msg.SignedPreKeyID != "spk-test" {
		t.Fatalf("unexpected IDs signed=%q one-time=%q", msg.SignedPreKeyID, msg.OneTimePreKeyID)
	}

	bobSess, plain, err := x3dh.Respond(bob, spkPriv, opkPriv, "alice", msg, nonce, ct)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !bytes.Equal(plain, initial) {
		t.Fatalf("initial plaintext mismatch: %q", plain)
	}
	if aliceSess.Key != bobSess.Key {
		t.Fatal("session keys differ")
	}
	if !bytes.Equal(aliceSess.AssociatedData, bobSess.AssociatedData) {
		t.Fatal("associated data differs")
	}
}

func TestHandshakeAgreement_NoOneTimePreKey(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	bundle, spkPriv, _ := makeBundle(t, "bob", bob, false)

	aliceSess, msg, nonce, ct, err := x3dh.Initiate(nil, alice, bundle, []byte("hi"))
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if msg.OneTimePreKeyID != "" {
		t.Fatalf("want empty one-time pre-key id, got %q", msg.OneTimePreKeyID)
	}

	bobSess, plain, err := x3dh.Respond(bob, spkPriv, nil, "alice", msg, nonce, ct)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if string(plain) != "hi" {
		t.Fatalf("initial plaintext mismatch: %q", plain)
	}
	if aliceSess.Key != bobSess.Key {
		t.Fatal("session keys differ (no OPK)")
	}
}

func TestInitiate_RejectsTamperedBundle(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	mutations := map[string]func(*domain.PreKeyBundle){
		"signed pre-key": func(b *domain.PreKeyBundle) { b.SignedPreKey[0] ^= 1 },
		"signature":      func(b *domain.PreKeyBundle) { b.SignedPreKeySig[0] ^= 1 },
		"signing key":    func(b *domain.PreKeyBundle) { b.SigningKey[0] ^= 1 },
	}
	for name, mutate := range mutations {
		bundle, _, _ := makeBundle(t, "bob", bob, true)
		mutate(&bundle)
		_, _, _, _, err := x3dh.Initiate(nil, alice, bundle, []byte("x"))
		if !errors.Is(err, domain.ErrBundleVerification) {
			t.Fatalf("%s mutation: want ErrBundleVerification, got %v", name, err)
		}
	}
}

func TestRespond_WrongKeyFailsAuthentication(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	bundle, spkPriv, _ := makeBundle(t, "bob", bob, true)

	_, msg, nonce, ct, err := x3dh.Initiate(nil, alice, bundle, []byte("x"))
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	// Respond without the one-time pre-key term: the derivation diverges
	// and the handshake ciphertext must not open.
	_, _, err = x3dh.Respond(bob, spkPriv, nil, "alice", msg, nonce, ct)
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication, got %v", err)
	}
}

func TestSessionMessaging_BothDirections(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	bundle, spkPriv, opkPriv := makeBundle(t, "bob", bob, true)

	aliceSess, msg, nonce, ct, err := x3dh.Initiate(nil, alice, bundle, []byte("Initial message"))
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	bobSess, _, err := x3dh.Respond(bob, spkPriv, opkPriv, "alice", msg, nonce, ct)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	// Alice -> Bob.
	n1, c1, err := x3dh.Seal(nil, aliceSess, []byte("a1"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	got, err := x3dh.Open(bobSess, n1, c1)
	if err != nil || string(got) != "a1" {
		t.Fatalf("Open: %q, %v", got, err)
	}

	// Bob -> Alice.
	n2, c2, err := x3dh.Seal(nil, bobSess, []byte("b1"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	got, err = x3dh.Open(aliceSess, n2, c2)
	if err != nil || string(got) != "b1" {
		t.Fatalf("Open: %q, %v", got, err)
	}

	// Distinct nonces per message under the shared key.
	if bytes.Equal(n1, n2) && bytes.Equal(c1, c2) {
		t.Fatal("nonce reuse across messages")
	}
}

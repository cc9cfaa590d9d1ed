package x3dh

import (
	"fmt"

	"sigil/internal/crypto"
	"sigil/internal/domain"
)

// VerifyBundle checks the bundle's signed pre-key signature against the
// bundle's own signing key, over the raw 32-byte encoding of the signed
// pre-key public.
//
// Contract: on failure the caller must abort the handshake. Proceeding with
// an unverified signed pre-key defeats the protocol's authentication
// guarantee, so Initiate performs this check itself and refuses to continue.
func VerifyBundle(bundle domain.PreKeyBundle) error {
	if !crypto.VerifyEd25519(bundle.SigningKey, bundle.SignedPreKey.Slice(), bundle.SignedPreKeySig) {
		return fmt.Errorf("%w: signed pre-key %s of %q", domain.ErrBundleVerification,
			bundle.SignedPreKeyID, bundle.Username)
	}
	return nil
}

// associatedData binds a session to both parties' identities. Both sides
// construct it as initiator identity then responder identity, using the raw
// key encodings. It is authenticated, never encrypted.
func associatedData(initiatorIK, responderIK domain.X25519Public) []byte {
	ad := make([]byte, 0, 64)
	ad = append(ad, initiatorIK.Slice()...)
	ad = append(ad, responderIK.Slice()...)
	return ad
}

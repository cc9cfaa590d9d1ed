package domain

import "errors"

// Protocol error kinds. Callers match these with errors.Is; lower layers
// wrap them with context. None of them carry key material, and none are
// retried inside the core: a failed bundle check needs a fresh bundle, a
// failed decrypt means tampering or a derivation mismatch.
var (
	// ErrMissingKeyMaterial reports an operation invoked before the
	// required local keys exist (no identity, no signed pre-key).
	ErrMissingKeyMaterial = errors.New("missing key material")

	// ErrBundleVerification reports a signed pre-key whose signature does
	// not verify against the bundle's signing key. The handshake must not
	// proceed past it.
	ErrBundleVerification = errors.New("pre-key bundle verification failed")

	// ErrUnknownPreKey reports a handshake referencing a pre-key this side
	// does not hold, either never issued or already consumed.
	ErrUnknownPreKey = errors.New("unknown or consumed pre-key")

	// ErrAuthentication reports an AEAD open failure: wrong key, wrong
	// associated data, or a tampered ciphertext. No plaintext is returned.
	ErrAuthentication = errors.New("message authentication failed")

	// ErrKeyMismatch reports a peer public key rejected by the curve.
	ErrKeyMismatch = errors.New("invalid peer public key")
)

package types

// OneTimePreKeyPair is the full (private+public) one-time pre-key kept locally.
type OneTimePreKeyPair struct {
	ID   OneTimePreKeyID `json:"id"`
	Priv X25519Private   `json:"priv"`
	Pub  X25519Public    `json:"pub"`
}

// OneTimePreKeyPublic is only the public half, as published in bundles.
type OneTimePreKeyPublic struct {
	ID  OneTimePreKeyID `json:"id" cbor:"id" validate:"required"`
	Pub X25519Public    `json:"pub" cbor:"pub"`
}

// PreKeyBundle is the set of public keys a responder publishes so that an
// initiator can start a session while the responder is offline.
//
// Invariant: SignedPreKeySig is the Ed25519 signature by SigningKey over the
// raw 32-byte encoding of SignedPreKey. Verifiers recompute exactly that
// encoding; any mismatch breaks the handshake.
type PreKeyBundle struct {
	Username        Username              `json:"username" cbor:"username" validate:"required"`
	IdentityKey     X25519Public          `json:"identity_key" cbor:"identity_key"`
	SigningKey      Ed25519Public         `json:"signing_key" cbor:"signing_key"`
	SignedPreKeyID  SignedPreKeyID        `json:"signed_pre_key_id" cbor:"signed_pre_key_id" validate:"required"`
	SignedPreKey    X25519Public          `json:"signed_pre_key" cbor:"signed_pre_key"`
	SignedPreKeySig []byte                `json:"signed_pre_key_sig" cbor:"signed_pre_key_sig" validate:"len=64"`
	OneTimePreKeys  []OneTimePreKeyPublic `json:"one_time_pre_keys,omitempty" cbor:"one_time_pre_keys,omitempty" validate:"dive"`
}

// OneTimePreKey returns the one-time pre-key offered in the bundle, or nil
// if the responder ran out. The relay hands out at most one per download.
func (b PreKeyBundle) OneTimePreKey() *OneTimePreKeyPublic {
	if len(b.OneTimePreKeys) == 0 {
		return nil
	}
	return &b.OneTimePreKeys[0]
}

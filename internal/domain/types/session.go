package types

// SessionKeySize is the fixed size of a derived session key.
const SessionKeySize = 32

// Session holds the X3DH-derived key material shared with one peer.
//
// Both sides derive Key and AssociatedData independently; correct decryption
// requires them to be byte-identical. The key is never rotated: every
// message in both directions reuses it with a fresh nonce. That omits the
// double-ratchet forward secrecy of the full Signal protocol and is a
// documented property of this design, not an accident.
type Session struct {
	PeerUsername    Username             `json:"peer_username"`
	Key             [SessionKeySize]byte `json:"key"`
	AssociatedData  []byte               `json:"associated_data"`
	PeerIdentityKey X25519Public         `json:"peer_identity_key"`
	SignedPreKeyID  SignedPreKeyID       `json:"signed_pre_key_id"`
	OneTimePreKeyID OneTimePreKeyID      `json:"one_time_pre_key_id,omitempty"`
	CreatedUTC      int64                `json:"created_utc"`
}

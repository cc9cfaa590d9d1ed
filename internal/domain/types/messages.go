package types

// HandshakeMessage carries the X3DH parameters in the first envelope of a
// conversation, alongside the sealed initial plaintext. The responder needs
// nothing else to re-derive the session key.
type HandshakeMessage struct {
	InitiatorIdentityKey X25519Public    `json:"initiator_identity_key" cbor:"initiator_identity_key"`
	EphemeralKey         X25519Public    `json:"ephemeral_key" cbor:"ephemeral_key"`
	SignedPreKeyID       SignedPreKeyID  `json:"signed_pre_key_id" cbor:"signed_pre_key_id"`
	OneTimePreKeyID      OneTimePreKeyID `json:"one_time_pre_key_id,omitempty" cbor:"one_time_pre_key_id,omitempty"`
}

// Envelope is the wire-format message posted to and fetched from the relay.
// Handshake is present only on the first message of a conversation. Nonce
// travels in the clear; it is not secret, only unique per session key.
type Envelope struct {
	From      Username          `json:"from" cbor:"from"`
	To        Username          `json:"to" cbor:"to"`
	Nonce     []byte            `json:"nonce" cbor:"nonce"`
	Cipher    []byte            `json:"cipher" cbor:"cipher"`
	Handshake *HandshakeMessage `json:"handshake,omitempty" cbor:"handshake,omitempty"`
	Timestamp int64             `json:"timestamp" cbor:"timestamp"`
}

// DecryptedMessage is what MessageService.ReceiveMessages returns.
type DecryptedMessage struct {
	From      Username `json:"from"`
	To        Username `json:"to"`
	Plaintext []byte   `json:"plaintext"`
	Timestamp int64    `json:"timestamp"`
}

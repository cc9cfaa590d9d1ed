package interfaces

import (
	"context"

	domaintypes "sigil/internal/domain/types"
)

// IdentityService creates, retrieves, and inspects your identity keys.
type IdentityService interface {
	GenerateIdentity(passphrase string) (
		domaintypes.Identity,
		domaintypes.Fingerprint,
		error,
	)
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
	FingerprintIdentity(passphrase string) (domaintypes.Fingerprint, error)
}

// PreKeyService generates pre-key pairs and assembles the public bundle.
type PreKeyService interface {
	GenerateAndStorePreKeys(passphrase string, count int) (
		domaintypes.X25519Public,
		[]domaintypes.X25519Public,
		error,
	)
	LoadPreKeyBundle(
		passphrase string,
		username domaintypes.Username,
	) (domaintypes.PreKeyBundle, error)
}

// SessionService runs the two X3DH handshake roles and persists the
// resulting sessions.
type SessionService interface {
	// InitiateSession fetches and verifies the peer's bundle, performs the
	// initiator side of X3DH, seals initialPlaintext into the handshake
	// envelope payload, and stores the session.
	InitiateSession(
		ctx context.Context,
		passphrase string,
		from domaintypes.Username,
		peer domaintypes.Username,
		initialPlaintext []byte,
	) (domaintypes.Session, domaintypes.Envelope, error)

	// RespondSession consumes a received handshake envelope, re-derives the
	// session key, recovers the initial plaintext, and stores the session.
	RespondSession(
		passphrase string,
		envelope domaintypes.Envelope,
	) (domaintypes.Session, []byte, error)

	GetSession(peer domaintypes.Username) (domaintypes.Session, bool, error)
}

// MessageService encrypts, sends, fetches and decrypts messages.
type MessageService interface {
	SendMessage(
		ctx context.Context,
		passphrase string,
		from domaintypes.Username,
		to domaintypes.Username,
		plaintext []byte,
	) error
	ReceiveMessages(
		ctx context.Context,
		passphrase string,
		me domaintypes.Username,
		limit int,
	) ([]domaintypes.DecryptedMessage, error)
}

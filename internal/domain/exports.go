package domain

import (
	interfaces "sigil/internal/domain/interfaces"
	types "sigil/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username            = types.Username
	Fingerprint         = types.Fingerprint
	SignedPreKeyID      = types.SignedPreKeyID
	OneTimePreKeyID     = types.OneTimePreKeyID
	Identity            = types.Identity
	OneTimePreKeyPair   = types.OneTimePreKeyPair
	OneTimePreKeyPublic = types.OneTimePreKeyPublic
	PreKeyBundle        = types.PreKeyBundle
	HandshakeMessage    = types.HandshakeMessage
	Envelope            = types.Envelope
	DecryptedMessage    = types.DecryptedMessage
	Session             = types.Session
	X25519Public        = types.X25519Public
	X25519Private       = types.X25519Private
	Ed25519Public       = types.Ed25519Public
	Ed25519Private      = types.Ed25519Private
)

// SessionKeySize re-exports the fixed derived-key size.
const SessionKeySize = types.SessionKeySize

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityService   = interfaces.IdentityService
	PreKeyService     = interfaces.PreKeyService
	SessionService    = interfaces.SessionService
	MessageService    = interfaces.MessageService
	RelayClient       = interfaces.RelayClient
	IdentityStore     = interfaces.IdentityStore
	PreKeyStore       = interfaces.PreKeyStore
	PreKeyBundleStore = interfaces.PreKeyBundleStore
	SessionStore      = interfaces.SessionStore
)

package types

// Identity holds your long-term X25519 agreement keys and Ed25519 signing
// keys. Signing keys are used only to sign the published signed pre-key;
// they never participate in Diffie-Hellman.
type Identity struct {
	XPub   X25519Public   `json:"xpub"`
	XPriv  X25519Private  `json:"xpriv"`
	EdPub  Ed25519Public  `json:"edpub"`
	EdPriv Ed25519Private `json:"edpriv"`
}

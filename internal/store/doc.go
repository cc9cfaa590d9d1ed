// Package store persists sigil's local state under the config directory.
//
// The long-term identity is encrypted with a passphrase-derived key
// (scrypt + ChaCha20-Poly1305); pre-key pairs, sessions and the cached
// bundle are plain JSON files written atomically via temp-file rename.
// Every store serializes access with a mutex, which also makes one-time
// pre-key consumption atomic: a consumed pre-key is removed from the file
// before its private half is handed to the caller's handshake.
package store

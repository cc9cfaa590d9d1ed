// Package crypto exposes the minimal primitives used by sigil.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519, DH)
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - ChaCha20-Poly1305 sealing with per-call random nonces (Seal, Open)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// All functions return fixed-size array types defined in internal/domain to
// avoid accidental reallocations. Key generation and sealing accept an
// io.Reader randomness source; passing nil selects crypto/rand, and tests
// pass a seeded reader for determinism. Callers should treat returned
// secrets as sensitive and rely on memzero.Zero when practical to reduce
// lifetime in memory.
package crypto

// Package x3dh implements the Extended Triple Diffie-Hellman key agreement
// that bootstraps a sealed messaging session between two parties, one of
// whom may be offline.
//
// # Overview
//
// X3DH lets an initiator derive a shared 32-byte session key with a
// responder who has published a prekey bundle. The bundle contains:
//   - Identity key (X25519)
//   - Signed prekey (X25519) and its Ed25519 signature
//   - Optional one-time prekeys (X25519)
//
// # Flows
//
// Initiator (Initiate):
//  1. Verify the signed prekey signature; abort on failure.
//  2. Generate an ephemeral X25519 key pair.
//  3. Compute DH values in order (IKa·SPKb, EKa·IKb, EKa·SPKb[, EKa·OPKb]).
//  4. HKDF over the concatenated DH transcript to produce the session key.
//  5. Build the associated data (initiator identity ‖ responder identity),
//     seal the initial plaintext, and emit the handshake message.
//
// Responder (Respond):
//  1. Receive the HandshakeMessage (initiator IK, ephemeral EK, SPK/OPK ids).
//  2. Resolve the SPK private half and consume the OPK, if one was used.
//  3. Compute the mirrored DH set (SPKb·IKa, IKb·EKa, SPKb·EKa[, OPKb·EKa]).
//  4. HKDF the same transcript to the identical session key, rebuild the
//     associated data, and open the initial ciphertext.
//
// The DH order is fixed: it is part of the key-derivation domain separation,
// and reordering it on one side yields an unrelated key.
//
// # Sessions
//
// The derived session never rotates its key. Seal and Open reuse the same
// (key, associated data) pair for every message with only the nonce varying.
// This deliberately omits the double-ratchet forward secrecy of the full
// Signal protocol.
//
// # Errors
//
// domain.ErrBundleVerification is returned when the SPK signature fails.
// domain.ErrAuthentication is returned when opening a ciphertext fails.
// Other errors wrap lower-level crypto failures.
package x3dh

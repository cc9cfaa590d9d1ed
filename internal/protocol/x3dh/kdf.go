package x3dh

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"sigil/internal/domain"
)

// Purpose indices parameterize the HKDF info string so that distinct uses of
// the same DH transcript derive unrelated keys.
const (
	// PurposeSessionKey derives the symmetric message key.
	PurposeSessionKey byte = 0
)

const kdfInfoPrefix = "sigil-x3dh-v1/"

// Derive expands the concatenated raw DH output into a fixed-length
// symmetric key with HKDF-SHA256.
//
// Per the X3DH spec the input keying material is prefixed with a fixed
// 32-byte padding block so the KDF input has a uniform shape whether or not
// the optional one-time pre-key DH term is present, and the salt is a
// zero-filled block. Derive is strictly deterministic: both parties feed it
// the same transcript and purpose and must obtain the same key.
func Derive(dhConcat []byte, purpose byte) (key [domain.SessionKeySize]byte, err error) {
	ikm := make([]byte, 0, 32+len(dhConcat))
	ikm = append(ikm, make([]byte, 32)...)
	ikm = append(ikm, dhConcat...)

	salt := make([]byte, sha256.Size)
	info := append([]byte(kdfInfoPrefix), purpose)

	r := hkdf.New(sha256.New, ikm, salt, info)
	_, err = io.ReadFull(r, key[:])
	return key, err
}

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a short display form of a public key: the first
// eight bytes of its SHA-256 digest, hex-encoded in four-character groups
// separated by colons ("3f1a:9c02:77de:b4e1"). The grouping only aids
// out-of-band comparison by eye; the digest prefix is what matters.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	h := hex.EncodeToString(sum[:8])

	groups := make([]string, 0, len(h)/4)
	for i := 0; i < len(h); i += 4 {
		groups = append(groups, h[i:i+4])
	}
	return strings.Join(groups, ":")
}

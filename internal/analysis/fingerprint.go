package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// normalize rewrites raw text into the canonical form that is fingerprinted:
// line endings collapse to \n, every line is trimmed, and lines that become
// empty are dropped. Two inputs differing only in line-ending style, trailing
// whitespace, or blank lines normalize identically.
func normalize(raw string) string {
	var kept []string
	for _, line := range splitLines(raw) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}

// Fingerprint returns the SHA-256 hex digest of the normalized content. It is
// a deduplication key, not a security primitive; equality is the only meaning
// it carries.
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(normalize(raw)))
	return hex.EncodeToString(sum[:])
}

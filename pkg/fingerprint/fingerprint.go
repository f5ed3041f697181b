// Package fingerprint computes deterministic digests of template content.
//
// Content is canonicalized before hashing so that cosmetic editor re-saves
// (CRLF line endings, trailing whitespace, a missing final newline) do not
// register as user modifications. Two fingerprints are equal iff the content
// is identical under this canonicalization.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint is an opaque, deterministic digest of canonicalized content.
type Fingerprint string

// String returns the hex digest.
func (f Fingerprint) String() string { return string(f) }

// IsZero reports whether the fingerprint is unset.
func (f Fingerprint) IsZero() bool { return f == "" }

// Of computes the fingerprint of content. Pure; no I/O.
func Of(content []byte) Fingerprint {
	sum := sha256.Sum256(Canonicalize(content))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// OfString computes the fingerprint of a string.
func OfString(content string) Fingerprint {
	return Of([]byte(content))
}

// Canonicalize normalizes content for comparison:
//
//   - CRLF and bare CR line endings become LF
//   - trailing spaces and tabs are stripped from each line
//   - trailing blank lines are dropped
//   - non-empty content ends with exactly one newline
func Canonicalize(content []byte) []byte {
	s := string(content)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	// Drop trailing blank lines.
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	if end == 0 {
		return []byte{}
	}

	return []byte(strings.Join(lines[:end], "\n") + "\n")
}

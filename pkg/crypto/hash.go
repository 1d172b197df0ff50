// this file provides the SHA-1 digests used in the manifest of a pass archive.
//
// The wallet manifest format requires SHA-1 hex digests (called "digests" here) for every
// file in the archive. SHA-1 is used for content addressing only: the integrity of the
// archive rests on the signature over the manifest.

package crypto

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
)

// DigestLength is the length of a hex encoded SHA-1 digest.
const DigestLength = sha1.Size * 2

// Digest calculates the SHA-1 digest of data and returns it as lowercase hex.
//
// Empty data is allowed: an empty asset still needs a manifest entry.
func Digest(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// DigestReader reads r to the end and returns its content with its SHA-1 digest.
//
// The content is returned so the caller can store exactly the bytes that were hashed.
// An error is returned if r yields more than maxSize bytes.
func DigestReader(r io.Reader, maxSize int64) (string, []byte, error) {
	var buf bytes.Buffer
	hasher := sha1.New()

	// read one byte past the limit so oversized input can be detected
	n, err := io.Copy(io.MultiWriter(&buf, hasher), io.LimitReader(r, maxSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read content: %w", err)
	}
	if n > maxSize {
		return "", nil, fmt.Errorf("content size exceeds maximum (%d bytes)", maxSize)
	}

	return hex.EncodeToString(hasher.Sum(nil)), buf.Bytes(), nil
}

// ValidateDigest checks that s is a lowercase hex SHA-1 digest.
func ValidateDigest(s string) error {
	if len(s) != DigestLength {
		return NewChecksumError(fmt.Sprintf("digest must be %d characters, got %d", DigestLength, len(s)))
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return NewChecksumError(fmt.Sprintf("digest contains non-hex character %q", c))
		}
	}
	return nil
}

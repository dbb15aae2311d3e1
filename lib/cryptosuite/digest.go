// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package cryptosuite

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Digest is the output of a [Provider]. Its length depends on the
// algorithm. Digests are treated as immutable once produced; callers
// that need to modify the bytes must copy them first.
type Digest []byte

// String returns the lowercase hex encoding of the digest. This is the
// canonical rendering used at every interface boundary: CLI output,
// manifests, logs, and as the chaining input of directory
// fingerprints.
func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// Equal reports whether two digests hold the same bytes.
func (d Digest) Equal(other Digest) bool {
	return bytes.Equal(d, other)
}

// IsZero reports whether the digest is empty.
func (d Digest) IsZero() bool {
	return len(d) == 0
}

// ParseDigest decodes a hex-encoded digest. Any even-length hex string
// is accepted since the expected size depends on the provider; use
// [ParseDigestSize] when the provider is known.
func ParseDigest(hexString string) (Digest, error) {
	if hexString == "" {
		return nil, fmt.Errorf("parsing digest: empty string")
	}
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, fmt.Errorf("parsing digest: %w", err)
	}
	return Digest(decoded), nil
}

// ParseDigestSize decodes a hex-encoded digest and checks that it is
// exactly size bytes long.
func ParseDigestSize(hexString string, size int) (Digest, error) {
	digest, err := ParseDigest(hexString)
	if err != nil {
		return nil, err
	}
	if len(digest) != size {
		return nil, fmt.Errorf("digest is %d bytes, want %d", len(digest), size)
	}
	return digest, nil
}

// MarshalText encodes the digest as lowercase hex, so manifests and
// JSON output carry the same rendering as [Digest.String].
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes lowercase or uppercase hex. Empty text yields
// an empty digest.
func (d *Digest) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = nil
		return nil
	}
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package cryptosuite

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Provider names accepted by [Default]. These are the keys used in the
// crypto.provider configuration field and recorded in unit manifests.
const (
	SHA256  = "sha256"
	SHA384  = "sha384"
	SHA3256 = "sha3-256"
	SHA3384 = "sha3-384"
	BLAKE3  = "blake3"

	// DefaultProvider is used when no provider is configured.
	DefaultProvider = SHA256
)

// Provider computes digests with one fixed algorithm. Implementations
// must be safe for concurrent use: every call to Digest or New starts
// from a fresh hash state.
type Provider interface {
	// Name is the registry key this provider was constructed from.
	Name() string

	// Size is the digest length in bytes.
	Size() int

	// Digest hashes data in one call.
	Digest(data []byte) (Digest, error)

	// New returns a fresh streaming hash, for inputs too large to
	// hold in memory (archive files, for example).
	New() hash.Hash
}

// hashProvider adapts any hash.Hash constructor to [Provider].
type hashProvider struct {
	name    string
	newHash func() hash.Hash
	size    int
}

// NewHashProvider wraps a hash.Hash constructor as a [Provider]. This is
// the building block for registering additional algorithms.
func NewHashProvider(name string, newHash func() hash.Hash) Provider {
	return &hashProvider{
		name:    name,
		newHash: newHash,
		size:    newHash().Size(),
	}
}

func (p *hashProvider) Name() string { return p.name }

func (p *hashProvider) Size() int { return p.size }

func (p *hashProvider) New() hash.Hash { return p.newHash() }

func (p *hashProvider) Digest(data []byte) (Digest, error) {
	hasher := p.newHash()
	if _, err := hasher.Write(data); err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	return Digest(hasher.Sum(nil)), nil
}

func newBLAKE3() hash.Hash {
	return blake3.New()
}

// builtins lists the providers registered by [Default].
var builtins = map[string]func() hash.Hash{
	SHA256:  sha256.New,
	SHA384:  sha512.New384,
	SHA3256: sha3.New256,
	SHA3384: sha3.New384,
	BLAKE3:  newBLAKE3,
}

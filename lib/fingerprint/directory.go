// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"io/fs"
	"log/slog"
	"os"

	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
)

// Fold chains files into seed. For each file in order the running
// digest becomes digest(content || hex(running)). The result is a pure
// function of seed, the file order, and the file contents; paths do not
// contribute. With no files, the seed is returned unchanged.
func Fold(provider cryptosuite.Provider, seed cryptosuite.Digest, files []File) (cryptosuite.Digest, error) {
	running := seed
	for _, file := range files {
		encoded := running.String()

		input := make([]byte, 0, len(file.Content)+len(encoded))
		input = append(input, file.Content...)
		input = append(input, encoded...)

		next, err := provider.Digest(input)
		if err != nil {
			return nil, err
		}
		running = next
	}
	return running, nil
}

// HashFS collects dir within fsys in the given order and folds it into
// seed.
func HashFS(provider cryptosuite.Provider, fsys fs.FS, dir string, seed cryptosuite.Digest, order Order) (cryptosuite.Digest, error) {
	files, err := Collect(fsys, dir, order)
	if err != nil {
		return nil, err
	}
	return Fold(provider, seed, files)
}

// HashDirectory fingerprints rootDir/relativeDir, seeded with the
// parameter digest, visiting entries in [OrderSorted].
func HashDirectory(provider cryptosuite.Provider, rootDir, relativeDir string, seed cryptosuite.Digest) (cryptosuite.Digest, error) {
	dir, err := fsPath(relativeDir)
	if err != nil {
		return nil, err
	}
	return HashFS(provider, os.DirFS(rootDir), dir, seed, OrderSorted)
}

// GenerateDirectoryHash is the hex-string form of [HashDirectory] using
// the default SHA2-256 provider. seedHash is the hex output of
// [GenerateParameterHash].
func GenerateDirectoryHash(rootDir, chaincodeDir, seedHash string) (string, error) {
	seed, err := cryptosuite.ParseDigest(seedHash)
	if err != nil {
		return "", err
	}
	digest, err := HashDirectory(defaultProvider(), rootDir, chaincodeDir, seed)
	if err != nil {
		return "", err
	}
	return digest.String(), nil
}

// Hasher binds a provider, a traversal order, and a logger for callers
// that fingerprint repeatedly. A Hasher holds no mutable state; one
// instance may be used from many goroutines.
type Hasher struct {
	provider cryptosuite.Provider
	order    Order
	logger   *slog.Logger
}

// HasherOption configures a [Hasher].
type HasherOption func(*Hasher)

// WithOrder sets the traversal order. The default is [OrderSorted].
func WithOrder(order Order) HasherOption {
	return func(hasher *Hasher) {
		hasher.order = order
	}
}

// NewHasher returns a Hasher using provider. logger must not be nil.
func NewHasher(provider cryptosuite.Provider, logger *slog.Logger, options ...HasherOption) *Hasher {
	hasher := &Hasher{
		provider: provider,
		order:    OrderSorted,
		logger:   logger.With("component", "fingerprint", "provider", provider.Name()),
	}
	for _, option := range options {
		option(hasher)
	}
	return hasher
}

// Provider returns the provider the hasher digests with.
func (h *Hasher) Provider() cryptosuite.Provider {
	return h.provider
}

// Order returns the traversal order in effect.
func (h *Hasher) Order() Order {
	return h.order
}

// Parameters is [HashParameters] with the hasher's provider.
func (h *Hasher) Parameters(invocation Invocation) (cryptosuite.Digest, error) {
	digest, err := HashParameters(h.provider, invocation)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("hashed invocation parameters",
		"code_path", invocation.CodePath,
		"entry_point", invocation.EntryPoint,
		"arguments", len(invocation.Arguments),
		"digest", digest.String(),
	)
	return digest, nil
}

// Directory fingerprints rootDir/relativeDir seeded with seed, using the
// hasher's provider and traversal order.
func (h *Hasher) Directory(rootDir, relativeDir string, seed cryptosuite.Digest) (cryptosuite.Digest, error) {
	dir, err := fsPath(relativeDir)
	if err != nil {
		return nil, err
	}

	files, err := Collect(os.DirFS(rootDir), dir, h.order)
	if err != nil {
		h.logger.Error("directory traversal failed", "root", rootDir, "dir", dir, "error", err)
		return nil, err
	}

	digest, err := Fold(h.provider, seed, files)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("fingerprinted directory",
		"root", rootDir,
		"dir", dir,
		"order", h.order.String(),
		"files", len(files),
		"fingerprint", digest.String(),
	)
	return digest, nil
}

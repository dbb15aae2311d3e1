// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package cryptosuite supplies the hash primitives used to fingerprint
// deployable units.
//
// A [Provider] exposes a single capability to the rest of the module:
// digest a byte string. Which algorithm backs it is a configuration
// decision, not a code decision. Providers are selected by name from a
// [Registry], which maps a configuration key to a constructor. The
// registry is populated at startup; there is no dynamic loading of
// provider implementations from paths named in the environment.
//
// Built-in providers:
//
//   - "sha256" (default) and "sha384" -- SHA-2 from the standard library
//   - "sha3-256" and "sha3-384" -- SHA-3 from golang.org/x/crypto
//   - "blake3" -- BLAKE3 with 32-byte output from github.com/zeebo/blake3
//
// Swapping providers changes every fingerprint value but never the
// chaining scheme built on top of it.
package cryptosuite

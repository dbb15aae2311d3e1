// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package deploy turns a chaincode source tree and an invocation into a
// deployment unit: a parameter digest, a directory fingerprint seeded
// with it, a filtered archive of the tree, and a CBOR manifest tying
// them together.
//
// [New] is the composition root. It resolves every configured name
// (provider, codec, traversal order, recipients, peer endpoint) once,
// so a misconfiguration fails before any file is read. [Packager.Package]
// then runs the fingerprint and the archive build for one request.
//
// The manifest is written to the archive path plus ".manifest" and is
// read back with [ReadManifest]. A unit's BuildID is random and exists
// only to correlate log lines and manifests; it never feeds a digest.
package deploy

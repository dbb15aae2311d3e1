// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the packager's CBOR encoding configuration.
//
// Two serialization formats are in use, with a clear boundary:
//
//   - JSON for anything a person or script reads: CLI --json output
//     and JSONC configuration files.
//   - CBOR for the unit manifest written next to each archive.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same unit always produces identical manifest bytes, so manifests can
// themselves be digested and compared.
//
// For buffer-oriented operations (manifest files):
//
//	data, err := codec.Marshal(unit)
//	err = codec.Unmarshal(data, &unit)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// Types implementing encoding.TextMarshaler (digests, codec names)
// encode as CBOR text strings, matching their JSON rendering.
//
// # Struct Tag Rules
//
//   - `cbor` tag only: the type is persisted as CBOR and never shown
//     as JSON.
//   - `json` tag only: the type is shared between both formats.
//     fxamacker/cbor v2 falls back to `json` tags when `cbor` tags are
//     absent.
//   - Both tags: the field names differ by format, or the type is
//     embedded in both a manifest and CLI output with explicit names.
package codec

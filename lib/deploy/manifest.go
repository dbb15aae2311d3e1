// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"fmt"
	"os"

	"github.com/jeisc/fabric-sdk-node/lib/archive"
	"github.com/jeisc/fabric-sdk-node/lib/codec"
	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
	"github.com/jeisc/fabric-sdk-node/lib/fingerprint"
)

// ManifestSuffix is appended to an archive path to name its manifest.
const ManifestSuffix = ".manifest"

// Unit describes one packaged deployment. It is persisted as
// deterministic CBOR and printed as JSON by the CLI; both formats use
// the json field names.
type Unit struct {
	// BuildID correlates logs and manifests for one Package call.
	BuildID string `json:"build_id"`

	// Invocation is the call the unit was fingerprinted for.
	Invocation fingerprint.Invocation `json:"invocation"`

	// ChaincodeDir is the packaged directory, relative to the root the
	// caller supplied.
	ChaincodeDir string `json:"chaincode_dir"`

	// Provider and Order identify how the digests were computed.
	// Recomputing a fingerprint requires both.
	Provider string `json:"provider"`
	Order    string `json:"order"`

	// ParameterHash digests the invocation; it seeds Fingerprint.
	ParameterHash cryptosuite.Digest `json:"parameter_hash"`

	// Fingerprint identifies the unit's code and invocation.
	Fingerprint cryptosuite.Digest `json:"fingerprint"`

	// ArchivePath is where the archive was written.
	ArchivePath string `json:"archive_path"`

	// ArchiveDigest digests the archive bytes exactly as written,
	// after compression and encryption.
	ArchiveDigest cryptosuite.Digest `json:"archive_digest"`

	// Codec is the archive's compression codec.
	Codec archive.Codec `json:"codec"`

	// Encrypted is true when the archive was encrypted to age
	// recipients.
	Encrypted bool `json:"encrypted"`

	// Target is the configured peer endpoint, if any.
	Target string `json:"target,omitempty"`

	// Stats summarizes the archive build.
	Stats archive.Stats `json:"stats"`
}

// ManifestPath returns the manifest location for an archive.
func ManifestPath(archivePath string) string {
	return archivePath + ManifestSuffix
}

// WriteManifest encodes unit to name.
func WriteManifest(name string, unit *Unit) error {
	data, err := codec.Marshal(unit)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest decodes the manifest at name.
func ReadManifest(name string) (*Unit, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var unit Unit
	if err := codec.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", name, err)
	}
	return &unit, nil
}

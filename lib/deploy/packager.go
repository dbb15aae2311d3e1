// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"filippo.io/age"
	"github.com/google/uuid"

	"github.com/jeisc/fabric-sdk-node/lib/archive"
	"github.com/jeisc/fabric-sdk-node/lib/config"
	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
	"github.com/jeisc/fabric-sdk-node/lib/endpoint"
	"github.com/jeisc/fabric-sdk-node/lib/fingerprint"
)

// ErrDigestMismatch is returned by [Packager.Verify] when an archive no
// longer matches its manifest.
var ErrDigestMismatch = errors.New("archive digest does not match manifest")

// Request is one packaging call.
type Request struct {
	// Invocation is hashed to seed the directory fingerprint.
	Invocation fingerprint.Invocation

	// RootDir and ChaincodeDir locate the tree: RootDir is a
	// filesystem path, ChaincodeDir is slash-separated and relative
	// to it.
	RootDir      string
	ChaincodeDir string

	// Destination is the archive path. When empty the archive is
	// named after its fingerprint inside the configured output
	// directory.
	Destination string
}

// Packager produces deployment units. It is safe for concurrent use;
// each Package call builds its own archive.
type Packager struct {
	registry   *cryptosuite.Registry
	provider   cryptosuite.Provider
	hasher     *fingerprint.Hasher
	codec      archive.Codec
	prefix     string
	normalize  bool
	recipients []age.Recipient
	target     string
	output     string
	logger     *slog.Logger
}

// New resolves cfg against registry. cfg should already have passed
// [config.Config.Validate]; New re-parses each field it uses and fails
// on the first error.
func New(cfg *config.Config, registry *cryptosuite.Registry, logger *slog.Logger) (*Packager, error) {
	provider, err := registry.Lookup(cfg.Crypto.Provider)
	if err != nil {
		return nil, err
	}

	codec, err := archive.ParseCodec(cfg.Archive.Codec)
	if err != nil {
		return nil, err
	}

	order, err := fingerprint.ParseOrder(cfg.Traversal.Order)
	if err != nil {
		return nil, err
	}

	recipients, err := archive.ParseRecipients(cfg.Archive.Recipients)
	if err != nil {
		return nil, err
	}

	var target string
	if cfg.Peer.Endpoint != "" {
		parsed, err := endpoint.Parse(cfg.Peer.Endpoint)
		if err != nil {
			return nil, err
		}
		target = parsed.String()
	}

	return &Packager{
		registry:   registry,
		provider:   provider,
		hasher:     fingerprint.NewHasher(provider, logger, fingerprint.WithOrder(order)),
		codec:      codec,
		prefix:     cfg.Archive.Prefix,
		normalize:  cfg.Archive.Normalize,
		recipients: recipients,
		target:     target,
		output:     cfg.Paths.Output,
		logger:     logger.With("component", "deploy"),
	}, nil
}

// Provider returns the provider units are digested with.
func (p *Packager) Provider() cryptosuite.Provider {
	return p.provider
}

// Hasher returns the fingerprint hasher configured for this packager.
func (p *Packager) Hasher() *fingerprint.Hasher {
	return p.hasher
}

// Codec returns the configured archive codec.
func (p *Packager) Codec() archive.Codec {
	return p.codec
}

// Package fingerprints and archives one chaincode tree. The fingerprint
// is computed before any output is written, so a destination inside
// the chaincode tree cannot change it. When request.Destination is
// empty the archive is named after the fingerprint. On any failure no
// archive or manifest is left behind.
func (p *Packager) Package(ctx context.Context, request Request) (*Unit, error) {
	if request.RootDir == "" {
		return nil, fmt.Errorf("package: root directory is required")
	}
	buildID := uuid.NewString()
	logger := p.logger.With("build_id", buildID)

	sourceDir := filepath.Join(request.RootDir, filepath.FromSlash(request.ChaincodeDir))

	parameters, err := p.hasher.Parameters(request.Invocation)
	if err != nil {
		return nil, fmt.Errorf("hashing parameters: %w", err)
	}

	digest, err := p.hasher.Directory(request.RootDir, request.ChaincodeDir, parameters)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting %s: %w", sourceDir, err)
	}

	destination := request.Destination
	if destination == "" {
		if err := os.MkdirAll(p.output, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		destination = filepath.Join(p.output, digest.String()+p.codec.Extension())
	}
	job := p.startArchive(ctx, sourceDir, destination, request.ChaincodeDir, logger)

	archivePath, err := job.Wait()
	if err != nil {
		return nil, err
	}

	archiveDigest, err := digestFile(p.provider, archivePath)
	if err != nil {
		os.Remove(archivePath)
		return nil, err
	}

	unit := &Unit{
		BuildID:       buildID,
		Invocation:    request.Invocation,
		ChaincodeDir:  request.ChaincodeDir,
		Provider:      p.provider.Name(),
		Order:         p.hasher.Order().String(),
		ParameterHash: parameters,
		Fingerprint:   digest,
		ArchivePath:   archivePath,
		ArchiveDigest: archiveDigest,
		Codec:         p.codec,
		Encrypted:     len(p.recipients) > 0,
		Target:        p.target,
		Stats:         job.Stats(),
	}

	if err := WriteManifest(ManifestPath(archivePath), unit); err != nil {
		os.Remove(archivePath)
		return nil, err
	}

	logger.Info("packaged unit",
		"chaincode_dir", request.ChaincodeDir,
		"fingerprint", digest.String(),
		"archive", archivePath,
		"files", unit.Stats.Files,
	)
	return unit, nil
}

func (p *Packager) startArchive(ctx context.Context, sourceDir, destination, chaincodeDir string, logger *slog.Logger) *archive.Job {
	return archive.Start(ctx, sourceDir, destination,
		archive.WithCodec(p.codec),
		archive.WithPrefix(path.Join(p.prefix, chaincodeDir)),
		archive.WithNormalize(p.normalize),
		archive.WithRecipients(p.recipients...),
		archive.WithLogger(logger),
	)
}

// Verify re-digests a unit's archive with the provider named in the
// manifest and compares it with ArchiveDigest.
func (p *Packager) Verify(unit *Unit) error {
	provider, err := p.registry.Lookup(unit.Provider)
	if err != nil {
		return err
	}
	actual, err := digestFile(provider, unit.ArchivePath)
	if err != nil {
		return err
	}
	if !actual.Equal(unit.ArchiveDigest) {
		return fmt.Errorf("%w: %s has %s, manifest records %s",
			ErrDigestMismatch, unit.ArchivePath, actual, unit.ArchiveDigest)
	}
	return nil
}

func digestFile(provider cryptosuite.Provider, name string) (cryptosuite.Digest, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	hasher := provider.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("digesting %s: %w", name, err)
	}
	return cryptosuite.Digest(hasher.Sum(nil)), nil
}

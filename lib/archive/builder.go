// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"filippo.io/age"
)

// Options configures a build. The zero value produces a plain gzip
// archive with entry names relative to the source directory.
type Options struct {
	// Codec selects the compression stage.
	Codec Codec

	// Prefix is prepended to every entry name (e.g., "src" to match a
	// GOPATH-style layout). Must be a relative, slash-separated path.
	Prefix string

	// Normalize zeroes timestamps and ownership and collapses modes
	// to 0644/0755 so that identical trees produce identical tar
	// headers regardless of checkout time or user.
	Normalize bool

	// Recipients, when non-empty, adds an age encryption stage
	// between compression and the destination.
	Recipients []age.Recipient

	// Logger receives per-build summaries. Defaults to discarding.
	Logger *slog.Logger
}

// Option modifies [Options].
type Option func(*Options)

// WithCodec selects the compression codec.
func WithCodec(codec Codec) Option {
	return func(options *Options) { options.Codec = codec }
}

// WithPrefix sets the entry name prefix.
func WithPrefix(prefix string) Option {
	return func(options *Options) { options.Prefix = prefix }
}

// WithNormalize enables reproducible tar headers.
func WithNormalize(normalize bool) Option {
	return func(options *Options) { options.Normalize = normalize }
}

// WithRecipients enables the encryption stage.
func WithRecipients(recipients ...age.Recipient) Option {
	return func(options *Options) { options.Recipients = recipients }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

func newOptions(options []Option) *Options {
	resolved := &Options{Codec: CodecGzip}
	for _, option := range options {
		option(resolved)
	}
	if resolved.Logger == nil {
		resolved.Logger = slog.New(slog.DiscardHandler)
	}
	return resolved
}

// Stats summarizes one build.
type Stats struct {
	// Files and Directories count the entries written to the archive.
	Files       int64 `json:"files"`
	Directories int64 `json:"directories"`

	// Skipped counts files rejected by the filter.
	Skipped int64 `json:"skipped"`

	// Bytes is the total uncompressed size of packaged file contents.
	Bytes int64 `json:"bytes"`

	// Written is the number of bytes delivered to the destination.
	Written int64 `json:"written"`
}

// Build streams a filtered archive of sourceDir into sink. sink is
// owned by the caller and is not closed. On error, sink may have
// received a prefix of the stream; callers that need all-or-nothing
// output should use [WriteFile].
func Build(ctx context.Context, sourceDir string, sink io.Writer, options ...Option) (Stats, error) {
	resolved := newOptions(options)

	prefix, err := cleanPrefix(resolved.Prefix)
	if err != nil {
		return Stats{}, err
	}

	destination := &stageWriter{stage: StageWrite, writer: sink}
	var stream io.Writer = destination

	var encrypter io.WriteCloser
	if len(resolved.Recipients) > 0 {
		encrypter, err = age.Encrypt(destination, resolved.Recipients...)
		if err != nil {
			return Stats{}, stageError(StageEncrypt, err)
		}
		stream = &stageWriter{stage: StageEncrypt, writer: encrypter}
	}

	compressor, err := resolved.Codec.NewWriter(stream)
	if err != nil {
		return Stats{}, stageError(StageCompress, err)
	}

	packer := tar.NewWriter(&stageWriter{stage: StageCompress, writer: compressor})

	stats, err := pack(ctx, sourceDir, prefix, resolved.Normalize, packer)
	if err != nil {
		return Stats{}, err
	}

	// Close in pipeline order: each Close flushes into the next stage.
	if err := packer.Close(); err != nil {
		return Stats{}, stageError(StagePack, err)
	}
	if err := compressor.Close(); err != nil {
		return Stats{}, stageError(StageCompress, err)
	}
	if encrypter != nil {
		if err := encrypter.Close(); err != nil {
			return Stats{}, stageError(StageEncrypt, err)
		}
	}

	stats.Written = destination.written
	resolved.Logger.Debug("archive stream complete",
		"source", sourceDir,
		"codec", resolved.Codec.String(),
		"encrypted", encrypter != nil,
		"files", stats.Files,
		"directories", stats.Directories,
		"skipped", stats.Skipped,
		"bytes", stats.Bytes,
		"written", stats.Written,
	)
	return stats, nil
}

// pack walks sourceDir in lexical order and writes every included
// entry to packer.
func pack(ctx context.Context, sourceDir, prefix string, normalize bool, packer *tar.Writer) (Stats, error) {
	var stats Stats

	err := filepath.WalkDir(sourceDir, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return pathError("walk", current, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("archive cancelled: %w", err)
		}
		if current == sourceDir {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return pathError("stat", current, err)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			// Links are packaged as their targets. Linked
			// directories get a directory entry but are not
			// descended.
			info, err = os.Stat(current)
			if err != nil {
				return pathError("stat", current, err)
			}
		}

		kind := KindFile
		switch {
		case info.IsDir():
			kind = KindDirectory
		case !info.Mode().IsRegular():
			// Sockets, devices, and pipes have no place in a
			// source package.
			stats.Skipped++
			return nil
		}

		if !Include(Entry{Name: entry.Name(), Kind: kind, Path: current}) {
			stats.Skipped++
			return nil
		}

		relative, err := filepath.Rel(sourceDir, current)
		if err != nil {
			return pathError("rel", current, err)
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return stageError(StagePack, fmt.Errorf("header for %s: %w", current, err))
		}
		header.Name = path.Join(prefix, filepath.ToSlash(relative))
		if kind == KindDirectory {
			header.Name += "/"
		}
		if normalize {
			normalizeHeader(header)
		}

		if err := packer.WriteHeader(header); err != nil {
			return stageError(StagePack, err)
		}
		if kind == KindDirectory {
			stats.Directories++
			return nil
		}

		written, err := copyFile(packer, current)
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += written
		return nil
	})
	return stats, err
}

func copyFile(packer io.Writer, name string) (int64, error) {
	file, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	written, err := io.Copy(packer, file)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return written, err
		}
		return written, stageError(StagePack, fmt.Errorf("%s: %w", name, err))
	}
	return written, nil
}

var epoch = time.Unix(0, 0).UTC()

func normalizeHeader(header *tar.Header) {
	header.ModTime = epoch
	header.AccessTime = time.Time{}
	header.ChangeTime = time.Time{}
	header.Uid = 0
	header.Gid = 0
	header.Uname = ""
	header.Gname = ""
	header.PAXRecords = nil

	switch {
	case header.Typeflag == tar.TypeDir, header.Mode&0o111 != 0:
		header.Mode = 0o755
	default:
		header.Mode = 0o644
	}
}

func cleanPrefix(prefix string) (string, error) {
	if prefix == "" {
		return "", nil
	}
	cleaned := path.Clean(filepath.ToSlash(prefix))
	if cleaned == "." {
		return "", nil
	}
	if !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("archive prefix %q must be a relative path without '..'", prefix)
	}
	return cleaned, nil
}

func pathError(op, name string, err error) error {
	var existing *fs.PathError
	if errors.As(err, &existing) {
		return err
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}

// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive packages a source directory into a filtered,
// compressed tar stream for transmission to a remote execution
// environment.
//
// Only entries accepted by [Include] are packaged: every directory (so
// the walk can descend), any file whose name contains "Dockerfile", and
// files with an extension in {.go, .yaml, .json, .c, .h}. The filter
// looks only at entry kind and name, never at content.
//
// The archive is produced by a chain of streaming stages, each
// consuming the previous stage's output as it is written:
//
//	walk -> tar (pack) -> compress -> [age encrypt] -> destination (write)
//
// Nothing is buffered as a whole tree. The first failure in any stage
// aborts the pipeline and is reported as a [*PipelineError] naming the
// stage; filesystem failures while walking or reading source files are
// reported as [*fs.PathError]. There is no partial success: [WriteFile]
// writes to a temporary file beside the destination and renames it
// into place only after every stage has flushed and closed.
//
// [Build] streams into any caller-owned io.Writer. [WriteFile] owns the
// destination file. [Start] runs WriteFile asynchronously and returns a
// [*Job] that resolves to the destination path or an error.
//
// Compression defaults to gzip (github.com/klauspost/compress/gzip);
// zstd and lz4 frame codecs are available via [WithCodec].
package archive

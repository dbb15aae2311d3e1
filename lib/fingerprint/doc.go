// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint computes the content fingerprint that identifies a
// deployable unit.
//
// A fingerprint binds two things together: the invocation (code
// location, entry point, ordered arguments) and the bytes of every file
// under the code directory. It is computed in two steps:
//
//   - [HashParameters] digests codePath || entryPoint || args[0] || ...
//     with no separators and no normalization. Argument order matters.
//   - [HashDirectory] folds every file under rootDir/relativeDir into a
//     running digest seeded with the parameter digest. Each step hashes
//     the file bytes followed by the hex text of the running digest.
//
// The directory fold is split into [Collect], which walks an [fs.FS]
// depth-first and returns the ordered list of files, and [Fold], a pure
// function over that list. Fold never touches the filesystem.
//
// # Traversal order
//
// Because each step consumes the previous step's output, the result
// depends on the order files are visited. [OrderListing] visits entries
// in whatever order the directory listing returns them, which is not
// stable across filesystems or platforms. [OrderSorted] (the default)
// sorts each directory's entries by name first, so the same tree
// produces the same fingerprint everywhere. The two orders produce
// different fingerprints for any directory whose raw listing is not
// already sorted.
//
// Any unreadable file or unlistable directory fails the whole
// computation with an [*fs.PathError]; nothing is skipped.
package fingerprint

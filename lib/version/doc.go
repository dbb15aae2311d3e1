// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for ccpack.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//	go build -ldflags "-X github.com/jeisc/fabric-sdk-node/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/ccpack
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// These default to "unknown" / "0.1.0-dev" when not injected, which
// occurs during development builds and test runs.
//
// [Info] and [Full] format them for --version output; [Current]
// returns them as a struct for JSON output.
package version

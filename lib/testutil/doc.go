// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [WriteTree] materializes a directory tree from a map of relative
// paths to contents, so fingerprint and archive tests can describe
// their fixtures inline. [RequireClosed] encapsulates the timeout
// safety valve pattern (select with time.After fallback) for waiting
// on completion channels such as an archive job's Done channel.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil

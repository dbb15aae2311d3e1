// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the packager.
//
// Configuration is loaded from a single file specified by either the
// CCPACK_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. Files ending in .json or .jsonc are
// read as JSON with comments and trailing commas allowed; any other
// file is read as YAML.
//
// The configuration file supports environment-specific sections
// (development, production) that override base values when
// [Config].Environment matches. Production defaults are stricter:
// archive headers are normalized so release packages are reproducible.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Crypto, Archive, Traversal, Log,
//     Paths, Peer
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- checks every field that can be checked
//     without a provider registry
package config

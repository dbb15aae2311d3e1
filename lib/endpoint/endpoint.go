// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package endpoint parses the gRPC endpoint URLs that name where a
// packaged unit is sent. Only the grpc (plaintext) and grpcs (TLS)
// schemes are recognized, and the port is always explicit.
package endpoint

import (
	"fmt"
	"net"
	"net/url"
)

// Endpoint is a parsed gRPC endpoint.
type Endpoint struct {
	// Address is host:port, suitable for dialing.
	Address string

	// TLS is true for grpcs:// URLs.
	TLS bool
}

// Parse parses a grpc:// or grpcs:// URL. Paths, queries, and user
// info are rejected rather than silently dropped.
func Parse(raw string) (Endpoint, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parsing endpoint %q: %w", raw, err)
	}

	var secure bool
	switch parsed.Scheme {
	case "grpc":
		secure = false
	case "grpcs":
		secure = true
	default:
		return Endpoint{}, fmt.Errorf("endpoint %q: scheme must be grpc or grpcs, got %q", raw, parsed.Scheme)
	}

	if parsed.User != nil || (parsed.Path != "" && parsed.Path != "/") || parsed.RawQuery != "" || parsed.Fragment != "" {
		return Endpoint{}, fmt.Errorf("endpoint %q: only scheme, host, and port are allowed", raw)
	}
	if parsed.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("endpoint %q: missing host", raw)
	}
	if parsed.Port() == "" {
		return Endpoint{}, fmt.Errorf("endpoint %q: missing port", raw)
	}

	return Endpoint{
		Address: net.JoinHostPort(parsed.Hostname(), parsed.Port()),
		TLS:     secure,
	}, nil
}

// String renders the endpoint back as a URL.
func (e Endpoint) String() string {
	scheme := "grpc"
	if e.TLS {
		scheme = "grpcs"
	}
	return scheme + "://" + e.Address
}

// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"strings"

	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
)

// Invocation describes one deployment call. Callers own the strings and
// are responsible for passing them in canonical form.
type Invocation struct {
	// CodePath is the location of the code being deployed.
	CodePath string `cbor:"code_path" json:"code_path"`

	// EntryPoint is the function invoked on deployment (e.g., "Init").
	EntryPoint string `cbor:"entry_point" json:"entry_point"`

	// Arguments are passed to EntryPoint. Order is significant.
	Arguments []string `cbor:"arguments" json:"arguments"`
}

// HashParameters digests codePath || entryPoint || join(arguments).
// Arguments are concatenated exactly as given: no separators, no
// sorting, no deduplication. Provider errors are returned unchanged.
func HashParameters(provider cryptosuite.Provider, invocation Invocation) (cryptosuite.Digest, error) {
	var builder strings.Builder
	builder.WriteString(invocation.CodePath)
	builder.WriteString(invocation.EntryPoint)
	for _, argument := range invocation.Arguments {
		builder.WriteString(argument)
	}
	return provider.Digest([]byte(builder.String()))
}

// GenerateParameterHash is the hex-string form of [HashParameters]
// using the default SHA2-256 provider.
func GenerateParameterHash(codePath, entryPoint string, arguments []string) string {
	digest, err := HashParameters(defaultProvider(), Invocation{
		CodePath:   codePath,
		EntryPoint: entryPoint,
		Arguments:  arguments,
	})
	if err != nil {
		// The standard library hashes never fail on Write.
		panic("fingerprint: " + err.Error())
	}
	return digest.String()
}

func defaultProvider() cryptosuite.Provider {
	return cryptosuite.Default().MustLookup(cryptosuite.DefaultProvider)
}

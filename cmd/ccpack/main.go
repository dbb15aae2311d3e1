// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// ccpack fingerprints chaincode source trees and packages them into
// deployment archives. Run "ccpack --help" for the command list.
package main

import (
	"fmt"
	"os"

	"github.com/jeisc/fabric-sdk-node/cmd/ccpack/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own diagnostics (like inspect
		// --verify) return an error carrying the exit code. Don't
		// print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}

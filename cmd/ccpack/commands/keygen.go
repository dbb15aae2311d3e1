// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jeisc/fabric-sdk-node/cmd/ccpack/cli"
	"github.com/jeisc/fabric-sdk-node/lib/archive"
)

func keygenCommand() *cli.Command {
	var outputJSON bool

	const usage = "ccpack keygen <identity-file>"

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age identity for encrypted archives",
		Description: `Write a new age X25519 identity to <identity-file> (mode 0600) and
print its public key. Add the public key to archive.recipients (or pass
it with "ccpack package --recipient") to encrypt packages to it, and
pass the identity file to "ccpack inspect --identity" to read them.

An existing file is never overwritten.`,
		Usage: usage,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
			flagSet.BoolVar(&outputJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, usage); err != nil {
				return err
			}
			publicKey, err := archive.WriteIdentity(args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				return cli.WriteJSON(stdout, map[string]string{
					"identity_file": args[0],
					"public_key":    publicKey,
				})
			}
			_, err = fmt.Fprintln(stdout, publicKey)
			return err
		},
	}
}

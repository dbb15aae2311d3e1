// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"filippo.io/age"
	"github.com/spf13/pflag"

	"github.com/jeisc/fabric-sdk-node/cmd/ccpack/cli"
	"github.com/jeisc/fabric-sdk-node/lib/archive"
	"github.com/jeisc/fabric-sdk-node/lib/codec"
	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
	"github.com/jeisc/fabric-sdk-node/lib/deploy"
)

type inspectResult struct {
	Manifest *deploy.Unit     `json:"manifest,omitempty"`
	Members  []archive.Member `json:"members"`
	Verified *bool            `json:"verified,omitempty"`
}

func inspectCommand() *cli.Command {
	var (
		options      globalOptions
		identityFile string
		verify       bool
		raw          bool
	)

	const usage = "ccpack inspect <archive> [flags]"

	return &cli.Command{
		Name:    "inspect",
		Summary: "List an archive and show its manifest",
		Description: `List the entries of an archive written by "ccpack package" and print
the manifest stored next to it, if present. Encrypted archives need
--identity. With --verify the archive bytes are re-digested and
compared with the manifest; a mismatch exits with status 1.`,
		Usage: usage,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVarP(&identityFile, "identity", "i", "", "age identity file for encrypted archives")
			flagSet.BoolVar(&verify, "verify", false, "check the archive digest against the manifest")
			flagSet.BoolVar(&raw, "raw", false, "print the manifest in CBOR diagnostic notation")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, usage); err != nil {
				return err
			}
			archivePath := args[0]

			cfg, logger, err := options.load()
			if err != nil {
				return err
			}

			manifestPath := deploy.ManifestPath(archivePath)
			var unit *deploy.Unit
			if _, err := os.Stat(manifestPath); err == nil {
				unit, err = deploy.ReadManifest(manifestPath)
				if err != nil {
					return err
				}
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if raw {
				if unit == nil {
					return fmt.Errorf("no manifest at %s", manifestPath)
				}
				data, err := os.ReadFile(manifestPath)
				if err != nil {
					return err
				}
				notation, err := codec.Diagnose(data)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(stdout, notation)
				return err
			}

			identities, err := readIdentities(identityFile)
			if err != nil {
				return err
			}

			result := inspectResult{Manifest: unit}
			if unit == nil || !unit.Encrypted || len(identities) > 0 {
				result.Members, err = archive.ReadMembersFile(archivePath, identities...)
				if err != nil {
					return err
				}
			}

			var verifyErr error
			if verify {
				if unit == nil {
					return fmt.Errorf("--verify needs a manifest at %s", manifestPath)
				}
				packager, err := deploy.New(cfg, cryptosuite.Default(), logger.With("command", "inspect"))
				if err != nil {
					return err
				}
				verifyErr = packager.Verify(unit)
				if verifyErr != nil && !errors.Is(verifyErr, deploy.ErrDigestMismatch) {
					return verifyErr
				}
				verified := verifyErr == nil
				result.Verified = &verified
			}

			if options.outputJSON {
				if err := cli.WriteJSON(stdout, result); err != nil {
					return err
				}
			} else {
				printInspect(result, identityFile == "")
				if verifyErr != nil {
					fmt.Fprintf(stdout, "verify: FAILED: %v\n", verifyErr)
				} else if verify {
					fmt.Fprintln(stdout, "verify: ok")
				}
			}

			if verifyErr != nil {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func printInspect(result inspectResult, noIdentity bool) {
	if unit := result.Manifest; unit != nil {
		writer := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
		fmt.Fprintf(writer, "build id:\t%s\n", unit.BuildID)
		fmt.Fprintf(writer, "entry point:\t%s\n", unit.Invocation.EntryPoint)
		fmt.Fprintf(writer, "code path:\t%s\n", unit.Invocation.CodePath)
		fmt.Fprintf(writer, "arguments:\t%q\n", unit.Invocation.Arguments)
		fmt.Fprintf(writer, "provider:\t%s (%s order)\n", unit.Provider, unit.Order)
		fmt.Fprintf(writer, "parameter hash:\t%s\n", unit.ParameterHash)
		fmt.Fprintf(writer, "fingerprint:\t%s\n", unit.Fingerprint)
		fmt.Fprintf(writer, "archive hash:\t%s\n", unit.ArchiveDigest)
		fmt.Fprintf(writer, "codec:\t%s\n", unit.Codec)
		fmt.Fprintf(writer, "encrypted:\t%t\n", unit.Encrypted)
		if unit.Target != "" {
			fmt.Fprintf(writer, "target:\t%s\n", unit.Target)
		}
		writer.Flush()
		fmt.Fprintln(stdout)
	}

	if result.Members == nil && result.Manifest != nil && result.Manifest.Encrypted && noIdentity {
		fmt.Fprintln(stdout, "members: encrypted (pass --identity to list)")
		return
	}

	writer := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
	for _, member := range result.Members {
		fmt.Fprintf(writer, "%04o\t%d\t%s\n", member.Mode, member.Size, member.Name)
	}
	writer.Flush()
}

func readIdentities(name string) ([]age.Identity, error) {
	if name == "" {
		return nil, nil
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	identities, err := age.ParseIdentities(file)
	if err != nil {
		return nil, fmt.Errorf("parsing identity file %s: %w", name, err)
	}
	return identities, nil
}

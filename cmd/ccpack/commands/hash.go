// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jeisc/fabric-sdk-node/cmd/ccpack/cli"
	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
	"github.com/jeisc/fabric-sdk-node/lib/fingerprint"
)

type hashResult struct {
	Provider string             `json:"provider"`
	Order    string             `json:"order,omitempty"`
	Digest   cryptosuite.Digest `json:"digest"`
}

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:    "hash",
		Summary: "Compute parameter digests and directory fingerprints",
		Subcommands: []*cli.Command{
			hashParamsCommand(),
			hashDirCommand(),
		},
	}
}

func hashParamsCommand() *cli.Command {
	var (
		options    globalOptions
		codePath   string
		entryPoint string
		provider   string
	)

	const usage = "ccpack hash params --code-path <path> --entry-point <name> [args...]"

	return &cli.Command{
		Name:    "params",
		Summary: "Digest an invocation (code path, entry point, arguments)",
		Description: `Digest the concatenation of the code path, the entry point, and every
argument, in order and without separators. The hex result seeds
"ccpack hash dir".`,
		Usage: usage,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("params", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&codePath, "code-path", "", "location of the code being deployed")
			flagSet.StringVar(&entryPoint, "entry-point", "", "function invoked on deployment")
			flagSet.StringVar(&provider, "provider", "", "override crypto.provider")
			return flagSet
		},
		Run: func(args []string) error {
			if codePath == "" || entryPoint == "" {
				return fmt.Errorf("usage: %s", usage)
			}
			cfg, logger, err := options.load()
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.Crypto.Provider = provider
			}

			selected, err := cryptosuite.Default().Lookup(cfg.Crypto.Provider)
			if err != nil {
				return err
			}
			hasher := fingerprint.NewHasher(selected, logger.With("command", "hash/params"))

			digest, err := hasher.Parameters(fingerprint.Invocation{
				CodePath:   codePath,
				EntryPoint: entryPoint,
				Arguments:  args,
			})
			if err != nil {
				return err
			}
			return writeDigest(options.outputJSON, hashResult{Provider: selected.Name(), Digest: digest})
		},
	}
}

func hashDirCommand() *cli.Command {
	var (
		options  globalOptions
		seed     string
		order    string
		provider string
	)

	const usage = "ccpack hash dir <root> <dir> --seed <hex> [flags]"

	return &cli.Command{
		Name:    "dir",
		Summary: "Fingerprint a directory tree seeded with a parameter digest",
		Description: `Fold every file under <root>/<dir> into the seed: for each file the
running digest becomes digest(content || hex(running)). Directories are
always descended. With --order listing, entries are visited in the
order the file system lists them, which is not portable.`,
		Usage: usage,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("dir", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&seed, "seed", "", "hex parameter digest from 'ccpack hash params'")
			flagSet.StringVar(&order, "order", "", "override traversal.order (sorted, listing)")
			flagSet.StringVar(&provider, "provider", "", "override crypto.provider")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 2, usage); err != nil {
				return err
			}
			if seed == "" {
				return fmt.Errorf("--seed is required\n\nusage: %s", usage)
			}
			seedDigest, err := cryptosuite.ParseDigest(seed)
			if err != nil {
				return fmt.Errorf("--seed: %w", err)
			}

			cfg, logger, err := options.load()
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.Crypto.Provider = provider
			}
			if order != "" {
				cfg.Traversal.Order = order
			}

			selected, err := cryptosuite.Default().Lookup(cfg.Crypto.Provider)
			if err != nil {
				return err
			}
			traversal, err := fingerprint.ParseOrder(cfg.Traversal.Order)
			if err != nil {
				return err
			}
			hasher := fingerprint.NewHasher(selected, logger.With("command", "hash/dir"), fingerprint.WithOrder(traversal))

			digest, err := hasher.Directory(args[0], args[1], seedDigest)
			if err != nil {
				return err
			}
			return writeDigest(options.outputJSON, hashResult{
				Provider: selected.Name(),
				Order:    traversal.String(),
				Digest:   digest,
			})
		},
	}
}

func writeDigest(outputJSON bool, result hashResult) error {
	if outputJSON {
		return cli.WriteJSON(stdout, result)
	}
	_, err := fmt.Fprintln(stdout, result.Digest.String())
	return err
}

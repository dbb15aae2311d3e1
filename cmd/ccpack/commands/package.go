// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/jeisc/fabric-sdk-node/cmd/ccpack/cli"
	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
	"github.com/jeisc/fabric-sdk-node/lib/deploy"
	"github.com/jeisc/fabric-sdk-node/lib/fingerprint"
)

func packageCommand() *cli.Command {
	var (
		flagSet    *pflag.FlagSet
		options    globalOptions
		codePath   string
		entryPoint string
		output     string
		codec      string
		prefix     string
		provider   string
		normalize  bool
		recipients []string
	)

	const usage = "ccpack package <root> <chaincode-dir> [args...] --entry-point <name> [flags]"

	return &cli.Command{
		Name:    "package",
		Summary: "Fingerprint and archive a chaincode directory",
		Description: `Build a deployment unit from <root>/<chaincode-dir>: digest the
invocation, fingerprint the directory seeded with that digest, and
write a filtered archive plus a CBOR manifest (<archive>.manifest).

The archive is written to --output, or to paths.output named after the
fingerprint. Nothing is left behind if any step fails.`,
		Usage: usage,
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet("package", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&codePath, "code-path", "", "code path hashed into the invocation (default: <root>/<chaincode-dir>)")
			flagSet.StringVar(&entryPoint, "entry-point", "", "function invoked on deployment")
			flagSet.StringVarP(&output, "output", "o", "", "archive path (default: paths.output/<fingerprint><ext>)")
			flagSet.StringVar(&codec, "codec", "", "override archive.codec (gzip, zstd, lz4)")
			flagSet.StringVar(&prefix, "prefix", "", "override archive.prefix")
			flagSet.StringVar(&provider, "provider", "", "override crypto.provider")
			flagSet.BoolVar(&normalize, "normalize", false, "override archive.normalize")
			flagSet.StringSliceVar(&recipients, "recipient", nil, "age recipient to encrypt to (repeatable; replaces archive.recipients)")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 2, usage); err != nil {
				return err
			}
			if entryPoint == "" {
				return fmt.Errorf("--entry-point is required\n\nusage: %s", usage)
			}
			root, chaincodeDir, arguments := args[0], args[1], args[2:]

			cfg, logger, err := options.load()
			if err != nil {
				return err
			}
			if codec != "" {
				cfg.Archive.Codec = codec
			}
			if prefix != "" {
				cfg.Archive.Prefix = prefix
			}
			if provider != "" {
				cfg.Crypto.Provider = provider
			}
			if flagSet.Changed("normalize") {
				cfg.Archive.Normalize = normalize
			}
			if flagSet.Changed("recipient") {
				cfg.Archive.Recipients = recipients
			}

			packager, err := deploy.New(cfg, cryptosuite.Default(), logger.With("command", "package"))
			if err != nil {
				return err
			}

			if codePath == "" {
				codePath = filepath.Join(root, filepath.FromSlash(chaincodeDir))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			unit, err := packager.Package(ctx, deploy.Request{
				Invocation: fingerprint.Invocation{
					CodePath:   codePath,
					EntryPoint: entryPoint,
					Arguments:  arguments,
				},
				RootDir:      root,
				ChaincodeDir: chaincodeDir,
				Destination:  output,
			})
			if err != nil {
				return err
			}

			if options.outputJSON {
				return cli.WriteJSON(stdout, unit)
			}
			fmt.Fprintf(stdout, "fingerprint:  %s\n", unit.Fingerprint)
			fmt.Fprintf(stdout, "archive:      %s\n", unit.ArchivePath)
			fmt.Fprintf(stdout, "archive hash: %s\n", unit.ArchiveDigest)
			fmt.Fprintf(stdout, "manifest:     %s\n", deploy.ManifestPath(unit.ArchivePath))
			_, err = fmt.Fprintf(stdout, "files:        %d (%d skipped)\n", unit.Stats.Files, unit.Stats.Skipped)
			return err
		},
	}
}

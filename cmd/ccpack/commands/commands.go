// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the ccpack command tree. Every command that
// touches the packaging libraries resolves configuration the same way:
// --config, then CCPACK_CONFIG, then built-in defaults, validated
// before any file is read.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/jeisc/fabric-sdk-node/cmd/ccpack/cli"
	"github.com/jeisc/fabric-sdk-node/lib/config"
	"github.com/jeisc/fabric-sdk-node/lib/version"
)

// stdout receives command results. Tests replace it.
var stdout io.Writer = os.Stdout

// Root builds and returns the complete ccpack command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "ccpack",
		Description: `ccpack: fingerprint and package chaincode for deployment.

A deployment unit is identified by a fingerprint: the invocation
(code path, entry point, arguments) is digested, and that digest seeds
a chained digest over every file under the chaincode directory. The
same tree is packaged into a filtered, compressed archive containing
only source files (.go .yaml .json .c .h) and build descriptors
(Dockerfile*), with a CBOR manifest written alongside.`,
		Subcommands: []*cli.Command{
			hashCommand(),
			packageCommand(),
			inspectCommand(),
			keygenCommand(),
			providersCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Package a chaincode directory for Init(a)",
				Command:     "ccpack package /proj chaincode a --entry-point Init",
			},
			{
				Description: "Compute only the fingerprint",
				Command:     "ccpack hash dir /proj chaincode --seed $(ccpack hash params --code-path /proj/chaincode --entry-point Init a)",
			},
			{
				Description: "List an archive and check it against its manifest",
				Command:     "ccpack inspect ~/.cache/ccpack/<fingerprint>.tar.gz --verify",
			},
		},
	}
}

// globalOptions are accepted by every command that loads
// configuration.
type globalOptions struct {
	configPath string
	logLevel   string
	outputJSON bool
}

func (g *globalOptions) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.configPath, "config", "", "path to a ccpack YAML or JSONC config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&g.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	flagSet.BoolVar(&g.outputJSON, "json", false, "output as JSON")
}

// load resolves, validates, and returns the configuration together
// with the root logger built from it.
func (g *globalOptions) load() (*config.Config, *slog.Logger, error) {
	var cfg *config.Config
	var err error
	switch {
	case g.configPath != "":
		cfg, err = config.LoadFile(g.configPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	return cfg, cli.NewLogger(level), nil
}

func versionCommand() *cli.Command {
	var outputJSON bool
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVar(&outputJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if outputJSON {
				return cli.WriteJSON(stdout, version.Current())
			}
			_, err := fmt.Fprintf(stdout, "ccpack %s\n", version.Full())
			return err
		},
	}
}

func requireArgs(args []string, count int, usage string) error {
	if len(args) < count {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

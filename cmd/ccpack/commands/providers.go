// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/jeisc/fabric-sdk-node/cmd/ccpack/cli"
	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
)

type providerInfo struct {
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Selected bool   `json:"selected"`
}

func providersCommand() *cli.Command {
	var options globalOptions

	return &cli.Command{
		Name:    "providers",
		Summary: "List the registered crypto providers",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("providers", pflag.ContinueOnError)
			options.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			cfg, _, err := options.load()
			if err != nil {
				return err
			}

			registry := cryptosuite.Default()
			var providers []providerInfo
			for _, name := range registry.Names() {
				provider, err := registry.Lookup(name)
				if err != nil {
					return err
				}
				providers = append(providers, providerInfo{
					Name:     name,
					Size:     provider.Size(),
					Selected: name == cfg.Crypto.Provider,
				})
			}

			if options.outputJSON {
				return cli.WriteJSON(stdout, providers)
			}
			writer := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
			for _, provider := range providers {
				marker := " "
				if provider.Selected {
					marker = "*"
				}
				fmt.Fprintf(writer, "%s %s\t%d bytes\n", marker, provider.Name, provider.Size)
			}
			return writer.Flush()
		},
	}
}

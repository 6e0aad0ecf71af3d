// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kiln/cmd/kiln/cli"
)

type loadOptions struct {
	globalOptions
	binary string
	kernel string
}

func loadCommand() *cli.Command {
	var options loadOptions
	return &cli.Command{
		Name:    "load",
		Summary: "Check that a committed binary loads",
		Description: `Open a binary already in the cache and resolve a kernel's entry point,
using the build document beside it. Nothing is compiled. A binary that
fails to open and one that lacks the entry point are reported
differently.`,
		Examples: []cli.Example{
			{
				Description: "Verify a cached kernel after unpacking",
				Command:     `kiln load --binary "$(kiln dir --source addVectors.okl)/binary" --kernel addVectors`,
			},
		},
		NoArgs: true,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("load", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.StringVar(&options.binary, "binary", "", "path of the committed binary (required)")
			flagSet.StringVar(&options.kernel, "kernel", "", "kernel entry point name (required)")
			return flagSet
		},
		Run: func(args []string) error {
			return runLoad(options)
		},
	}
}

func runLoad(options loadOptions) error {
	if options.binary == "" || options.kernel == "" {
		return fmt.Errorf("--binary and --kernel are required")
	}
	env, err := options.load()
	if err != nil {
		return err
	}
	kernel, err := env.builder.LoadBinary(options.binary, options.kernel)
	if err != nil {
		return err
	}
	defer kernel.Close()
	printKernel(kernel)
	return nil
}

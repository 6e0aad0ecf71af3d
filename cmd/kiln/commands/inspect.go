// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kiln/cmd/kiln/cli"
	"github.com/bureau-foundation/kiln/lib/jit"
)

type inspectOptions struct {
	globalOptions
	source     string
	properties string
}

func (o *inspectOptions) register(flagSet *pflag.FlagSet) {
	o.globalOptions.register(flagSet)
	flagSet.StringVar(&o.source, "source", "", "kernel source file, or lib://alias/path (required)")
	flagSet.StringVar(&o.properties, "properties", "", "build properties as JSON, or @file")
}

func (o *inspectOptions) plan() (*jit.Plan, error) {
	if o.source == "" {
		return nil, fmt.Errorf("--source is required")
	}
	properties, err := parseProperties(o.properties)
	if err != nil {
		return nil, err
	}
	env, err := o.load()
	if err != nil {
		return nil, err
	}
	return env.builder.Plan(jit.Request{Filename: o.source, Properties: properties})
}

func hashCommand() *cli.Command {
	var options inspectOptions
	return &cli.Command{
		Name:    "hash",
		Summary: "Print the content digest of a kernel",
		Description: `Print the digest a build of this source and these properties would be
cached under. Config file kernel defaults are included, exactly as
"kiln build" would apply them. Nothing is written.`,
		NoArgs: true,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("hash", pflag.ContinueOnError)
			options.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			plan, err := options.plan()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, plan.Digest)
			return nil
		},
	}
}

func dirCommand() *cli.Command {
	var options inspectOptions
	return &cli.Command{
		Name:    "dir",
		Summary: "Print the cache directory of a kernel",
		Description: `Print the cache entry directory a build of this source and these
properties would use. The directory may not exist yet.`,
		Examples: []cli.Example{
			{
				Description: "List a kernel's cached artifacts",
				Command:     `ls "$(kiln dir --source addVectors.okl)"`,
			},
		},
		NoArgs: true,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("dir", pflag.ContinueOnError)
			options.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			plan, err := options.plan()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, plan.Directory)
			return nil
		},
	}
}

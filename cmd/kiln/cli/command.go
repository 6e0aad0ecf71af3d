// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the kiln command tree: either a group such as
// "cache" that only dispatches, or a leaf such as "build" with a Run
// function.
type Command struct {
	// Name is the word typed to select the command ("cache", "pack").
	Name string

	// Summary is the one line shown in the parent's command list.
	Summary string

	// Description is the full text of the command's own help. Summary is
	// used when it is empty.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Environment lists the variables that change what the command
	// does, shown in its help.
	Environment []Variable

	// Flags builds a fresh flag set bound to the command's options. It
	// may be called more than once: for parsing, for suggestions after a
	// parse error, and for help.
	Flags func() *pflag.FlagSet

	// NoArgs rejects positional arguments left after flag parsing.
	NoArgs bool

	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing. It
	// is used when no subcommand matches.
	Run func(args []string) error

	// Output receives help text. Subcommands inherit it from their
	// parent; the root defaults to os.Stderr.
	Output io.Writer

	// parent is set during dispatch so help shows the full command path.
	parent *Command
}

// Example is a command line shown in help, with what it does.
type Example struct {
	Description string
	Command     string
}

// Variable is an environment variable shown in help.
type Variable struct {
	Name        string
	Description string
}

// Execute runs the command named by args under c.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.output())
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return c.dispatch(args[0], args[1:])
	}

	if c.Run == nil {
		c.PrintHelp(c.output())
		switch {
		case len(c.Subcommands) == 0:
			return fmt.Errorf("%s: nothing to run", c.fullName())
		case len(args) == 0:
			return fmt.Errorf("%s: a command is required", c.fullName())
		default:
			return fmt.Errorf("%s: a command is required before %q", c.fullName(), args[0])
		}
	}

	positional, err := c.parseFlags(args)
	if err != nil {
		return err
	}
	if c.NoArgs && len(positional) > 0 {
		return c.usageError(fmt.Sprintf("unexpected argument %q", positional[0]))
	}
	return c.Run(positional)
}

func (c *Command) dispatch(name string, args []string) error {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub.Execute(args)
		}
	}
	if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
		return c.usageError(fmt.Sprintf("unknown command %q (did you mean %q?)", name, suggestion))
	}
	return c.usageError(fmt.Sprintf("unknown command %q", name))
}

// parseFlags returns the positional arguments. pflag's own error output
// and usage dump are discarded in favour of usageError.
func (c *Command) parseFlags(args []string) ([]string, error) {
	if c.Flags == nil {
		return args, nil
	}
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		message := err.Error()
		if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand") {
			// The failed parse may have consumed state, so look up
			// suggestions in a fresh flag set.
			if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
				message += fmt.Sprintf(" (did you mean %s?)", suggestion)
			}
		}
		return nil, c.usageError(message)
	}
	return flagSet.Args(), nil
}

func (c *Command) usageError(message string) error {
	return fmt.Errorf("%s\n\nRun '%s --help' for usage.", message, c.fullName())
}

// PrintHelp writes the command's help to w: description, usage,
// commands, flags, environment and examples, each only when present.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	if c.Description != "" {
		fmt.Fprintf(w, "%s\n\n", c.Description)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if usages := c.Flags().FlagUsages(); usages != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", usages)
		}
	}

	if len(c.Environment) > 0 {
		fmt.Fprintf(w, "\nEnvironment:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, variable := range c.Environment {
			fmt.Fprintf(table, "  %s\t%s\n", variable.Name, variable.Description)
		}
		table.Flush()
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for i, example := range c.Examples {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

// fullName is the command path from the root, e.g. "kiln cache pack".
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func (c *Command) output() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.Output != nil {
			return command.Output
		}
	}
	return os.Stderr
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

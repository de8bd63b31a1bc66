package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

const starterRecipe = `# rejig recipe file.
#
# Each recipe selects call sites with a method pattern and declares the new
# argument order by formal parameter name. Patterns take the form
# "[owner] name(params)": owner accepts * (within a segment) and ..
# (across segments); params is .. for any argument list, or a comma list
# of * / type names, optionally ending in .. .
recipes:
  - methodPattern: com.example.Logger log(..)
    orderedArgumentNames: [message, level]
    # Needed only when the declaration is not in the rewritten tree:
    # originalOrderedArgumentNames: [level, message]
`

// runInit implements the `rejig init` subcommand, which writes a starter
// recipe file to seed a new configuration.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rejig init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var force, dryRun bool
	fs.BoolVar(&force, "force", false, "overwrite an existing recipe file")
	fs.BoolVar(&dryRun, "dry-run", false, "print the starter file without writing it")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: rejig init [flags] [path]

Write a starter recipe file. path defaults to ./rejig.yml. An existing file
is never overwritten unless -force is given.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	path := "rejig.yml"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if dryRun {
		_, _ = fmt.Fprint(stdout, starterRecipe)
		return nil
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(starterRecipe), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote starter recipe file to %s\n", path)
	return nil
}

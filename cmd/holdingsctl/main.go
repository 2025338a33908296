// Command holdingsctl prints holdings and manages the database from a terminal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&holdingsCmd{}, "holdings")
	c.Register(&summaryCmd{}, "holdings")

	c.Register(&snapshotCmd{}, "maintenance")
	c.Register(&migrateCmd{}, "maintenance")
}

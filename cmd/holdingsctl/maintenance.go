package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/database"
)

type migrateCmd struct {
	out io.Writer
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending database migrations" }
func (*migrateCmd) Usage() string {
	return `holdingsctl migrate

  Applies every pending schema migration to the database at DB_PATH.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	a, cfg, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	version, _, err := database.SchemaVersion(ctx, a.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "%s is at schema version %d\n", cfg.Database.Path, version)
	return subcommands.ExitSuccess
}

type snapshotCmd struct {
	out io.Writer
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "store a holdings snapshot now" }
func (*snapshotCmd) Usage() string {
	return `holdingsctl snapshot

  Stores a portfolio-wide snapshot and one per active account, as the
  scheduled job does.
`
}

func (*snapshotCmd) SetFlags(*flag.FlagSet) {}

func (c *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	a, _, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	snapshots, err := a.Services.Snapshot.TakeSnapshots(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "stored %d snapshots, total value %s\n",
		len(snapshots), snapshots[0].Summary.TotalValue.String())
	return subcommands.ExitSuccess
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/report"
)

type summaryCmd struct {
	plain bool

	out io.Writer
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display portfolio totals by asset type and volatility" }
func (*summaryCmd) Usage() string {
	return `holdingsctl summary [-plain]

  Prints the portfolio-wide totals without the per-position table.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it.")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
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

	h, err := a.Services.Holdings.ComputeHoldings(ctx, model.HoldingsFilter{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(out, report.SummaryMarkdown(h.Summary), c.plain)
	return subcommands.ExitSuccess
}

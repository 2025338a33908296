package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/report"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/validation"
)

type holdingsCmd struct {
	accounts     stringList
	assets       stringList
	assetType    string
	volatility   string
	consolidated bool
	plain        bool

	out io.Writer
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display current holdings with cost basis and P&L" }
func (*holdingsCmd) Usage() string {
	return `holdingsctl holdings [-account <id>]... [-asset <id>]... [-type <type>] [-volatility <bucket>] [-consolidated] [-plain]

  Replays the ledger and prints one row per (asset, account) position, or one
  row per asset with -consolidated, followed by the summary.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.accounts, "account", "Only show positions in this account (repeatable).")
	f.Var(&c.assets, "asset", "Only show this asset (repeatable).")
	f.StringVar(&c.assetType, "type", "", "Only show assets of this type (CASH, STABLE, CRYPTO, EQUITY, NFT, OTHER).")
	f.StringVar(&c.volatility, "volatility", "", "Only show assets in this volatility bucket (CASH_LIKE, LOW, MEDIUM, HIGH).")
	f.BoolVar(&c.consolidated, "consolidated", false, "Merge positions of the same asset across accounts.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it.")
}

func (c *holdingsCmd) filter() (model.HoldingsFilter, error) {
	for _, ids := range [][]string{c.accounts, c.assets} {
		if len(ids) == 0 {
			continue
		}
		if err := validation.ValidateUUIDs(ids); err != nil {
			return model.HoldingsFilter{}, err
		}
	}
	return model.HoldingsFilter{
		AccountIDs:       c.accounts,
		AssetIDs:         c.assets,
		AssetType:        model.AssetType(strings.ToUpper(c.assetType)),
		VolatilityBucket: model.VolatilityBucket(strings.ToUpper(c.volatility)),
	}, nil
}

func (c *holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	filter, err := c.filter()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, _, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	var h service.Holdings
	if c.consolidated {
		h, err = a.Services.Holdings.ConsolidatedHoldings(ctx, filter)
	} else {
		h, err = a.Services.Holdings.ComputeHoldings(ctx, filter)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	title := "Holdings"
	if c.consolidated {
		title = "Holdings by asset"
	}
	printMarkdown(out, report.HoldingsMarkdown(title, h.Rows, h.Summary), c.plain)
	return subcommands.ExitSuccess
}

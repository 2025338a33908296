package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/app"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/config"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/logger"
)

// openApp loads the environment configuration and opens the application.
// Logs go to stderr so stdout only carries the report.
func openApp(ctx context.Context, migrate bool) (*app.App, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Log.Level
	if level == "info" {
		level = "warn"
	}
	log := logger.NewWithWriter(logger.Config{Level: level, Pretty: true}, os.Stderr)

	a, err := app.New(ctx, cfg, log, migrate)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

// printMarkdown renders md for the terminal, or writes it unchanged when
// plain is set or rendering fails.
func printMarkdown(out io.Writer, md string, plain bool) {
	if !plain {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(160),
		)
		if err == nil {
			if rendered, err := r.Render(md); err == nil {
				fmt.Fprint(out, rendered)
				return
			}
		}
	}
	fmt.Fprint(out, md)
}

// stringList is a repeatable string flag. Values may also be comma separated.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

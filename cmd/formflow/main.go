package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "formflow",
		Usage: "Form save workflow and autocomplete server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db-path", Usage: "SQLite database path (overrides FORMFLOW_DB_PATH)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides FORMFLOW_LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "json or console (overrides FORMFLOW_LOG_FORMAT)"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			handlersCommand(),
			hashTokenCommand(),
		},
	}
}

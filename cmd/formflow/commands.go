package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/goliatone/go-formflow/components/autocomplete"
	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/contacts"
	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/internal/server"
	"github.com/goliatone/go-formflow/pkg/persistence"
	"github.com/goliatone/go-formflow/pkg/search"
	"github.com/goliatone/go-formflow/pkg/security"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides FORMFLOW_ADDR)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, logger, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := persistence.Connect(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			srv, err := server.New(ctx, cfg, db, logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx)
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Query a registered autocomplete handler",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "handler name"},
			&cli.IntFlag{Name: "page", Value: search.DefaultPage},
			&cli.IntFlag{Name: "per-page", Value: search.DefaultPerPage},
			&cli.StringFlag{Name: "token", Usage: "evaluate access rules as the holder of this bearer token"},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "pick the handler and type the query at a prompt"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, logger, err := bootstrap(c)
			if err != nil {
				return err
			}
			registry, err := openRegistry(ctx, cfg)
			if err != nil {
				return err
			}

			req := search.Request{
				Name:    c.String("name"),
				Query:   strings.Join(c.Args().Slice(), " "),
				Page:    int(c.Int("page")),
				PerPage: int(c.Int("per-page")),
			}
			if c.Bool("interactive") {
				if req, err = promptRequest(registry, req); err != nil {
					return err
				}
			}

			policy, err := cfg.Policy()
			if err != nil {
				return err
			}
			sec := security.New(
				security.WithRules(cfg.Autocomplete.Rules),
				security.WithDefaultPolicy(policy),
				security.WithLogger(logger),
			)
			if token := c.String("token"); token != "" {
				identity, ok := security.NewTokenResolver(cfg.Grants()...).Resolve(token)
				if !ok {
					return errors.New("search: unknown token")
				}
				ctx = security.WithIdentity(ctx, identity)
			}

			result, err := autocomplete.NewDispatcher(registry, sec, logger).Search(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(c.Root().Writer, result)
		},
	}
}

func handlersCommand() *cli.Command {
	return &cli.Command{
		Name:  "handlers",
		Usage: "List registered autocomplete handlers and their access rules",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, _, err := bootstrap(c)
			if err != nil {
				return err
			}
			registry, err := openRegistry(ctx, cfg)
			if err != nil {
				return err
			}
			policy, err := cfg.Policy()
			if err != nil {
				return err
			}
			sec := security.New(security.WithRules(cfg.Autocomplete.Rules), security.WithDefaultPolicy(policy))

			out := c.Root().Writer
			for _, name := range registry.List() {
				resource, ok := sec.Resource(name)
				if !ok {
					resource = "(default: " + string(policy) + ")"
				}
				fmt.Fprintf(out, "%-16s %s\n", name, resource)
			}
			return nil
		},
	}
}

func hashTokenCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-token",
		Usage:     "Print the sha256 digest to store for a bearer token",
		ArgsUsage: "<token>",
		Action: func(_ context.Context, c *cli.Command) error {
			token := strings.TrimSpace(c.Args().First())
			if token == "" {
				return errors.New("hash-token: token argument is required")
			}
			fmt.Fprintln(c.Root().Writer, security.HashToken(token))
			return nil
		},
	}
}

func bootstrap(c *cli.Command) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if v := c.String("db-path"); v != "" {
		cfg.DBPath = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if c.Name == "serve" {
		if v := c.String("addr"); v != "" {
			cfg.Addr = v
		}
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func openRegistry(ctx context.Context, cfg config.Config) (*search.Registry, error) {
	db, err := persistence.Connect(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return registryFor(ctx, db)
}

func registryFor(ctx context.Context, db *gorm.DB) (*search.Registry, error) {
	if err := contacts.Migrate(ctx, db); err != nil {
		return nil, err
	}
	return server.NewRegistry(contacts.NewRepository(db))
}

func promptRequest(registry *search.Registry, req search.Request) (search.Request, error) {
	names := registry.List()
	if len(names) == 0 {
		return req, errors.New("search: no handlers registered")
	}

	selectPrompt := &survey.Select{
		Message: "Handler:",
		Options: names,
	}
	if registry.Has(req.Name) {
		selectPrompt.Default = req.Name
	}
	if err := survey.AskOne(selectPrompt, &req.Name); err != nil {
		return req, err
	}

	queryPrompt := &survey.Input{
		Message: "Query:",
		Default: req.Query,
	}
	if err := survey.AskOne(queryPrompt, &req.Query); err != nil {
		return req, err
	}
	return req, nil
}

func printJSON(w io.Writer, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(body))
	return err
}

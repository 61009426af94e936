package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/partsdb/internal"
	pkgconfig "github.com/starford/partsdb/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	found, err := pkgconfig.LoadOptional(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found {
		slog.Debug("config file not found, using defaults", slog.String("path", configPath))
	}
	return cfg, nil
}

func options(cmd *cli.Command) ([]internal.Option, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithOutput(cmd.Root().Writer),
		internal.WithVersion(version),
	}, nil
}

func apiFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "api",
		Aliases: []string{"a"},
		Usage:   "Distributor API to search (default from config)",
	}
}

func runLookup(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("lookup expects exactly one query argument", 1)
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	req := internal.LookupRequest{
		API:    cmd.String("api"),
		Query:  cmd.Args().First(),
		Exact:  cmd.Bool("exact"),
		Insert: cmd.Bool("insert"),
	}
	if err := internal.Lookup(ctx, req, opts...); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	return nil
}

func runInventory(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Inventory(ctx, cmd.String("api"), opts...); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}
	return nil
}

func runList(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.List(ctx, opts...)
}

func runInit(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.Init(ctx, opts...)
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}

func noCommand(_ context.Context, cmd *cli.Command) error {
	fmt.Fprintln(cmd.Writer, "Command not specified!")
	return cli.ShowAppHelp(cmd)
}

func main() {
	cmd := &cli.Command{
		Name:    "partsdb",
		Usage:   "Look up electronic parts at distributors and keep a local JSON inventory",
		Version: version,
		Writer:  os.Stdout,
		Action:  noCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "partsdb.yaml",
				Value:       "partsdb.yaml",
				Sources:     cli.EnvVars("PARTSDB_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "lookup",
				Usage:     "Search for a part and optionally insert it",
				ArgsUsage: "<query>",
				Action:    runLookup,
				Flags: []cli.Flag{
					apiFlag(),
					&cli.BoolFlag{
						Name:    "exact",
						Aliases: []string{"e"},
						Usage:   "Request an exact match (accepted, currently has no effect)",
					},
					&cli.BoolFlag{
						Name:    "insert",
						Aliases: []string{"i"},
						Usage:   "Save the part when the query matches exactly one",
					},
				},
			},
			{
				Name:   "inventory",
				Usage:  "Interactively search parts and record counts",
				Action: runInventory,
				Flags:  []cli.Flag{apiFlag()},
			},
			{
				Name:   "list",
				Usage:  "List saved parts",
				Action: runList,
			},
			{
				Name:   "init",
				Usage:  "Create the database directory",
				Action: runInit,
			},
			{
				Name:   "mcp",
				Usage:  "Serve lookup and inventory tools over MCP stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

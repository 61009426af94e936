// Package internal provides the application wiring behind each partsdb command.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/partsdb/internal/credentials"
	"github.com/starford/partsdb/internal/inventory"
	"github.com/starford/partsdb/internal/lookup"
	"github.com/starford/partsdb/internal/mcpserver"
	"github.com/starford/partsdb/internal/models"
	"github.com/starford/partsdb/internal/partservice"
	"github.com/starford/partsdb/internal/provider"
	"github.com/starford/partsdb/internal/storage"
)

// LookupRequest holds the arguments of the lookup command.
type LookupRequest struct {
	API    string
	Query  string
	Exact  bool
	Insert bool
}

func newApplication(opts []Option) (*application, error) {
	app := &application{
		in:      os.Stdin,
		out:     os.Stdout,
		version: "dev",
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.creds == nil {
		c := credentials.FromEnv()
		app.creds = &c
	}

	// Initialize text logger on stderr; stdout belongs to the operator.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("database_path", app.config.Database.Path),
		slog.String("provider", app.config.Provider.Default),
		slog.String("log_level", app.config.App.LogLevel.String()))

	return app, nil
}

// resolve builds the search and parse capabilities for api, falling back
// to the configured default provider.
func (a *application) resolve(api string) (provider.Searcher, provider.Parser, error) {
	if api == "" {
		api = a.config.Provider.Default
	}
	settings := provider.Settings{
		Endpoint:   a.config.Provider.Mouser.Endpoint,
		HTTPClient: a.httpClient,
	}
	searcher, err := provider.NewSearcher(api, *a.creds, settings)
	if err != nil {
		return nil, nil, err
	}
	parser, err := provider.NewParser(api, *a.creds)
	if err != nil {
		return nil, nil, err
	}
	return searcher, parser, nil
}

func (a *application) openParts() (*partservice.Service, error) {
	store, err := storage.NewFS(a.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database (run `partsdb init` to create it): %w", err)
	}
	return partservice.NewService(store), nil
}

// partSaver saves through the database and reports the path as configured,
// e.g. .database/NE555P.json. With no parts service it opens the database on
// first save, so a lookup that never inserts does not need the directory.
type partSaver struct {
	app   *application
	parts *partservice.Service
}

func (s *partSaver) Save(p *models.Part) (string, error) {
	if s.parts == nil {
		parts, err := s.app.openParts()
		if err != nil {
			return "", err
		}
		s.parts = parts
	}
	written, err := s.parts.Save(p)
	if err != nil {
		return "", err
	}
	slog.Debug("part written", slog.String("part", p.PartNum), slog.String("path", written))
	return filepath.Join(s.app.config.Database.Path, p.Filename()), nil
}

// Lookup runs one search and optionally inserts its single match.
func Lookup(ctx context.Context, req LookupRequest, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	searcher, parser, err := app.resolve(req.API)
	if err != nil {
		return err
	}

	flow := &lookup.Flow{
		Searcher: searcher,
		Parser:   parser,
		Saver:    &partSaver{app: app},
		Out:      app.out,
	}
	res, err := flow.Run(ctx, lookup.Request{Query: req.Query, Exact: req.Exact, Insert: req.Insert})
	if err != nil {
		return err
	}
	if res.SavedPath != "" {
		slog.Info("part inserted", slog.String("part", res.Parts[0].PartNum), slog.String("path", res.SavedPath))
	}
	return nil
}

// Inventory runs the interactive inventory loop until the operator quits.
func Inventory(ctx context.Context, api string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	searcher, parser, err := app.resolve(api)
	if err != nil {
		return err
	}
	parts, err := app.openParts()
	if err != nil {
		return err
	}

	session := inventory.NewSession(searcher, parser, &partSaver{app: app, parts: parts}, inventory.NewPromptReader(app.in, app.out), app.out)
	if err := session.Run(ctx); err != nil {
		return err
	}
	slog.Info("inventory session finished", slog.Int("saved", session.Saved()))
	return nil
}

// List prints every saved part.
func List(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	parts, err := app.openParts()
	if err != nil {
		return err
	}
	saved, err := parts.List()
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		fmt.Fprintf(app.out, "No parts saved in %s\n", app.config.Database.Path)
		return nil
	}
	for _, p := range saved {
		fmt.Fprintf(app.out, "%s (%s, %s): count %d\n", p.PartNum, p.Manufacturer, p.Category, p.Count)
	}
	return nil
}

// Init creates the database directory.
func Init(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	root, err := storage.Init(app.config.Database.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Database directory ready at %s\n", root)
	return nil
}

// ServeMCP serves the MCP tools over stdin/stdout until input closes or the
// process is interrupted.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if _, _, err := app.resolve(""); err != nil {
		return err
	}
	parts, err := app.openParts()
	if err != nil {
		return err
	}

	srv := mcpserver.New(app.resolve, parts, app.version)

	g, gCtx := errgroup.WithContext(ctx)
	srvCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		slog.Info("MCP server listening on stdio")
		if err := srv.Listen(srvCtx, app.in, app.out); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			slog.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-srvCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("MCP server stopped", slog.String("error", err.Error()))
		return err
	}
	return nil
}

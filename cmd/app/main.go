package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/logoteca/internal"
	"github.com/starford/logoteca/internal/browse"
	"github.com/starford/logoteca/internal/models"
	pkgconfig "github.com/starford/logoteca/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runQuery(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)

	g, err := internal.OpenGallery(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	q := models.Query{
		SearchTerm: cmd.String("q"),
		Color:      cmd.String("color"),
		Type:       cmd.String("type"),
	}
	res, err := g.Service.Search(ctx, q)
	if err != nil {
		return err
	}

	if !cmd.Bool("json") {
		browse.Render(os.Stdout, q, res.Logos)
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	for _, l := range res.Logos {
		if err := enc.Encode(l); err != nil {
			return err
		}
	}
	return nil
}

func runBrowse(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)

	g, err := internal.OpenGallery(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	snap := browse.SnapshotFunc(func() []models.Logo { return g.Catalog.Snapshot().Logos })
	return browse.Run(ctx, os.Stdin, os.Stdout, snap, cfg.Catalog.Debounce)
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func main() {
	cmd := &cli.Command{
		Name:    "logoteca",
		Usage:   "Gallery of historical logos described by their filenames, with search and filters",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (defaults apply when it does not exist)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the gallery API and images over HTTP",
				Action: serve,
			},
			{
				Name:   "query",
				Usage:  "Filter the catalog once and print the matching logos",
				Action: runQuery,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Usage: "Name substring or year (matches the whole decade)"},
					&cli.StringFlag{Name: "color", Usage: "Exact color"},
					&cli.StringFlag{Name: "type", Usage: "Typography: serif or sans-serif"},
					&cli.BoolFlag{Name: "json", Usage: "Print one JSON object per line"},
				},
			},
			{
				Name:   "browse",
				Usage:  "Interactive search session on the terminal",
				Action: runBrowse,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the search tools over MCP stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

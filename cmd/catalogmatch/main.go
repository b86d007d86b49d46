// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/catalogmatch"
	"github.com/poiesic/catalogmatch/config"
	"github.com/poiesic/catalogmatch/ingestion"
	"github.com/poiesic/catalogmatch/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "catalogmatch",
		Usage: "Resolve free-text material names and units against a catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a configuration file (TOML, YAML or JSON)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
			},
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "PostgreSQL connection string of a hosted catalog (read-only)",
				EnvVars: []string{"CATALOGMATCH_DSN"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "Rank catalog entries for a material description",
				ArgsUsage: "<query>",
				Action:    resolveCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results (0 uses the configured default)",
					},
					&cli.BoolFlag{
						Name:  "reasons",
						Usage: "Print the reasons behind each score",
					},
					&cli.BoolFlag{
						Name:  "metrics",
						Usage: "Print resolver metrics in Prometheus text format after the results",
					},
				},
			},
			{
				Name:      "unit",
				Usage:     "Resolve units of measure to their canonical form",
				ArgsUsage: "<unit> [unit...]",
				Action:    unitCommand,
			},
			{
				Name:   "seed",
				Usage:  "Import catalog entries and dictionary entries from a TOML seed file",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the seed file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of rows written per batch",
						Value: 500,
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report progress on stderr",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show catalog size and dictionary statistics",
				Action: statsCommand,
			},
		},
	}
}

func openDatabase(c *cli.Context) (*catalogmatch.Database, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	opts := []catalogmatch.DatabaseOption{
		catalogmatch.WithConfig(cfg),
		catalogmatch.WithLogger(slog.Default()),
	}

	dsn := c.String("dsn")
	dbPath := c.String("db")
	switch {
	case dsn != "" && dbPath != "":
		return nil, errors.New("use either --db or --dsn, not both")
	case dsn != "":
		return catalogmatch.OpenPostgres(c.Context, dsn, opts...)
	case dbPath != "":
		return catalogmatch.NewDatabase(dbPath, opts...)
	default:
		return nil, errors.New("one of --db or --dsn is required")
	}
}

func resolveCommand(c *cli.Context) error {
	raw := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(raw) == "" {
		return errors.New("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver, err := db.NewResolver()
	if err != nil {
		return err
	}
	defer resolver.Release()

	var reg *prometheus.Registry
	var monitor search.SearchMonitor
	if c.Bool("metrics") {
		reg = prometheus.NewRegistry()
		monitor = search.NewMetricsMonitor(reg)
	}

	res, err := resolver.ResolveWithMonitor(c.Context, raw, c.Int("limit"), monitor)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if reg != nil {
		defer func() {
			if err := writeMetrics(out, reg); err != nil {
				slog.Warn("writing metrics", "err", err)
			}
		}()
	}
	fmt.Fprintf(out, "archetype: %s\n", res.Query.Archetype)
	for _, f := range res.Failures {
		fmt.Fprintf(out, "warning: %v\n", f)
	}
	if len(res.Results) == 0 {
		fmt.Fprintln(out, "no matches")
		return nil
	}
	for i, r := range res.Results {
		strategies := make([]string, len(r.Strategies))
		for j, s := range r.Strategies {
			strategies[j] = string(s)
		}
		fmt.Fprintf(out, "%2d. [%d] %s (score %.1f; %s)\n",
			i+1, r.EntryId, r.DisplayName, r.FinalScore, strings.Join(strategies, ", "))
		if c.Bool("reasons") {
			for _, reason := range r.Reasons {
				fmt.Fprintf(out, "      %s\n", reason)
			}
		}
	}
	return nil
}

func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func unitCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one unit is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	resolver, err := db.NewResolver(search.WithConfig(unitConfig(db.Config())))
	if err != nil {
		return err
	}
	defer resolver.Release()

	matches, err := resolver.ResolveUnits(c.Context, c.Args().Slice())
	if err != nil {
		return err
	}
	for _, m := range matches {
		if !m.Matched() {
			fmt.Fprintf(c.App.Writer, "%s: no match\n", m.OriginalText)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s: %s (%s)\n", m.OriginalText, m.Unit, m.Tier)
	}
	return nil
}

// unitConfig trims the worker pool for unit lookups, which never fan out.
func unitConfig(cfg *config.Config) *config.Config {
	trimmed := *cfg
	trimmed.PoolSize = 1
	return &trimmed
}

func seedCommand(c *cli.Context) error {
	seed, err := ingestion.LoadSeedFile(c.String("file"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []ingestion.Option{ingestion.WithBatchSize(c.Int("batch-size"))}
	if c.Bool("progress") {
		opts = append(opts, ingestion.WithProgress(c.App.ErrWriter))
	}
	importer, err := db.NewImporter(opts...)
	if err != nil {
		return err
	}

	summary, err := importer.ImportSeed(c.Context, seed, db.Config().Tables.Catalog)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "imported %d catalog entries and %d dictionary entries\n",
		summary.Entries, summary.Synonyms)
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Stats(c.Context)
	if err != nil {
		return err
	}
	out := c.App.Writer
	fmt.Fprintf(out, "table %s: %d entries\n", stats.Table, stats.Entries)
	fmt.Fprintf(out, "materials: %d keys, %d aliases\n", stats.Dictionary.MaterialKeys, stats.Dictionary.MaterialAliases)
	fmt.Fprintf(out, "units: %d canonical, %d aliases\n", stats.Dictionary.Units, stats.Dictionary.UnitAliases)
	fmt.Fprintf(out, "fingerprint: %016x\n", stats.Dictionary.Fingerprint)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

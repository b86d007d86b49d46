package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testSeed = `
[[catalog]]
names = [
  "Пеноплэкс Комфорт 50мм",
  "Кран шаровой BVR-R DN32 065B8310R Ридан",
]

[[material_synonyms]]
canonical = "пеноплэкс"
aliases = ["xps"]

[[units]]
canonical = "м³"
aliases = ["куб.м"]
`

// runApp runs the CLI and returns its standard output.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(append([]string{"catalogmatch", "--log-level", "error"}, args...))
	return out.String(), err
}

func seededDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.toml")
	require.NoError(t, os.WriteFile(seedPath, []byte(testSeed), 0o644))

	dbPath := filepath.Join(dir, "db")
	out, err := runApp(t, "--db", dbPath, "seed", "--file", seedPath, "--progress")
	require.NoError(t, err)
	assert.Equal(t, "imported 2 catalog entries and 2 dictionary entries\n", out)
	return dbPath
}

func TestResolveCommand(t *testing.T) {
	dbPath := seededDB(t)

	out, err := runApp(t, "--db", dbPath, "resolve", "--reasons", "Кран", "BVR-R", "DN32")
	require.NoError(t, err)
	assert.Contains(t, out, "archetype: TECHNICAL")
	assert.Contains(t, out, " 1. [2] Кран шаровой BVR-R DN32 065B8310R Ридан")
	assert.Contains(t, out, "article match: BVR-R")

	out, err = runApp(t, "--db", dbPath, "resolve", "кирпич")
	require.NoError(t, err)
	assert.Contains(t, out, "no matches")

	_, err = runApp(t, "--db", dbPath, "resolve")
	assert.ErrorContains(t, err, "query is required")
}

func TestResolveCommand_Metrics(t *testing.T) {
	dbPath := seededDB(t)

	out, err := runApp(t, "--db", dbPath, "resolve", "--metrics", "Кран", "BVR-R", "DN32")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. [2] Кран шаровой BVR-R DN32 065B8310R Ридан")
	assert.Contains(t, out, "# TYPE catalogmatch_resolver_resolutions_total counter")
	assert.Contains(t, out, `catalogmatch_resolver_resolutions_total{archetype="TECHNICAL",outcome=`)
	assert.Contains(t, out, "catalogmatch_resolver_generator_duration_seconds_bucket")

	out, err = runApp(t, "--db", dbPath, "resolve", "Кран", "BVR-R", "DN32")
	require.NoError(t, err)
	assert.NotContains(t, out, "catalogmatch_resolver_")
}

func TestUnitCommand(t *testing.T) {
	dbPath := seededDB(t)

	out, err := runApp(t, "--db", dbPath, "unit", "кубм", "куб.м", "литр")
	require.NoError(t, err)
	assert.Equal(t, "кубм: м³ (fuzzy)\nкуб.м: м³ (synonym)\nлитр: no match\n", out)
}

func TestStatsCommand(t *testing.T) {
	dbPath := seededDB(t)

	out, err := runApp(t, "--db", dbPath, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "table materials: 2 entries")
	assert.Contains(t, out, "materials: 1 keys, 1 aliases")
	assert.Contains(t, out, "units: 1 canonical, 1 aliases")
}

func TestOpenDatabaseFlags(t *testing.T) {
	_, err := runApp(t, "stats")
	assert.ErrorContains(t, err, "one of --db or --dsn is required")

	_, err = runApp(t, "--db", t.TempDir(), "--dsn", "postgres://localhost/catalog", "stats")
	assert.ErrorContains(t, err, "not both")
}

func TestSeedCommandFlags(t *testing.T) {
	_, err := runApp(t, "--db", t.TempDir(), "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestSetupLogger(t *testing.T) {
	newLoggerApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				err := newLoggerApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newLoggerApp().Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

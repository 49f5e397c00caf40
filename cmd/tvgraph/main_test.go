package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workspace copies the JSON fixture into a fresh working directory, so the
// cache and config lookups stay inside the test.
func workspace(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "internal", "loader", "testdata", "show.json"))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "show.json"), data, 0o644))
	t.Setenv("TVGRAPH_CONFIG", "")
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runContext(t, context.Background(), args...)
}

func runContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = io.Discard
	err := app.RunContext(ctx, append([]string{"tvgraph"}, args...))
	return buf.String(), err
}

type showJSON struct {
	Title    string `json:"title"`
	Episodes int    `json:"episodes"`
	Rated    int    `json:"rated"`
	Seasons  []struct {
		SeasonNumber int   `json:"season_number"`
		N            int   `json:"n"`
		Outliers     []int `json:"outliers"`
	} `json:"seasons"`
}

func TestAnalyzeText(t *testing.T) {
	workspace(t)

	out, err := run(t, "analyze", "show.json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Northern Lights\n"), out)
	assert.Contains(t, out, "Episode Ratings")
	assert.Contains(t, out, "Seasons")
}

func TestAnalyzeJSON(t *testing.T) {
	workspace(t)

	out, err := run(t, "-f", "json", "analyze", "show.json")
	require.NoError(t, err)

	var v showJSON
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "Northern Lights", v.Title)
	assert.Equal(t, 9, v.Episodes)
	assert.Equal(t, 8, v.Rated)
	require.Len(t, v.Seasons, 2)
	assert.Equal(t, []int{4}, v.Seasons[0].Outliers)
	assert.Equal(t, 5, v.Seasons[0].N)
}

func TestAnalyzeSortSeasons(t *testing.T) {
	dir := workspace(t)

	out, err := run(t, "-f", "json", "analyze", "--sort-seasons", "season-desc", "show.json")
	require.NoError(t, err)
	var v showJSON
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Len(t, v.Seasons, 2)
	assert.Equal(t, 2, v.Seasons[0].SeasonNumber)
	assert.Equal(t, 1, v.Seasons[1].SeasonNumber)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tvgraph.yaml"), []byte("analysis:\n  season_sort: season-desc\n"), 0o644))
	out, err = run(t, "-f", "json", "analyze", "show.json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 2, v.Seasons[0].SeasonNumber, "config default applies without the flag")

	_, err = run(t, "analyze", "--sort-seasons", "votes-desc", "show.json")
	assert.ErrorContains(t, err, "unknown season sort order")
}

func TestAnalyzeUsesCache(t *testing.T) {
	dir := workspace(t)

	first, err := run(t, "-f", "json", "analyze", "show.json")
	require.NoError(t, err)

	entries, err := filepath.Glob(filepath.Join(dir, ".tvgraph", "cache", "*.json"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	second, err := run(t, "-f", "json", "analyze", "show.json")
	require.NoError(t, err)
	assert.JSONEq(t, first, second)

	out, err := run(t, "-f", "json", "cache", "stats")
	require.NoError(t, err)
	var stats struct {
		Entries int `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.Entries)

	_, err = run(t, "cache", "clear")
	require.NoError(t, err)
	entries, err = filepath.Glob(filepath.Join(dir, ".tvgraph", "cache", "*.json"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyzeNoCache(t *testing.T) {
	dir := workspace(t)

	_, err := run(t, "--no-cache", "analyze", "show.json")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ".tvgraph", "cache"))
	assert.True(t, os.IsNotExist(err), "a disabled cache creates no directory")
}

func TestAnalyzeOutputFile(t *testing.T) {
	dir := workspace(t)

	out, err := run(t, "-f", "markdown", "-o", "report.md", "analyze", "show.json")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(filepath.Join(dir, "report.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Northern Lights\n"))
}

func TestAnalyzeErrors(t *testing.T) {
	workspace(t)

	_, err := run(t, "analyze")
	assert.ErrorContains(t, err, "expected one episode file")

	_, err = run(t, "analyze", "missing.json")
	assert.Error(t, err)

	_, err = run(t, "analyze", "show.txt")
	assert.ErrorContains(t, err, "unsupported episode file format")
}

func TestSeasonCommand(t *testing.T) {
	workspace(t)

	out, err := run(t, "-f", "markdown", "season", "--number", "1", "show.json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Northern Lights: Season 1\n"), out)
	assert.Contains(t, out, "- **Outliers Removed:** 4\n")

	out, err = run(t, "-f", "markdown", "season", "-n", "0", "show.json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Northern Lights: Whole Show\n"), out)

	_, err = run(t, "season", "--number", "7", "show.json")
	assert.ErrorContains(t, err, "season 7 has fewer than two rated episodes")

	_, err = run(t, "season", "show.json")
	assert.Error(t, err, "--number is required")
}

func TestEpisodesCommand(t *testing.T) {
	workspace(t)

	out, err := run(t, "-f", "markdown", "episodes", "--sort", "rating-desc", "show.json")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 4)
	assert.Equal(t, "## Northern Lights: Episodes", lines[0])
	assert.Equal(t, "| 5 | 1 | 5 | Floe | 9.2 | 990 |", lines[4])

	out, err = run(t, "-f", "markdown", "episodes", "--season", "2", "show.json")
	require.NoError(t, err)
	assert.Contains(t, out, "## Northern Lights: Season 2 Episodes")
	assert.Contains(t, out, "| 9 | 2 | 3 | Return | n/a | 0 |")
	assert.NotContains(t, out, "Pilot")

	_, err = run(t, "episodes", "--sort", "alphabetical", "show.json")
	assert.ErrorContains(t, err, "alphabetical")
}

func TestConfigCommands(t *testing.T) {
	dir := workspace(t)

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Default configuration")
	assert.Contains(t, out, "r2_threshold = 0.4")

	out, err = run(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Default configuration is valid")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[refinement]\nz_threshold = -1\n"), 0o644))
	out, err = run(t, "-c", bad, "config", "validate")
	assert.Error(t, err)
	assert.Contains(t, out, "Configuration validation failed")
	assert.Contains(t, out, "z_threshold")

	good := filepath.Join(dir, "tvgraph.toml")
	require.NoError(t, os.WriteFile(good, []byte("[refinement]\nz_threshold = 2.5\n"), 0o644))
	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Configuration from: tvgraph.toml")
	assert.Contains(t, out, "z_threshold = 2.5")
}

func TestConfigChangesAnalysis(t *testing.T) {
	dir := workspace(t)
	cfg := filepath.Join(dir, "strict.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("refinement:\n  z_threshold: 5\n"), 0o644))

	out, err := run(t, "-c", cfg, "-f", "json", "analyze", "show.json")
	require.NoError(t, err)

	var v showJSON
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.NotEmpty(t, v.Seasons)
	assert.Empty(t, v.Seasons[0].Outliers, "no rating is five deviations out")
}

func TestMCPManifest(t *testing.T) {
	out, err := run(t, "mcp", "manifest")
	require.NoError(t, err)

	var m struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "io.github.mitchellav/tvgraph", m.Name)
	assert.Equal(t, version, m.Version)
}

func TestWatchStopsOnCancel(t *testing.T) {
	workspace(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, err := runContext(t, ctx, "--no-cache", "watch", "show.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Northern Lights")
	assert.Contains(t, out, "for changes")
}

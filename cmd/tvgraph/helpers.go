package main

import (
	"fmt"

	"github.com/MitchellAV/IMDb-TV-Graph/internal/cache"
	"github.com/MitchellAV/IMDb-TV-Graph/internal/loader"
	"github.com/MitchellAV/IMDb-TV-Graph/internal/logging"
	"github.com/MitchellAV/IMDb-TV-Graph/internal/output"
	"github.com/MitchellAV/IMDb-TV-Graph/internal/progress"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/analyzer/season"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/config"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// env is the per-invocation state shared by every command.
type env struct {
	cfg    *config.Config
	source string
	logger zerolog.Logger
}

// setup loads the config named by --config (or found on disk) and builds
// the logger. --verbose raises the log level to debug.
func setup(c *cli.Context) (*env, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}

	cfg := result.Config
	if c.Bool("verbose") {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.NewWithWriter(c.App.ErrWriter, cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, source: result.Source, logger: logger}, nil
}

// episodeFile returns the single positional file argument.
func episodeFile(c *cli.Context) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("expected one episode file, got %d arguments", c.Args().Len())
	}
	return c.Args().First(), nil
}

// formatter writes to --output, or to the app writer.
func (e *env) formatter(c *cli.Context) (*output.Formatter, error) {
	name := c.String("format")
	if name == "" {
		name = e.cfg.Output.Format
	}
	format := output.ParseFormat(name)
	if path := c.String("output"); path != "" {
		return output.NewFormatter(format, path, false)
	}
	return output.NewWriterFormatter(format, c.App.Writer, e.cfg.Output.Color), nil
}

func (e *env) openCache(c *cli.Context) (*cache.Cache, error) {
	enabled := e.cfg.Cache.Enabled && !c.Bool("no-cache")
	return cache.New(e.cfg.Cache.Dir, e.cfg.Cache.TTL, enabled)
}

// analyzeFile loads an episode file and computes its statistics, reusing a
// cached result when the file content and refinement settings match.
func (e *env) analyzeFile(c *cli.Context, path string) (*models.Show, *models.ShowStatistics, error) {
	data, format, err := loader.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	show, err := loader.Decode(path, data, format)
	if err != nil {
		return nil, nil, err
	}
	log := e.logger.With().Str("file", path).Logger()

	store, err := e.openCache(c)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	fingerprint := e.cfg.Fingerprint()
	key := cache.Key(cache.HashBytes(data), fingerprint, "show")

	if stats, ok := store.GetShow(key, fingerprint); ok {
		log.Debug().Str("key", key).Msg("cache hit")
		stats.Title = show.Title
		return show, stats, nil
	}

	tracker := progress.NewTrackerWriter(c.App.ErrWriter, "Analyzing seasons", season.Tasks(show.Seasons))
	stats, err := e.cfg.SeasonAnalyzer(log).AnalyzeWithProgress(c.Context, show.Seasons, tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return nil, nil, fmt.Errorf("analysis failed: %w", err)
	}
	tracker.FinishSuccess()
	stats.Title = show.Title

	warnInsufficient(log, show, stats)

	if err := store.SetShow(key, fingerprint, stats); err != nil {
		log.Warn().Err(err).Msg("failed to cache statistics")
	}
	return show, stats, nil
}

// sortSeasons orders the per-season records by --sort-seasons, or by the
// configured default.
func (e *env) sortSeasons(c *cli.Context, stats *models.ShowStatistics) error {
	name := c.String("sort-seasons")
	if name == "" {
		name = e.cfg.Analysis.SeasonSort
	}
	order, err := season.ParseSeasonSortOrder(name)
	if err != nil {
		return err
	}
	stats.Seasons = season.SortSeasons(stats.Seasons, order)
	return nil
}

// warnInsufficient logs every season that produced no statistics.
func warnInsufficient(log zerolog.Logger, show *models.Show, stats *models.ShowStatistics) {
	if stats.Show == nil {
		log.Warn().Int("rated", stats.Rated).Msg("fewer than two rated episodes in the show; no statistics")
	}
	for _, s := range show.Seasons {
		if s.Number == models.ShowSeason {
			log.Debug().Int("episodes", len(s.Episodes)).Msg("specials counted toward the whole show only")
			continue
		}
		if _, ok := stats.Season(s.Number); !ok {
			log.Warn().Int("season", s.Number).Msg("fewer than two rated episodes; season skipped")
		}
	}
}

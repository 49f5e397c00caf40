// Package season splits a show into seasons and computes trendline
// statistics for each season and for the show as a whole.
package season

import (
	"cmp"
	"context"
	"runtime"
	"slices"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/analyzer/trendline"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// Analyzer aggregates trendline statistics across the seasons of a show.
type Analyzer struct {
	workers   int
	trendline *trendline.Analyzer
	logger    zerolog.Logger
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithWorkers sets the number of seasons analyzed concurrently (0 = NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithRefinement configures the per-season trendline analyzer.
func WithRefinement(opts ...trendline.Option) Option {
	return func(a *Analyzer) {
		a.trendline = trendline.New(opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// New creates a new season analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.trendline == nil {
		a.trendline = trendline.New(trendline.WithLogger(a.logger))
	}
	if a.workers <= 0 {
		a.workers = runtime.NumCPU()
	}
	return a
}

// Sequence flattens seasons into one episode list in season order and
// assigns each episode its show-global 1-based Index. Unrated episodes
// take an index too so gaps stay visible on a shared axis. The input is
// not modified.
func Sequence(seasons []models.Season) []models.Episode {
	ordered := slices.Clone(seasons)
	slices.SortStableFunc(ordered, func(a, b models.Season) int {
		return cmp.Compare(a.Number, b.Number)
	})

	var episodes []models.Episode
	next := 1
	for _, s := range ordered {
		for _, ep := range s.Episodes {
			ep.Season = s.Number
			ep.Index = next
			next++
			episodes = append(episodes, ep)
		}
	}
	return episodes
}

// Partition groups episodes by season number, ascending. Episodes keep
// their relative order within a season.
func Partition(episodes []models.Episode) []models.Season {
	bySeason := make(map[int][]models.Episode)
	for _, ep := range episodes {
		bySeason[ep.Season] = append(bySeason[ep.Season], ep)
	}

	seasons := make([]models.Season, 0, len(bySeason))
	for n, eps := range bySeason {
		seasons = append(seasons, models.Season{Number: n, Episodes: eps})
	}
	slices.SortFunc(seasons, func(a, b models.Season) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return seasons
}

// Analyze computes the whole-show record and one record per season.
func (a *Analyzer) Analyze(ctx context.Context, seasons []models.Season) (*models.ShowStatistics, error) {
	return a.AnalyzeWithProgress(ctx, seasons, nil)
}

// job is one trendline computation: the whole show or a single season.
type job struct {
	number   int
	episodes []models.Episode
}

// plan sequences the show and lists its jobs, whole show first. Specials
// (season 0) share their number with the whole show, so they only take
// part in the whole-show series.
func plan(seasons []models.Season) ([]models.Episode, []job) {
	episodes := Sequence(seasons)
	groups := Partition(episodes)

	jobs := make([]job, 0, len(groups)+1)
	jobs = append(jobs, job{number: models.ShowSeason, episodes: episodes})
	for _, g := range groups {
		if g.Number == models.ShowSeason {
			continue
		}
		jobs = append(jobs, job{number: g.Number, episodes: g.Episodes})
	}
	return episodes, jobs
}

// Tasks returns how many times AnalyzeWithProgress reports progress for
// seasons: once per analyzed season plus once for the whole show.
func Tasks(seasons []models.Season) int {
	_, jobs := plan(seasons)
	return len(jobs)
}

// AnalyzeWithProgress is Analyze with a callback invoked once per finished
// season and once for the whole show (see Tasks).
//
// Seasons with fewer than two rated episodes are omitted, and Show is nil
// when the whole show has fewer than two. Specials (season 0) count toward
// the whole show but get no record of their own. Cancelling ctx stops
// seasons that have not started yet and returns ctx.Err().
func (a *Analyzer) AnalyzeWithProgress(ctx context.Context, seasons []models.Season, onProgress ProgressFunc) (*models.ShowStatistics, error) {
	episodes, jobs := plan(seasons)

	results := make([]*models.SeasonStatistics, len(jobs))

	p := pool.New().WithMaxGoroutines(a.workers).WithContext(ctx)
	for i := range jobs {
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			s, ok := a.trendline.ComputeEpisodes(jobs[i].episodes, jobs[i].number)
			if ok {
				results[i] = s
			} else {
				a.logger.Debug().Int("season", jobs[i].number).Msg("insufficient rated episodes")
			}

			if onProgress != nil {
				onProgress()
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	show := &models.ShowStatistics{
		Episodes: len(episodes),
		Rated:    countRated(episodes),
		Show:     results[0],
		Seasons:  make([]models.SeasonStatistics, 0, len(jobs)-1),
	}
	for _, s := range results[1:] {
		if s != nil {
			show.Seasons = append(show.Seasons, *s)
		}
	}

	a.logger.Debug().
		Int("episodes", show.Episodes).
		Int("rated", show.Rated).
		Int("seasons", len(show.Seasons)).
		Msg("show analyzed")
	return show, nil
}

// AnalyzeSeason computes the record of a single season, numbered against
// the show-global index. It returns false when the season is missing, is
// the specials season, or has fewer than two rated episodes.
func (a *Analyzer) AnalyzeSeason(seasons []models.Season, number int) (*models.SeasonStatistics, bool) {
	_, jobs := plan(seasons)
	for _, j := range jobs[1:] {
		if j.number == number {
			return a.trendline.ComputeEpisodes(j.episodes, number)
		}
	}
	return nil, false
}

func countRated(episodes []models.Episode) int {
	n := 0
	for _, ep := range episodes {
		if ep.IsRated() {
			n++
		}
	}
	return n
}

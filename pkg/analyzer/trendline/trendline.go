// Package trendline fits a rating trendline to a set of episodes and prunes
// statistical outliers one at a time until the fit is stable.
package trendline

import (
	"cmp"
	"math"
	"slices"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/stats"
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog"
)

// Analyzer computes season statistics with iterative outlier removal.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	r2Threshold   float64
	zThreshold    float64
	maxIterations int
	minDeviation  float64
	logger        zerolog.Logger
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithR2Threshold sets the R² above which residuals are scored instead of raw ratings.
func WithR2Threshold(threshold float64) Option {
	return func(a *Analyzer) {
		a.r2Threshold = threshold
	}
}

// WithZThreshold sets the |z| a point must exceed to be an outlier.
func WithZThreshold(threshold float64) Option {
	return func(a *Analyzer) {
		a.zThreshold = threshold
	}
}

// WithMaxIterations caps the number of fits (0 = number of points).
func WithMaxIterations(n int) Option {
	return func(a *Analyzer) {
		a.maxIterations = n
	}
}

// WithMinDeviation sets the relative deviation below which no point is scored.
func WithMinDeviation(d float64) Option {
	return func(a *Analyzer) {
		a.minDeviation = d
	}
}

// WithLogger sets the logger used to trace outlier removals.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// New creates a new trendline analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		r2Threshold:  DefaultR2Threshold,
		zThreshold:   DefaultZThreshold,
		minDeviation: DefaultMinDeviation,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = New()

// Compute returns the statistics of points using the default settings.
func Compute(points []models.RatedPoint, season int) (*models.SeasonStatistics, bool) {
	return defaultAnalyzer.Compute(points, season)
}

// ComputeEpisodes drops unrated episodes and computes the statistics of the rest.
func (a *Analyzer) ComputeEpisodes(episodes []models.Episode, season int) (*models.SeasonStatistics, bool) {
	return a.Compute(models.RatedPoints(episodes), season)
}

// Compute returns the statistics record of points, or false when fewer than
// two points are given. Points with a zero rating are ignored. Points may
// arrive in any order; they are analyzed in ascending x, so Start and End
// sit at the smallest and largest retained x.
//
// The range, sum, variance, correlation and covariance describe every rated
// point. The remaining fields describe the points left after outlier removal.
func (a *Analyzer) Compute(points []models.RatedPoint, season int) (*models.SeasonStatistics, bool) {
	points = ordered(rated(points))
	if len(points) < 2 {
		return nil, false
	}

	xs, ys := split(points)
	minX, maxX := extentX(points)
	minY, maxY := stats.Extent(ys)

	r := a.Refine(points, season)
	f := r.Final
	first, last := f.Points[0].X, f.Points[len(f.Points)-1].X
	lq, uq := stats.Quartiles(f.Median, f.IQR)
	lf, uf := stats.Fences(f.Median, f.IQR)

	return &models.SeasonStatistics{
		SeasonNumber: season,
		Start:        models.Point{X: first, Y: f.Regression.Line.At(float64(first))},
		End:          models.Point{X: last, Y: f.Regression.Line.At(float64(last))},
		N:            len(f.Points),
		Line:         f.Regression.Line,
		RangeX:       [2]int{minX, maxX},
		RangeY:       [2]float64{minY, maxY},
		MedianY:      f.Median,
		SumY:         stats.Sum(ys),
		MeanY:        f.Mean,
		StdY:         f.StdDev,
		IQR:          f.IQR,
		VarianceY:    stats.Variance(ys),
		R2:           f.Regression.R2,
		StdErr:       f.Regression.StdErr,
		Correlation:  stats.Correlation(xs, ys),
		Covariance:   stats.Covariance(xs, ys),
		Outliers:     r.Outliers,
		Quartiles:    [2]float64{lq, uq},
		Fences:       [2]float64{lf, uf},
		Iterations:   r.Iterations,
	}, true
}

// Refine runs the refinement loop over points, which must hold at least two
// rated points. Each pass fits the retained set, scores every point under
// the policy selected by the fit's R², and removes the single highest |z|
// above the threshold. Ties go to the lowest x, then to the earlier point.
// The loop ends when no point qualifies, when a removal would leave fewer
// than two points, or after the iteration cap.
//
// Each removal takes out exactly one point, even when several share its x.
func (a *Analyzer) Refine(points []models.RatedPoint, season int) Refinement {
	points = ordered(points)
	limit := a.maxIterations
	if limit <= 0 || limit > len(points) {
		limit = len(points)
	}

	// removed holds positions in points, not x values.
	removed := roaring.New()
	outliers := make([]int, 0)
	var removals []Removal
	retained, positions := without(points, removed)

	for iter := 1; ; iter++ {
		f := NewFit(retained)
		policy := SelectPolicy(f.Regression.R2, a.r2Threshold)

		idx, z := a.selectOutlier(&f, policy)
		if idx < 0 || len(retained) <= 2 || iter >= limit {
			a.logger.Debug().
				Int("season", season).
				Int("iterations", iter).
				Int("retained", len(retained)).
				Ints("outliers", outliers).
				Str("policy", string(policy.Kind())).
				Float64("r2", f.Regression.R2).
				Msg("trendline settled")
			return Refinement{
				Final:      f,
				Policy:     policy.Kind(),
				Outliers:   outliers,
				Removals:   removals,
				Iterations: iter,
			}
		}

		p := retained[idx]
		removed.Add(uint32(positions[idx]))
		outliers = append(outliers, p.X)
		removals = append(removals, Removal{
			X:        p.X,
			Y:        p.Y,
			Z:        z,
			Policy:   policy.Kind(),
			Retained: len(retained),
		})
		a.logger.Debug().
			Int("season", season).
			Int("x", p.X).
			Float64("y", p.Y).
			Float64("z", z).
			Str("policy", string(policy.Kind())).
			Msg("removed outlier")

		retained, positions = without(points, removed)
	}
}

// selectOutlier returns the index of the highest-scoring point above the z
// threshold, or -1 when there is none.
func (a *Analyzer) selectOutlier(f *Fit, p Policy) (int, float64) {
	floor := a.minDeviation * math.Max(1, math.Abs(f.Mean))
	best, bestZ := -1, 0.0
	for i, z := range Scores(f, p, floor) {
		if z > a.zThreshold && z > bestZ {
			best, bestZ = i, z
		}
	}
	return best, bestZ
}

// NewFit computes the regression and summary statistics of points.
func NewFit(points []models.RatedPoint) Fit {
	xs, ys := split(points)
	return Fit{
		Points:     points,
		Xs:         xs,
		Ys:         ys,
		Regression: stats.Regress(xs, ys),
		Median:     stats.Median(ys),
		Mean:       stats.Mean(ys),
		StdDev:     stats.StdDev(ys),
		IQR:        stats.IQR(ys),
	}
}

func rated(points []models.RatedPoint) []models.RatedPoint {
	if !slices.ContainsFunc(points, func(p models.RatedPoint) bool { return p.Y == 0 }) {
		return points
	}
	out := make([]models.RatedPoint, 0, len(points))
	for _, p := range points {
		if p.Y != 0 {
			out = append(out, p)
		}
	}
	return out
}

// ordered returns points sorted by x. Equal x values keep their input order.
func ordered(points []models.RatedPoint) []models.RatedPoint {
	byX := func(a, b models.RatedPoint) int { return cmp.Compare(a.X, b.X) }
	if slices.IsSortedFunc(points, byX) {
		return points
	}
	out := slices.Clone(points)
	slices.SortStableFunc(out, byX)
	return out
}

// without returns the points whose positions are not in removed, along
// with those positions.
func without(points []models.RatedPoint, removed *roaring.Bitmap) ([]models.RatedPoint, []int) {
	n := len(points) - int(removed.GetCardinality())
	out := make([]models.RatedPoint, 0, n)
	positions := make([]int, 0, n)
	for i, p := range points {
		if !removed.Contains(uint32(i)) {
			out = append(out, p)
			positions = append(positions, i)
		}
	}
	return out, positions
}

func split(points []models.RatedPoint) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.X)
		ys[i] = p.Y
	}
	return xs, ys
}

func extentX(points []models.RatedPoint) (lo, hi int) {
	lo, hi = points[0].X, points[0].X
	for _, p := range points[1:] {
		lo = min(lo, p.X)
		hi = max(hi, p.X)
	}
	return lo, hi
}
